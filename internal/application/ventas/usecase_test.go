package ventas_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/notifications"
	"github.com/jhoicas/Ventas-api/internal/application/ventas"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

type fixture struct {
	st      *memory.Store
	uc      *ventas.SaleUseCase
	advisor entity.Actor
	bo      entity.Actor
	bo2     entity.Actor
}

type failingNotifier struct{ calls int }

func (f *failingNotifier) SaleRegistered(context.Context, *entity.Sale, string) (int, error) {
	f.calls++
	return 0, errors.New("inbox caído")
}

func (f *failingNotifier) SaleCompleted(context.Context, *entity.Sale) (int, error) {
	f.calls++
	return 0, errors.New("inbox caído")
}

type fakeSheets struct{}

func (fakeSheets) GenerateSaleSheet(_ context.Context, s *entity.Sale, h []*entity.Notification) ([]byte, error) {
	return []byte(fmt.Sprintf("%%PDF venta %d (%d notificaciones)", s.Number, len(h))), nil
}

func addUser(t *testing.T, st *memory.Store, username, role string) entity.Actor {
	t.Helper()
	u := &entity.User{Username: username, FirstName: username, LastName: "Test", Role: role, Active: true}
	require.NoError(t, st.Users().Create(context.Background(), u))
	return entity.Actor{UserID: u.ID, Role: u.Role}
}

func newFixture(t *testing.T, notifier ventas.Notifier) *fixture {
	t.Helper()
	st := memory.NewStore()
	f := &fixture{st: st}
	f.advisor = addUser(t, st, "ana", entity.RoleAsesor)
	f.bo = addUser(t, st, "beto", entity.RoleBackOffice)
	f.bo2 = addUser(t, st, "carla", entity.RoleBackOffice)

	inbox := notifications.NewInbox(st.Notifications(), nil, logger.Nop())
	if notifier == nil {
		notifier = notifications.NewDispatcher(st.Users(), st.Notifications(), logger.Nop())
	}
	f.uc = ventas.NewSaleUseCase(ventas.Deps{
		Sales:    st.Sales(),
		Users:    st.Users(),
		Notifs:   st.Notifications(),
		Tx:       st,
		Notifier: notifier,
		Reads:    inbox,
		Sheets:   fakeSheets{},
		Log:      logger.Nop(),
	})
	return f
}

func registerReq() dto.RegisterSaleRequest {
	return dto.RegisterSaleRequest{
		Modality:       entity.ModalityCallCenter,
		Shift:          entity.ShiftManana,
		ClientName:     "Juan Quispe",
		ClientDNI:      "12345678",
		ClientPhone:    "987654321",
		ClientGender:   entity.GenderMale,
		ProductService: "Internet 200Mbps",
		Amount:         decimal.RequireFromString("150.00"),
	}
}

func completeReq() dto.CompleteBackOfficeRequest {
	return dto.CompleteBackOfficeRequest{SEC: "S1", SOT: "T1", ScheduledInstallDate: "2024-05-01"}
}

func unread(t *testing.T, f *fixture, userID string) int {
	t.Helper()
	n, err := f.st.Notifications().CountUnread(context.Background(), userID)
	require.NoError(t, err)
	return n
}

func TestEscenarioCompleto(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	s, err := f.uc.Register(ctx, f.advisor, registerReq())
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPendienteBO, s.Status)
	assert.Equal(t, f.advisor.UserID, s.AdvisorID)
	assert.True(t, s.Amount.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, 1, unread(t, f, f.bo.UserID))
	assert.Equal(t, 1, unread(t, f, f.bo2.UserID))

	done, err := f.uc.CompleteBackOffice(ctx, f.bo, s.ID, completeReq())
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPendienteAudio, done.Status)
	assert.Equal(t, "S1", done.SEC)
	assert.Equal(t, "T1", done.SOT)
	require.NotNil(t, done.ScheduledInstallDate)
	assert.Equal(t, "2024-05-01", *done.ScheduledInstallDate)
	require.NotNil(t, done.ModifiedBy)
	assert.Equal(t, f.bo.UserID, *done.ModifiedBy)

	list, err := f.st.Notifications().ListBySale(ctx, s.ID)
	require.NoError(t, err)
	var toAdvisor []*entity.Notification
	for _, n := range list {
		if n.RecipientID == f.advisor.UserID {
			toAdvisor = append(toAdvisor, n)
		}
	}
	require.Len(t, toAdvisor, 1, "exactamente una notificación al asesor")
	assert.Contains(t, toAdvisor[0].Message, "2024-05-01")
	assert.Equal(t, 1, unread(t, f, f.bo.UserID), "el que completa no recibe notificación")

	_, err = f.uc.CompleteBackOffice(ctx, f.bo2, s.ID, completeReq())
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, 1, unread(t, f, f.advisor.UserID))
}

func TestRegister_RolNoPermitido(t *testing.T) {
	f := newFixture(t, nil)
	for _, role := range entity.Roles() {
		if role == entity.RoleAsesor {
			continue
		}
		actor := addUser(t, f.st, "u_"+role, role)
		_, err := f.uc.Register(context.Background(), actor, registerReq())
		assert.ErrorIs(t, err, domain.ErrUnauthorized, role)
	}
	_, total, _ := f.st.Sales().List(context.Background(), repositoryAll())
	assert.Zero(t, total)
}

func TestCompleteBackOffice_RolSeVerificaAntesQueElEstado(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s, err := f.uc.Register(ctx, f.advisor, registerReq())
	require.NoError(t, err)

	_, err = f.uc.CompleteBackOffice(ctx, f.advisor, s.ID, completeReq())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.CompleteBackOffice(ctx, f.advisor, "no-existe", completeReq())
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "sin rol no se revela si la venta existe")

	_, err = f.uc.CompleteBackOffice(ctx, f.bo, s.ID, completeReq())
	require.NoError(t, err)
	_, err = f.uc.CompleteBackOffice(ctx, f.advisor, s.ID, completeReq())
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "con la venta ya procesada sigue siendo error de rol")
}

func TestCompleteBackOffice_NoEncontradaYFechaInvalida(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.uc.CompleteBackOffice(context.Background(), f.bo, "no-existe", completeReq())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req := completeReq()
	req.ScheduledInstallDate = "01/05/2024"
	_, err = f.uc.CompleteBackOffice(context.Background(), f.bo, "no-existe", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompleteBackOffice_ConcurrenciaSoloUnoGana(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s, err := f.uc.Register(ctx, f.advisor, registerReq())
	require.NoError(t, err)

	const n = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		illegal int
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		actor := f.bo
		if i%2 == 1 {
			actor = f.bo2
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.uc.CompleteBackOffice(ctx, actor, s.ID, completeReq())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrIllegalTransition):
				illegal++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, illegal)
	assert.Equal(t, 1, unread(t, f, f.advisor.UserID), "una sola notificación al asesor")
}

func TestDispatchFallidoNoRevierteLaVenta(t *testing.T) {
	notifier := &failingNotifier{}
	f := newFixture(t, notifier)
	ctx := context.Background()

	s, err := f.uc.Register(ctx, f.advisor, registerReq())
	require.NoError(t, err)
	stored, _ := f.st.Sales().GetByID(ctx, s.ID)
	require.NotNil(t, stored)

	_, err = f.uc.CompleteBackOffice(ctx, f.bo, s.ID, completeReq())
	require.NoError(t, err)
	stored, _ = f.st.Sales().GetByID(ctx, s.ID)
	assert.Equal(t, entity.SaleStatusPendienteAudio, stored.Status)
	assert.Equal(t, 2, notifier.calls)
}

func TestDispatchNoSeEjecutaSiLaTransicionFalla(t *testing.T) {
	notifier := &failingNotifier{}
	f := newFixture(t, notifier)
	_, _ = f.uc.CompleteBackOffice(context.Background(), f.bo, "no-existe", completeReq())
	assert.Zero(t, notifier.calls)
}

func TestRegister_ValidacionDeCampos(t *testing.T) {
	f := newFixture(t, nil)
	req := registerReq()
	req.ClientDNI = "123"
	_, err := f.uc.Register(context.Background(), f.advisor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, unread(t, f, f.bo.UserID))
}

func TestUpdateAdvisorFields(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s, err := f.uc.Register(ctx, f.advisor, registerReq())
	require.NoError(t, err)
	before := unread(t, f, f.bo.UserID)

	req := registerReq()
	req.ClientPhone = "911111111"
	updated, err := f.uc.UpdateAdvisorFields(ctx, f.advisor, s.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "911111111", updated.ClientPhone)
	assert.Equal(t, entity.SaleStatusPendienteBO, updated.Status)
	assert.Equal(t, before, unread(t, f, f.bo.UserID), "editar no notifica")

	other := addUser(t, f.st, "otro", entity.RoleAsesor)
	_, err = f.uc.UpdateAdvisorFields(ctx, other, s.ID, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.UpdateAdvisorFields(ctx, f.bo, s.ID, req)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// PENDIENTE_AUDIO todavía es editable; luego de la revisión de audio ya no.
	_, err = f.uc.CompleteBackOffice(ctx, f.bo, s.ID, completeReq())
	require.NoError(t, err)
	_, err = f.uc.UpdateAdvisorFields(ctx, f.advisor, s.ID, req)
	require.NoError(t, err)

	stored, _ := f.st.Sales().GetByID(ctx, s.ID)
	stored.Status = entity.SaleStatusAudioRevision
	require.NoError(t, f.st.Sales().Update(ctx, stored))
	_, err = f.uc.UpdateAdvisorFields(ctx, f.advisor, s.ID, req)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestListOwn_FiltrosYPaginacion(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var tick int
	st := memory.NewStore()
	f := &fixture{st: st}
	f.advisor = addUser(t, st, "ana", entity.RoleAsesor)
	f.bo = addUser(t, st, "beto", entity.RoleBackOffice)
	other := addUser(t, st, "otro", entity.RoleAsesor)
	f.uc = ventas.NewSaleUseCase(ventas.Deps{
		Sales: st.Sales(), Users: st.Users(), Notifs: st.Notifications(), Tx: st,
		Notifier: notifications.NewDispatcher(st.Users(), st.Notifications(), logger.Nop()),
		Log:      logger.Nop(),
		Now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Hour)
		},
	})
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		req := registerReq()
		req.ClientName = fmt.Sprintf("Cliente %02d", i)
		_, err := f.uc.Register(ctx, f.advisor, req)
		require.NoError(t, err)
	}
	_, err := f.uc.Register(ctx, other, registerReq())
	require.NoError(t, err)

	p1, err := f.uc.ListOwn(ctx, f.advisor, dto.SaleListQuery{})
	require.NoError(t, err)
	assert.Len(t, p1.Items, 20)
	assert.Equal(t, 25, p1.Page.Total)
	assert.Equal(t, 2, p1.Page.TotalPages)
	assert.Equal(t, "Cliente 24", p1.Items[0].ClientName, "más recientes primero")

	p2, err := f.uc.ListOwn(ctx, f.advisor, dto.SaleListQuery{Page: 2})
	require.NoError(t, err)
	assert.Len(t, p2.Items, 5)

	found, err := f.uc.ListOwn(ctx, f.advisor, dto.SaleListQuery{Search: "cliente 07"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)

	none, err := f.uc.ListOwn(ctx, f.advisor, dto.SaleListQuery{Status: entity.SaleStatusInstalada})
	require.NoError(t, err)
	assert.Empty(t, none.Items)

	_, err = f.uc.ListOwn(ctx, f.advisor, dto.SaleListQuery{Status: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	day, err := f.uc.ListOwn(ctx, f.advisor, dto.SaleListQuery{From: "2024-05-02", To: "2024-05-02"})
	require.NoError(t, err)
	assert.Equal(t, 11, day.Page.Total, "registradas entre las 00:00 y las 10:00 del 2 de mayo")

	pending, err := f.uc.ListPending(ctx, f.bo, dto.SaleListQuery{AdvisorID: other.UserID})
	require.NoError(t, err)
	assert.Equal(t, 1, pending.Page.Total)

	_, err = f.uc.ListPending(ctx, f.advisor, dto.SaleListQuery{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGetForAdvisor_MarcaLeidasYRestringeAlDueno(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s, err := f.uc.Register(ctx, f.advisor, registerReq())
	require.NoError(t, err)
	_, err = f.uc.CompleteBackOffice(ctx, f.bo, s.ID, completeReq())
	require.NoError(t, err)
	require.Equal(t, 1, unread(t, f, f.advisor.UserID))

	got, err := f.uc.GetForAdvisor(ctx, f.advisor, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Zero(t, unread(t, f, f.advisor.UserID))

	other := addUser(t, f.st, "otro", entity.RoleAsesor)
	_, err = f.uc.GetForAdvisor(ctx, other, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetForBackOffice_MarcaLeidas(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s, err := f.uc.Register(ctx, f.advisor, registerReq())
	require.NoError(t, err)

	_, err = f.uc.GetForBackOffice(ctx, f.bo, s.ID)
	require.NoError(t, err)
	assert.Zero(t, unread(t, f, f.bo.UserID))
	assert.Equal(t, 1, unread(t, f, f.bo2.UserID), "solo las del que consulta")

	_, err = f.uc.GetForBackOffice(ctx, f.bo, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetSheet(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s, err := f.uc.Register(ctx, f.advisor, registerReq())
	require.NoError(t, err)

	out, name, err := f.uc.GetSheet(ctx, f.advisor, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "venta-1.pdf", name)
	assert.Equal(t, "%PDF venta 1 (2 notificaciones)", string(out))

	other := addUser(t, f.st, "otro", entity.RoleAsesor)
	_, _, err = f.uc.GetSheet(ctx, other, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = f.uc.GetSheet(ctx, f.bo, s.ID)
	assert.NoError(t, err)

	seguimiento := addUser(t, f.st, "seg", entity.RoleSeguimientoHombre)
	_, _, err = f.uc.GetSheet(ctx, seguimiento, s.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
