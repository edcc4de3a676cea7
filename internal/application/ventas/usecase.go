package ventas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
	"github.com/jhoicas/Ventas-api/pkg/logger"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
)

// SaleUseCase casos de uso de ventas.
type SaleUseCase struct {
	sales    repository.SaleRepository
	users    repository.UserRepository
	notifs   repository.NotificationRepository
	tx       TxRunner
	notifier Notifier
	reads    ReadMarker
	sheets   SaleSheetGenerator
	log      *logger.Logger
	now      func() time.Time
}

// Deps dependencias de SaleUseCase.
type Deps struct {
	Sales    repository.SaleRepository
	Users    repository.UserRepository
	Notifs   repository.NotificationRepository
	Tx       TxRunner
	Notifier Notifier
	Reads    ReadMarker
	Sheets   SaleSheetGenerator
	Log      *logger.Logger
	Now      func() time.Time // opcional
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(d Deps) *SaleUseCase {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &SaleUseCase{
		sales:    d.Sales,
		users:    d.Users,
		notifs:   d.Notifs,
		tx:       d.Tx,
		notifier: d.Notifier,
		reads:    d.Reads,
		sheets:   d.Sheets,
		log:      d.Log.Named("ventas"),
		now:      now,
	}
}

// Register crea una venta en PENDIENTE_BO a nombre del asesor autenticado y notifica a back office.
func (uc *SaleUseCase) Register(ctx context.Context, actor entity.Actor, in dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.authorize(actor, sale.OpRegisterSale); err != nil {
		return nil, err
	}
	advisor, err := uc.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if advisor == nil {
		return nil, domain.ErrUserNotFound
	}
	if !advisor.Active {
		return nil, domain.ErrInactiveUser
	}

	now := uc.now()
	by := actor.UserID
	s := &entity.Sale{
		ID:          uuid.New().String(),
		AdvisorID:   advisor.ID,
		AdvisorName: advisor.FullName(),
		Status:      entity.SaleStatusPendienteBO,
		CreatedAt:   now,
		UpdatedAt:   now,
		ModifiedBy:  &by,
	}
	applyAdvisorFields(s, in)
	if err := sale.ValidateAdvisorFields(s); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := uc.sales.Create(ctx, s); err != nil {
		return nil, err
	}
	metrics.SaleTransitions.WithLabelValues("", s.Status).Inc()
	uc.log.Info().Str("venta_id", s.ID).Int64("numero", s.Number).Str("asesor_id", s.AdvisorID).Msg("venta registrada")

	dctx := context.WithoutCancel(ctx)
	uc.dispatch("registro", s, func() (int, error) { return uc.notifier.SaleRegistered(dctx, s, s.AdvisorName) })
	return ToSaleResponse(s), nil
}

// CompleteBackOffice completa SEC/SOT/fecha y pasa la venta a PENDIENTE_AUDIO.
// Lectura, guarda de estado y escritura ocurren bajo el bloqueo de la fila; de dos
// llamadas concurrentes sobre la misma venta solo una tiene éxito.
func (uc *SaleUseCase) CompleteBackOffice(ctx context.Context, actor entity.Actor, saleID string, in dto.CompleteBackOfficeRequest) (*dto.SaleResponse, error) {
	if err := uc.authorize(actor, sale.OpCompleteBackOffice); err != nil {
		return nil, err
	}
	date, err := time.Parse(time.DateOnly, in.ScheduledInstallDate)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de instalación inválida", domain.ErrInvalidInput)
	}
	sec, sot := strings.TrimSpace(in.SEC), strings.TrimSpace(in.SOT)
	if sec == "" || sot == "" {
		return nil, fmt.Errorf("%w: SEC y SOT son obligatorios", domain.ErrInvalidInput)
	}

	var (
		completed *entity.Sale
		from      string
	)
	err = uc.tx.RunSales(ctx, func(sales repository.SaleRepository, _ repository.NotificationRepository) error {
		s, err := sales.GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if !sale.CanCompleteBackOffice(s.Status) {
			return domain.ErrIllegalTransition
		}
		from = s.Status
		by := actor.UserID
		s.SEC = sec
		s.SOT = sot
		s.ScheduledInstallDate = &date
		s.Status = sale.StatusAfterBackOffice
		s.UpdatedAt = uc.now()
		s.ModifiedBy = &by
		if err := sales.Update(ctx, s); err != nil {
			return err
		}
		completed = s
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrIllegalTransition) {
			metrics.SaleTransitionsRejected.WithLabelValues(string(sale.OpCompleteBackOffice), "estado").Inc()
		}
		return nil, err
	}

	metrics.SaleTransitions.WithLabelValues(from, completed.Status).Inc()
	uc.log.Info().Str("venta_id", completed.ID).Str("por", actor.UserID).Msg("venta completada por back office")

	dctx := context.WithoutCancel(ctx)
	uc.dispatch("completado", completed, func() (int, error) { return uc.notifier.SaleCompleted(dctx, completed) })
	return ToSaleResponse(completed), nil
}

// UpdateAdvisorFields el asesor dueño edita datos de cliente/producto mientras la venta
// está en PENDIENTE_BO o PENDIENTE_AUDIO. No genera notificaciones.
func (uc *SaleUseCase) UpdateAdvisorFields(ctx context.Context, actor entity.Actor, saleID string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.authorize(actor, sale.OpEditAdvisorFields); err != nil {
		return nil, err
	}
	var updated *entity.Sale
	err := uc.tx.RunSales(ctx, func(sales repository.SaleRepository, _ repository.NotificationRepository) error {
		s, err := sales.GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if s == nil || s.AdvisorID != actor.UserID {
			return domain.ErrNotFound
		}
		if !sale.CanAdvisorEdit(s.Status) {
			return domain.ErrIllegalTransition
		}
		applyAdvisorFields(s, in)
		if err := sale.ValidateAdvisorFields(s); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		by := actor.UserID
		s.UpdatedAt = uc.now()
		s.ModifiedBy = &by
		if err := sales.Update(ctx, s); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrIllegalTransition) {
			metrics.SaleTransitionsRejected.WithLabelValues(string(sale.OpEditAdvisorFields), "estado").Inc()
		}
		return nil, err
	}
	return ToSaleResponse(updated), nil
}

// ListOwn ventas del asesor autenticado con filtros de estado, fechas y búsqueda.
func (uc *SaleUseCase) ListOwn(ctx context.Context, actor entity.Actor, q dto.SaleListQuery) (*dto.SaleListResponse, error) {
	if err := uc.authorize(actor, sale.OpListOwnSales); err != nil {
		return nil, err
	}
	f, page, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	f.AdvisorID = actor.UserID
	return uc.list(ctx, f, page)
}

// ListPending ventas en PENDIENTE_BO, opcionalmente de un asesor y con búsqueda por nombre/DNI/teléfono.
func (uc *SaleUseCase) ListPending(ctx context.Context, actor entity.Actor, q dto.SaleListQuery) (*dto.SaleListResponse, error) {
	if err := uc.authorize(actor, sale.OpListPendingSales); err != nil {
		return nil, err
	}
	q.Status = ""
	q.From, q.To = "", ""
	f, page, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	f.Status = entity.SaleStatusPendienteBO
	f.AdvisorID = q.AdvisorID
	return uc.list(ctx, f, page)
}

func (uc *SaleUseCase) list(ctx context.Context, f repository.SaleFilter, page int) (*dto.SaleListResponse, error) {
	items, total, err := uc.sales.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.SaleListResponse{
		Items: ToSaleResponses(items),
		Page:  dto.NewPageResponse(page, sale.PageSize, total),
	}, nil
}

// GetForAdvisor detalle de una venta propia; marca como leídas las notificaciones del asesor sobre ella.
func (uc *SaleUseCase) GetForAdvisor(ctx context.Context, actor entity.Actor, saleID string) (*dto.SaleResponse, error) {
	if err := uc.authorize(actor, sale.OpListOwnSales); err != nil {
		return nil, err
	}
	s, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if s == nil || s.AdvisorID != actor.UserID {
		return nil, domain.ErrNotFound
	}
	uc.markRead(ctx, actor, s.ID)
	return ToSaleResponse(s), nil
}

// GetForBackOffice detalle de cualquier venta para back office; marca sus notificaciones como leídas.
func (uc *SaleUseCase) GetForBackOffice(ctx context.Context, actor entity.Actor, saleID string) (*dto.SaleResponse, error) {
	if err := uc.authorize(actor, sale.OpViewPendingSale); err != nil {
		return nil, err
	}
	s, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	uc.markRead(ctx, actor, s.ID)
	return ToSaleResponse(s), nil
}

// GetSheet genera la ficha PDF. Un asesor solo puede descargar las suyas.
func (uc *SaleUseCase) GetSheet(ctx context.Context, actor entity.Actor, saleID string) ([]byte, string, error) {
	if err := uc.authorize(actor, sale.OpDownloadSheet); err != nil {
		return nil, "", err
	}
	s, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	if s == nil || (actor.Role == entity.RoleAsesor && s.AdvisorID != actor.UserID) {
		return nil, "", domain.ErrNotFound
	}
	history, err := uc.notifs.ListBySale(ctx, s.ID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.sheets.GenerateSaleSheet(ctx, s, history)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("venta-%d.pdf", s.Number), nil
}

func (uc *SaleUseCase) authorize(actor entity.Actor, op sale.Operation) error {
	if sale.Allowed(actor.Role, op) {
		return nil
	}
	metrics.SaleTransitionsRejected.WithLabelValues(string(op), "rol").Inc()
	return domain.ErrUnauthorized
}

// dispatch ejecuta el envío de notificaciones; un error se registra y no se propaga.
func (uc *SaleUseCase) dispatch(event string, s *entity.Sale, fn func() (int, error)) {
	n, err := fn()
	if err != nil {
		uc.log.Error().Err(err).Str("event", event).Str("venta_id", s.ID).Int("creadas", n).Msg("despacho de notificaciones incompleto")
	}
}

func (uc *SaleUseCase) markRead(ctx context.Context, actor entity.Actor, saleID string) {
	if uc.reads == nil {
		return
	}
	if _, err := uc.reads.MarkAllForSale(ctx, actor, saleID); err != nil {
		uc.log.Warn().Err(err).Str("venta_id", saleID).Msg("marcar notificaciones de la venta")
	}
}

func applyAdvisorFields(s *entity.Sale, in dto.RegisterSaleRequest) {
	s.Modality = in.Modality
	s.Shift = in.Shift
	s.ClientName = strings.TrimSpace(in.ClientName)
	s.ClientDNI = strings.TrimSpace(in.ClientDNI)
	s.ClientPhone = strings.TrimSpace(in.ClientPhone)
	s.ClientAddress = strings.TrimSpace(in.ClientAddress)
	s.ClientEmail = strings.TrimSpace(in.ClientEmail)
	s.ClientGender = in.ClientGender
	s.ProductService = strings.TrimSpace(in.ProductService)
	s.Amount = in.Amount
	s.Notes = strings.TrimSpace(in.Notes)
}

func buildFilter(q dto.SaleListQuery) (repository.SaleFilter, int, error) {
	var f repository.SaleFilter
	if q.Status != "" {
		if !sale.IsValidStatus(q.Status) {
			return f, 0, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, q.Status)
		}
		f.Status = q.Status
	}
	for _, d := range []struct {
		raw string
		dst **time.Time
	}{{q.From, &f.From}, {q.To, &f.To}} {
		if d.raw == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, d.raw)
		if err != nil {
			return f, 0, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, d.raw)
		}
		*d.dst = &t
	}
	f.Search = strings.TrimSpace(q.Search)

	page := q.Page
	if page < 1 {
		page = 1
	}
	f.Limit = sale.PageSize
	f.Offset = (page - 1) * sale.PageSize
	return f, page, nil
}
