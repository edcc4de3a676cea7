package notifications_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/notifications"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/cache"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func newUnreadCache(t *testing.T) *cache.UnreadCache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return cache.NewUnreadCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
}

// inboxFixture: un usuario con 7 notificaciones (3 de la venta A, 4 de la venta B) y otro usuario con 1.
type inboxFixture struct {
	st      *memory.Store
	me      entity.Actor
	other   entity.Actor
	saleA   *entity.Sale
	saleB   *entity.Sale
	otherID string // notificación ajena
}

func newInboxFixture(t *testing.T) *inboxFixture {
	t.Helper()
	st := memory.NewStore()
	ctx := context.Background()
	me := seedUser(t, st, "bo1", entity.RoleBackOffice, true, "")
	other := seedUser(t, st, "bo2", entity.RoleBackOffice, true, "")
	advisor := seedUser(t, st, "asesor", entity.RoleAsesor, true, "")
	a := seedSale(t, st, advisor.ID)
	b := seedSale(t, st, advisor.ID)

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		s := a
		if i >= 3 {
			s = b
		}
		require.NoError(t, st.Notifications().Create(ctx, &entity.Notification{
			SaleID: s.ID, RecipientID: me.ID, Message: "m", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	foreign := &entity.Notification{SaleID: a.ID, RecipientID: other.ID, Message: "m", CreatedAt: base}
	require.NoError(t, st.Notifications().Create(ctx, foreign))

	return &inboxFixture{
		st:      st,
		me:      entity.Actor{UserID: me.ID, Role: me.Role},
		other:   entity.Actor{UserID: other.ID, Role: other.Role},
		saleA:   a,
		saleB:   b,
		otherID: foreign.ID,
	}
}

func TestInbox_Summary(t *testing.T) {
	f := newInboxFixture(t)
	in := notifications.NewInbox(f.st.Notifications(), nil, logger.Nop())

	sum, err := in.Summary(context.Background(), f.me)
	require.NoError(t, err)
	assert.Equal(t, 7, sum.UnreadCount)
	require.Len(t, sum.Recent, notifications.RecentLimit)
	for i := 1; i < len(sum.Recent); i++ {
		assert.True(t, sum.Recent[i-1].CreatedAt.After(sum.Recent[i].CreatedAt), "más recientes primero")
	}
	assert.Equal(t, f.saleB.ID, sum.Recent[0].SaleID)
	assert.Equal(t, f.saleB.Number, sum.Recent[0].SaleNumber)
}

func TestInbox_MarkRead_SoloLaIndicada(t *testing.T) {
	f := newInboxFixture(t)
	ctx := context.Background()
	in := notifications.NewInbox(f.st.Notifications(), nil, logger.Nop())

	siblings, _ := f.st.Notifications().ListBySale(ctx, f.saleA.ID)
	var target string
	for _, n := range siblings {
		if n.RecipientID == f.me.UserID {
			target = n.ID
			break
		}
	}

	res, err := in.MarkRead(ctx, f.me, target)
	require.NoError(t, err)
	assert.Equal(t, f.saleA.ID, res.SaleID)

	after, _ := f.st.Notifications().ListBySale(ctx, f.saleA.ID)
	for _, n := range after {
		assert.Equal(t, n.ID == target, n.Read, "solo la notificación indicada cambia")
	}
}

func TestInbox_MarkRead_AjenaOInexistente(t *testing.T) {
	f := newInboxFixture(t)
	in := notifications.NewInbox(f.st.Notifications(), nil, logger.Nop())

	_, err := in.MarkRead(context.Background(), f.me, f.otherID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = in.MarkRead(context.Background(), f.me, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, _ := f.st.Notifications().CountUnread(context.Background(), f.other.UserID)
	assert.Equal(t, 1, n)
}

func TestInbox_MarkAllForSaleYMarkAll(t *testing.T) {
	f := newInboxFixture(t)
	ctx := context.Background()
	in := notifications.NewInbox(f.st.Notifications(), nil, logger.Nop())

	res, err := in.MarkAllForSale(ctx, f.me, f.saleA.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Updated)

	n, _ := in.UnreadCount(ctx, f.me)
	assert.Equal(t, 4, n)
	otherN, _ := in.UnreadCount(ctx, f.other)
	assert.Equal(t, 1, otherN, "la notificación de otro usuario en la misma venta no cambia")

	res, err = in.MarkAll(ctx, f.me)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Updated)
	n, _ = in.UnreadCount(ctx, f.me)
	assert.Zero(t, n)
}

func TestInbox_CacheSeInvalidaAlMarcar(t *testing.T) {
	f := newInboxFixture(t)
	ctx := context.Background()
	c := newUnreadCache(t)
	in := notifications.NewInbox(f.st.Notifications(), c, logger.Nop())

	n, err := in.UnreadCount(ctx, f.me)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	cached, ok, _ := c.GetUnread(ctx, f.me.UserID)
	require.True(t, ok)
	assert.Equal(t, 7, cached)

	_, err = in.MarkAll(ctx, f.me)
	require.NoError(t, err)
	_, ok, _ = c.GetUnread(ctx, f.me.UserID)
	assert.False(t, ok)

	n, _ = in.UnreadCount(ctx, f.me)
	assert.Zero(t, n)
}

func TestDispatcher_InvalidaCacheDeDestinatarios(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	advisor := seedUser(t, st, "asesor", entity.RoleAsesor, true, "")
	s := seedSale(t, st, advisor.ID)
	c := newUnreadCache(t)
	stored, err := c.SetUnread(ctx, advisor.ID, 0, 0)
	require.NoError(t, err)
	require.True(t, stored)

	d := notifications.NewDispatcher(st.Users(), st.Notifications(), logger.Nop(), notifications.WithUnreadCache(c))
	_, err = d.SaleCompleted(ctx, s)
	require.NoError(t, err)

	_, ok, _ := c.GetUnread(ctx, advisor.ID)
	assert.False(t, ok)
	in := notifications.NewInbox(st.Notifications(), c, logger.Nop())
	n, _ := in.UnreadCount(ctx, entity.Actor{UserID: advisor.ID, Role: entity.RoleAsesor})
	assert.Equal(t, 1, n)
}

// countThenDeliver ejecuta deliver una vez, justo después de contar y antes de
// que la bandeja guarde el contador en caché.
type countThenDeliver struct {
	repository.NotificationRepository
	deliver func()
}

func (r *countThenDeliver) CountUnread(ctx context.Context, recipientID string) (int, error) {
	n, err := r.NotificationRepository.CountUnread(ctx, recipientID)
	if r.deliver != nil {
		d := r.deliver
		r.deliver = nil
		d()
	}
	return n, err
}

func TestInbox_ConteoViejoNoPisaInvalidacion(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	advisor := seedUser(t, st, "asesor", entity.RoleAsesor, true, "")
	s := seedSale(t, st, advisor.ID)
	c := newUnreadCache(t)
	d := notifications.NewDispatcher(st.Users(), st.Notifications(), logger.Nop(), notifications.WithUnreadCache(c))

	repo := &countThenDeliver{NotificationRepository: st.Notifications()}
	repo.deliver = func() {
		_, err := d.SaleCompleted(ctx, s)
		require.NoError(t, err)
	}
	in := notifications.NewInbox(repo, c, logger.Nop())
	actor := entity.Actor{UserID: advisor.ID, Role: entity.RoleAsesor}

	n, err := in.UnreadCount(ctx, actor)
	require.NoError(t, err)
	assert.Zero(t, n, "el conteo se tomó antes de la notificación")

	_, ok, _ := c.GetUnread(ctx, advisor.ID)
	assert.False(t, ok, "el conteo viejo no queda en caché")

	n, err = in.UnreadCount(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
