package notifications

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
)

// Inbox bandeja de notificaciones del usuario autenticado. Todas las operaciones
// quedan acotadas a actor.UserID.
type Inbox struct {
	notifs repository.NotificationRepository
	cache  UnreadCounter
	log    *logger.Logger
}

// NewInbox construye la bandeja. cache puede ser nil.
func NewInbox(notifs repository.NotificationRepository, cache UnreadCounter, log *logger.Logger) *Inbox {
	return &Inbox{notifs: notifs, cache: cache, log: log.Named("inbox")}
}

// Summary contador de no leídas y las RecentLimit más recientes.
func (in *Inbox) Summary(ctx context.Context, actor entity.Actor) (*dto.InboxSummary, error) {
	count, err := in.UnreadCount(ctx, actor)
	if err != nil {
		return nil, err
	}
	recent, err := in.Recent(ctx, actor, RecentLimit)
	if err != nil {
		return nil, err
	}
	return &dto.InboxSummary{UnreadCount: count, Recent: recent}, nil
}

// UnreadCount lee de la caché y, en miss o error, de PostgreSQL.
func (in *Inbox) UnreadCount(ctx context.Context, actor entity.Actor) (int, error) {
	if in.cache != nil {
		n, ok, err := in.cache.GetUnread(ctx, actor.UserID)
		if err != nil {
			metrics.NotificationChannelFailures.WithLabelValues("cache").Inc()
			in.log.Warn().Err(err).Msg("leer contador cacheado")
		}
		if ok {
			return n, nil
		}
	}
	// La versión se lee antes del conteo: si llega una notificación en medio,
	// su Invalidate la avanza y el conteo viejo no se guarda.
	var (
		version   int64
		cacheable = in.cache != nil
	)
	if cacheable {
		v, err := in.cache.Version(ctx, actor.UserID)
		if err != nil {
			cacheable = false
			in.log.Warn().Err(err).Msg("leer versión del contador")
		}
		version = v
	}
	n, err := in.notifs.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, err
	}
	if cacheable {
		if _, err := in.cache.SetUnread(ctx, actor.UserID, n, version); err != nil {
			in.log.Warn().Err(err).Msg("guardar contador cacheado")
		}
	}
	return n, nil
}

// Recent no leídas más recientes primero.
func (in *Inbox) Recent(ctx context.Context, actor entity.Actor, limit int) ([]dto.NotificationResponse, error) {
	list, err := in.notifs.ListUnread(ctx, actor.UserID, limit)
	if err != nil {
		return nil, err
	}
	return ToNotificationResponses(list), nil
}

// MarkRead marca una sola notificación del actor y devuelve la venta referenciada.
// ErrNotFound si no existe o pertenece a otro usuario.
func (in *Inbox) MarkRead(ctx context.Context, actor entity.Actor, id string) (*dto.MarkReadResponse, error) {
	n, err := in.notifs.MarkRead(ctx, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrNotFound
	}
	in.invalidate(ctx, actor.UserID)
	return &dto.MarkReadResponse{SaleID: n.SaleID}, nil
}

// MarkAllForSale marca las no leídas del actor para una venta.
func (in *Inbox) MarkAllForSale(ctx context.Context, actor entity.Actor, saleID string) (*dto.BulkReadResponse, error) {
	n, err := in.notifs.MarkAllReadForSale(ctx, actor.UserID, saleID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		in.invalidate(ctx, actor.UserID)
	}
	return &dto.BulkReadResponse{Updated: n}, nil
}

// MarkAll marca todas las no leídas del actor.
func (in *Inbox) MarkAll(ctx context.Context, actor entity.Actor) (*dto.BulkReadResponse, error) {
	n, err := in.notifs.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		in.invalidate(ctx, actor.UserID)
	}
	return &dto.BulkReadResponse{Updated: n}, nil
}

func (in *Inbox) invalidate(ctx context.Context, userID string) {
	if in.cache == nil {
		return
	}
	if err := in.cache.Invalidate(ctx, userID); err != nil {
		metrics.NotificationChannelFailures.WithLabelValues("cache").Inc()
		in.log.Warn().Err(err).Msg("invalidar contador de no leídas")
	}
}

// ToNotificationResponses mapea entidades a DTO.
func ToNotificationResponses(list []*entity.Notification) []dto.NotificationResponse {
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, dto.NotificationResponse{
			ID:         n.ID,
			SaleID:     n.SaleID,
			SaleNumber: n.SaleNumber,
			Message:    n.Message,
			Read:       n.Read,
			CreatedAt:  n.CreatedAt,
		})
	}
	return out
}
