package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia de la bandeja de notificaciones.
// Todas las operaciones de lectura/escritura por usuario están acotadas al destinatario.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	CountUnread(ctx context.Context, recipientID string) (int, error)
	// ListUnread no leídas del destinatario, más recientes primero.
	ListUnread(ctx context.Context, recipientID string, limit int) ([]*entity.Notification, error)
	// MarkRead marca una notificación del destinatario. Devuelve (nil, nil) si no existe o no es suya.
	MarkRead(ctx context.Context, id, recipientID string) (*entity.Notification, error)
	MarkAllReadForSale(ctx context.Context, recipientID, saleID string) (int, error)
	MarkAllRead(ctx context.Context, recipientID string) (int, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.Notification, error)
}
