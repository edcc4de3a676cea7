package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

const notificationSelect = `
	SELECT n.id, n.venta_id, v.numero, n.usuario_id, n.mensaje, n.leida, n.created_at
	FROM notificaciones_venta n
	JOIN ventas v ON v.id = n.venta_id`

// NotificationRepo implementación de NotificationRepository (usable con pool o tx).
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste la notificación (leida=false salvo que se indique).
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO notificaciones_venta (id, venta_id, usuario_id, mensaje, leida, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.SaleID, n.RecipientID, n.Message, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notificacion: %w", err)
	}
	return nil
}

// CountUnread cantidad de no leídas del destinatario.
func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notificaciones_venta WHERE usuario_id = $1 AND NOT leida`, recipientID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count no leidas: %w", err)
	}
	return n, nil
}

// ListUnread no leídas más recientes primero.
func (r *NotificationRepo) ListUnread(ctx context.Context, recipientID string, limit int) ([]*entity.Notification, error) {
	return r.query(ctx, notificationSelect+`
		WHERE n.usuario_id = $1 AND NOT n.leida
		ORDER BY n.created_at DESC, n.id DESC
		LIMIT $2`, recipientID, limit)
}

// MarkRead marca solo la notificación indicada si pertenece al destinatario.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID string) (*entity.Notification, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var n entity.Notification
	err := r.q.QueryRow(ctx, `
		UPDATE notificaciones_venta n SET leida = TRUE
		FROM ventas v
		WHERE n.id = $1 AND n.usuario_id = $2 AND v.id = n.venta_id
		RETURNING n.id, n.venta_id, v.numero, n.usuario_id, n.mensaje, n.leida, n.created_at`,
		id, recipientID,
	).Scan(&n.ID, &n.SaleID, &n.SaleNumber, &n.RecipientID, &n.Message, &n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("marcar leida: %w", err)
	}
	return &n, nil
}

// MarkAllReadForSale marca las no leídas del destinatario para una venta.
func (r *NotificationRepo) MarkAllReadForSale(ctx context.Context, recipientID, saleID string) (int, error) {
	if _, err := uuid.Parse(saleID); err != nil {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE notificaciones_venta SET leida = TRUE WHERE usuario_id = $1 AND venta_id = $2 AND NOT leida`,
		recipientID, saleID)
	if err != nil {
		return 0, fmt.Errorf("marcar leidas de venta: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// MarkAllRead marca todas las no leídas del destinatario.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE notificaciones_venta SET leida = TRUE WHERE usuario_id = $1 AND NOT leida`, recipientID)
	if err != nil {
		return 0, fmt.Errorf("marcar todas leidas: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ListBySale historial de notificaciones de una venta, más antiguas primero.
func (r *NotificationRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.Notification, error) {
	if _, err := uuid.Parse(saleID); err != nil {
		return nil, nil
	}
	return r.query(ctx, notificationSelect+` WHERE n.venta_id = $1 ORDER BY n.created_at, n.id`, saleID)
}

func (r *NotificationRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Notification, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notificaciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.SaleID, &n.SaleNumber, &n.RecipientID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notificacion: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
