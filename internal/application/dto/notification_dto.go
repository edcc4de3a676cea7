package dto

import "time"

// NotificationResponse salida de una notificación.
type NotificationResponse struct {
	ID         string    `json:"id"`
	SaleID     string    `json:"venta_id"`
	SaleNumber int64     `json:"venta_numero"`
	Message    string    `json:"mensaje"`
	Read       bool      `json:"leida"`
	CreatedAt  time.Time `json:"created_at"`
}

// InboxSummary contador de no leídas y las más recientes.
type InboxSummary struct {
	UnreadCount int                    `json:"no_leidas"`
	Recent      []NotificationResponse `json:"recientes"`
}

// MarkReadResponse venta referenciada por la notificación marcada (para navegar a su detalle).
type MarkReadResponse struct {
	SaleID string `json:"venta_id"`
}

// BulkReadResponse cantidad de notificaciones marcadas.
type BulkReadResponse struct {
	Updated int `json:"actualizadas"`
}
