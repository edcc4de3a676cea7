// Package notifications implementa el dispatcher de notificaciones de ventas
// (fan-out al registrar, aviso al asesor al completar) y la bandeja por usuario.
package notifications

import "context"

// UnreadCounter caché opcional del contador de no leídas. SetUnread descarta el
// valor si hubo un Invalidate después de leer Version.
type UnreadCounter interface {
	GetUnread(ctx context.Context, userID string) (int, bool, error)
	Version(ctx context.Context, userID string) (int64, error)
	SetUnread(ctx context.Context, userID string, n int, version int64) (bool, error)
	Invalidate(ctx context.Context, userIDs ...string) error
}

// Mailer canal de correo opcional que replica las notificaciones internas.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// RecentLimit cantidad de no leídas que muestra el resumen de la bandeja.
const RecentLimit = 5
