package entity

import "time"

// Notification mensaje interno para un usuario sobre una venta.
// El mensaje es inmutable; solo Read cambia (false → true).
type Notification struct {
	ID          string
	SaleID      string
	SaleNumber  int64 // solo lectura (join con ventas)
	RecipientID string
	Message     string
	Read        bool
	CreatedAt   time.Time
}
