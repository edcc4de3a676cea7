package sale

import (
	"fmt"
	"time"
)

// RegisteredMessage mensaje para back office cuando un asesor registra una venta.
func RegisteredMessage(number int64, advisorName string) string {
	return fmt.Sprintf("Nueva venta #%d de %s pendiente de completar", number, advisorName)
}

// CompletedMessage mensaje para el asesor cuando back office completa su venta.
func CompletedMessage(number int64, scheduled *time.Time) string {
	date := "sin fecha"
	if scheduled != nil {
		date = scheduled.Format(time.DateOnly)
	}
	return fmt.Sprintf("Venta #%d ha sido completada por Back Office. Fecha instalación: %s", number, date)
}
