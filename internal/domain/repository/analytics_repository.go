package repository

import (
	"context"
	"time"
)

// StatusCounts cantidad de ventas por estado.
type StatusCounts map[string]int

// Total suma de todos los estados.
func (c StatusCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// SaleStatsRepository consultas de lectura para los dashboards.
type SaleStatsRepository interface {
	// CountByStatus agrupa por estado; advisorID vacío cuenta todas las ventas.
	CountByStatus(ctx context.Context, advisorID string) (StatusCounts, error)
	// CountModifiedBetween ventas en el estado dado cuya última modificación cae en [start, end).
	CountModifiedBetween(ctx context.Context, status string, start, end time.Time) (int, error)
}
