package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// CountByStatus cuenta ventas agrupadas por estado. advisorID vacío = todas.
func (r *SaleRepo) CountByStatus(ctx context.Context, advisorID string) (repository.StatusCounts, error) {
	query := `SELECT estado, COUNT(*) FROM ventas`
	var args []any
	if advisorID != "" {
		query += ` WHERE asesor_id = $1`
		args = append(args, advisorID)
	}
	query += ` GROUP BY estado`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count ventas by estado: %w", err)
	}
	defer rows.Close()

	counts := repository.StatusCounts{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountModifiedBetween ventas en status con updated_at en [start, end).
func (r *SaleRepo) CountModifiedBetween(ctx context.Context, status string, start, end time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM ventas WHERE estado = $1 AND updated_at >= $2 AND updated_at < $3`,
		status, start, end,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count ventas modificadas: %w", err)
	}
	return n, nil
}
