// Package ventas implementa el motor de transiciones de la venta: registro por el
// asesor, completado por back office y las consultas asociadas.
package ventas

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		notifRepo repository.NotificationRepository,
	) error) error
}

// Notifier dispatcher de notificaciones; se llama solo después de persistir la transición.
type Notifier interface {
	SaleRegistered(ctx context.Context, s *entity.Sale, advisorName string) (int, error)
	SaleCompleted(ctx context.Context, s *entity.Sale) (int, error)
}

// ReadMarker marca como leídas las notificaciones del actor para una venta.
type ReadMarker interface {
	MarkAllForSale(ctx context.Context, actor entity.Actor, saleID string) (*dto.BulkReadResponse, error)
}

// SaleSheetGenerator genera la ficha PDF de una venta.
type SaleSheetGenerator interface {
	GenerateSaleSheet(ctx context.Context, s *entity.Sale, history []*entity.Notification) ([]byte, error)
}
