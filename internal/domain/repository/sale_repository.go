package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas. Campos vacíos/nil no filtran.
// From y To se comparan por día de creación, ambos inclusive.
type SaleFilter struct {
	AdvisorID string
	Status    string
	Search    string // nombre, DNI o teléfono del cliente
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// SaleRepository define el puerto de persistencia para Sale.
// GetByID devuelve (nil, nil) si no existe.
type SaleRepository interface {
	// Create inserta la venta y asigna ID, Number, CreatedAt y UpdatedAt.
	Create(ctx context.Context, s *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetByIDForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo tiene sentido dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	Update(ctx context.Context, s *entity.Sale) error
	// List devuelve la página pedida y el total de filas que cumplen el filtro.
	// Orden estable: created_at DESC, numero DESC.
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, int, error)

	SaleStatsRepository
}
