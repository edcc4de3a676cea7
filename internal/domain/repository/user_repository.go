package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// UserFilter filtros del listado de usuarios. Campos vacíos/nil no filtran.
type UserFilter struct {
	Role   string
	Active *bool
	Search string // username, nombre o apellido
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, f UserFilter, limit, offset int) ([]*entity.User, error)
	// ListActiveByRole usuarios activos con el rol dado (destinatarios de notificaciones).
	ListActiveByRole(ctx context.Context, role string) ([]*entity.User, error)
}
