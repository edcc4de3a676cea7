package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// UserUseCase gestión de usuarios (DUEÑO y SUPERVISOR).
type UserUseCase struct {
	repo repository.UserRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, log: log.Named("usuarios"), now: time.Now}
}

// Create crea un usuario activo. La contraseña se guarda con bcrypt.
func (uc *UserUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !sale.Allowed(actor.Role, sale.OpManageUsers) {
		return nil, domain.ErrUnauthorized
	}
	if err := checkPassword(in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}
	if !entity.IsValidRole(in.Role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, in.Role)
	}
	username := strings.TrimSpace(in.Username)
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		FirstName:    normalizeName(in.FirstName),
		LastName:     normalizeName(in.LastName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         in.Role,
		Modality:     in.Modality,
		Shift:        in.Shift,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("usuario_id", user.ID).Str("role", user.Role).Str("por", actor.UserID).Msg("usuario creado")
	return ToUserResponse(user), nil
}

// Update edita datos, rol y estado; la contraseña solo cambia si NewPassword no está vacío.
func (uc *UserUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !sale.Allowed(actor.Role, sale.OpManageUsers) {
		return nil, domain.ErrUnauthorized
	}
	if !entity.IsValidRole(in.Role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, in.Role)
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.NewPassword != "" {
		if err := checkPassword(in.NewPassword, in.PasswordConfirm); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.FirstName = normalizeName(in.FirstName)
	user.LastName = normalizeName(in.LastName)
	user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	user.Role = in.Role
	user.Modality = in.Modality
	user.Shift = in.Shift
	if in.Active != nil {
		if !*in.Active && user.ID == actor.UserID {
			return nil, fmt.Errorf("%w: no puedes deshabilitar tu propio usuario", domain.ErrInvalidInput)
		}
		user.Active = *in.Active
	}
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Disable deshabilita un usuario; deja de poder iniciar sesión y de recibir notificaciones.
func (uc *UserUseCase) Disable(ctx context.Context, actor entity.Actor, id string) (*dto.UserResponse, error) {
	if !sale.Allowed(actor.Role, sale.OpManageUsers) {
		return nil, domain.ErrUnauthorized
	}
	if id == actor.UserID {
		return nil, fmt.Errorf("%w: no puedes deshabilitar tu propio usuario", domain.ErrInvalidInput)
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Active = false
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("usuario_id", user.ID).Str("por", actor.UserID).Msg("usuario deshabilitado")
	return ToUserResponse(user), nil
}

// List lista usuarios con filtros.
func (uc *UserUseCase) List(ctx context.Context, actor entity.Actor, q dto.UserListQuery) ([]dto.UserResponse, error) {
	if !sale.Allowed(actor.Role, sale.OpManageUsers) {
		return nil, domain.ErrUnauthorized
	}
	q.DefaultPage()
	f := repository.UserFilter{Role: q.Role, Search: q.Search}
	switch q.Active {
	case "true", "false":
		active := q.Active == "true"
		f.Active = &active
	}
	list, err := uc.repo.List(ctx, f, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.UserResponse, error) {
	if !sale.Allowed(actor.Role, sale.OpManageUsers) {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

// IsActive indica si el usuario existe y está activo (middleware de sesión).
func (uc *UserUseCase) IsActive(ctx context.Context, userID string) (bool, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.Active, nil
}

func checkPassword(pw, confirm string) error {
	if len(pw) < MinPasswordLength {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	if pw != confirm {
		return fmt.Errorf("%w: las contraseñas no coinciden", domain.ErrInvalidInput)
	}
	return nil
}

// normalizeName "  maría  josé " → "María José". Un Caser no se comparte entre goroutines.
func normalizeName(s string) string {
	return cases.Title(language.Spanish).String(strings.Join(strings.Fields(s), " "))
}

// ToUserResponse mapea la entidad a DTO (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Email:     u.Email,
		Role:      u.Role,
		Modality:  u.Modality,
		Shift:     u.Shift,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
