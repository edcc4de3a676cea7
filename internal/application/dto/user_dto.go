package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	FirstName       string `json:"first_name" validate:"required,max=150"`
	LastName        string `json:"last_name" validate:"required,max=150"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=ASESOR BACK_OFFICE SUPERVISOR ENCARGADO_SEGUIMIENTO_M ENCARGADO_SEGUIMIENTO_F DUEÑO"`
	Modality        string `json:"modalidad" validate:"omitempty,oneof=CALL_CENTER CAMPO AMBAS"`
	Shift           string `json:"turno" validate:"omitempty,oneof=MAÑANA TARDE AMBOS"`
}

// UpdateUserRequest edición de usuario; NewPassword vacío conserva la contraseña actual.
type UpdateUserRequest struct {
	FirstName       string `json:"first_name" validate:"required,max=150"`
	LastName        string `json:"last_name" validate:"required,max=150"`
	Email           string `json:"email" validate:"omitempty,email"`
	Role            string `json:"role" validate:"required,oneof=ASESOR BACK_OFFICE SUPERVISOR ENCARGADO_SEGUIMIENTO_M ENCARGADO_SEGUIMIENTO_F DUEÑO"`
	Modality        string `json:"modalidad" validate:"omitempty,oneof=CALL_CENTER CAMPO AMBAS"`
	Shift           string `json:"turno" validate:"omitempty,oneof=MAÑANA TARDE AMBOS"`
	Active          *bool  `json:"activo"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=8"`
	PasswordConfirm string `json:"password_confirm"`
}

// UserListQuery filtros de GET /api/usuarios.
type UserListQuery struct {
	Role   string `query:"role"`
	Active string `query:"activo" validate:"omitempty,oneof=true false"`
	Search string `query:"buscar"`
	PageRequest
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	Modality  string    `json:"modalidad,omitempty"`
	Shift     string    `json:"turno,omitempty"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
