package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleAsesor            = "ASESOR"
	RoleBackOffice        = "BACK_OFFICE"
	RoleSupervisor        = "SUPERVISOR"
	RoleSeguimientoHombre = "ENCARGADO_SEGUIMIENTO_M"
	RoleSeguimientoMujer  = "ENCARGADO_SEGUIMIENTO_F"
	RoleDueno             = "DUEÑO"
)

// Modalidades y turnos del usuario (AMBAS/AMBOS solo aplican a usuarios, no a ventas).
const (
	ModalityBoth = "AMBAS"
	ShiftBoth    = "AMBOS"
)

// Roles devuelve los roles en orden de presentación.
func Roles() []string {
	return []string{RoleAsesor, RoleBackOffice, RoleSupervisor, RoleSeguimientoHombre, RoleSeguimientoMujer, RoleDueno}
}

// IsValidRole indica si el rol pertenece al catálogo.
func IsValidRole(role string) bool {
	for _, r := range Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	Modality     string // CALL_CENTER, CAMPO, AMBAS o vacío
	Shift        string // MAÑANA, TARDE, AMBOS o vacío
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName nombre para mostrar; usa el username si no hay nombre cargado.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Actor es el usuario autenticado que ejecuta una operación.
// Lo construye la capa de sesión (JWT); el dominio nunca autentica.
type Actor struct {
	UserID string
	Role   string
}
