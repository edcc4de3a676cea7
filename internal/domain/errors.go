package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrUsernameAlreadyExists = errors.New("el nombre de usuario ya existe")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrInvalidCredentials    = errors.New("usuario o contraseña incorrectos")
	ErrInactiveUser          = errors.New("el usuario está deshabilitado")
	ErrDuplicate             = errors.New("recurso duplicado")
	// ErrUnauthorized el rol del actor no permite la operación.
	ErrUnauthorized = errors.New("no tienes permisos para esta operación")
	// ErrIllegalTransition la venta no está en el estado requerido por la transición.
	ErrIllegalTransition = errors.New("la venta ya fue procesada")
)
