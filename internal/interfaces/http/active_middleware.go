package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// activeChecker contrato mínimo para verificar que el usuario del token sigue habilitado.
// Lo implementa *usecase.UserUseCase.
type activeChecker interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// RequireActiveUser rechaza tokens de usuarios deshabilitados después de emitido el JWT.
// Debe usarse DESPUÉS de AuthMiddleware.
//   - 403 INACTIVE_USER si el usuario fue deshabilitado o ya no existe.
//   - 503 si falla la consulta.
func RequireActiveUser(checker activeChecker, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		active, err := checker.IsActive(c.UserContext(), userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("verificar usuario activo")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "USER_CHECK_FAILED",
				Message: "no se pudo verificar el usuario, intente más tarde",
			})
		}

		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "INACTIVE_USER",
				Message: "el usuario está deshabilitado",
			})
		}

		return c.Next()
	}
}
