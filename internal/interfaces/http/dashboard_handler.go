package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Ventas-api/internal/application/analytics"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// DashboardHandler dashboard según el rol del usuario autenticado.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// Get devuelve el dashboard del rol.
// GET /api/dashboard
//
// ASESOR: AdvisorDashboardDTO (stats propias, ventas_recientes[5], notificaciones[5]).
// BACK_OFFICE: BackOfficeDashboardDTO (pendientes, completadas_hoy, total_procesadas,
// pendientes_recientes[10], notificaciones[5]).
// Resto de roles: GeneralDashboardDTO (conteo global por estado).
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.ForActor(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
