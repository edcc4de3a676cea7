package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ventas"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// BackOfficeHandler cola de pendientes y completado de ventas.
type BackOfficeHandler struct {
	uc  *ventas.SaleUseCase
	log *logger.Logger
}

// NewBackOfficeHandler construye el handler.
func NewBackOfficeHandler(uc *ventas.SaleUseCase, log *logger.Logger) *BackOfficeHandler {
	return &BackOfficeHandler{uc: uc, log: log}
}

// Pending godoc
// @Summary      Ventas pendientes de back office
// @Tags         backoffice
// @Security     Bearer
// @Produce      json
// @Param        buscar  query  string  false  "Nombre, DNI o teléfono del cliente"
// @Param        asesor  query  string  false  "ID del asesor"
// @Param        page    query  int     false  "Página (20 por página)"  default(1)
// @Success      200  {object}  dto.SaleListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/backoffice/pendientes [get]
func (h *BackOfficeHandler) Pending(c *fiber.Ctx) error {
	var q dto.SaleListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.ListPending(c.UserContext(), GetActor(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de venta para back office
// @Tags         backoffice
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/backoffice/ventas/{id} [get]
func (h *BackOfficeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetForBackOffice(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar venta
// @Description  Registra SEC, SOT y fecha programada; pasa la venta de PENDIENTE_BO a PENDIENTE_AUDIO y notifica al asesor.
// @Tags         backoffice
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la venta"
// @Param        body  body  dto.CompleteBackOfficeRequest  true  "SEC, SOT, fecha"
// @Success      200   {object}  dto.SaleResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/backoffice/ventas/{id}/completar [post]
func (h *BackOfficeHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteBackOfficeRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.CompleteBackOffice(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
