package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/notifications"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// NotificationHandler bandeja de notificaciones del usuario autenticado.
type NotificationHandler struct {
	inbox *notifications.Inbox
	log   *logger.Logger
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(inbox *notifications.Inbox, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{inbox: inbox, log: log}
}

// Summary godoc
// @Summary      Contador y últimas no leídas
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InboxSummary
// @Router       /api/notificaciones [get]
func (h *NotificationHandler) Summary(c *fiber.Ctx) error {
	out, err := h.inbox.Summary(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar una notificación como leída
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la notificación"
// @Success      200  {object}  dto.MarkReadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notificaciones/{id}/leida [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	out, err := h.inbox.MarkRead(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// MarkAll godoc
// @Summary      Marcar todas como leídas
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BulkReadResponse
// @Router       /api/notificaciones/leidas [post]
func (h *NotificationHandler) MarkAll(c *fiber.Ctx) error {
	out, err := h.inbox.MarkAll(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// MarkAllForSale godoc
// @Summary      Marcar como leídas las notificaciones de una venta
// @Tags         notificaciones
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.BulkReadResponse
// @Router       /api/notificaciones/ventas/{id}/leidas [post]
func (h *NotificationHandler) MarkAllForSale(c *fiber.Ctx) error {
	out, err := h.inbox.MarkAllForSale(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
