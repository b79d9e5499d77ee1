package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/asseta-api/internal/application/dto"
	"github.com/jhoicas/asseta-api/internal/application/notification"
	"github.com/jhoicas/asseta-api/pkg/logger"
)

// NotificationHandler maneja el feed de notificaciones.
type NotificationHandler struct {
	handlerBase
	svc *notification.Service
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(svc *notification.Service, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{handlerBase: handlerBase{log: log}, svc: svc}
}

// List godoc
// @Summary      Listar notificaciones (más recientes primero)
// @Tags         notifications
// @Produce      json
// @Success      200  {array}  map[string]interface{}
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return writeList(c, out)
}

// MarkRead godoc
// @Summary      Marcar notificación como leída
// @Tags         notifications
// @Produce      json
// @Param        id   path  string  true  "ID de la notificación"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	out, err := h.svc.MarkRead(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar notificación
// @Tags         notifications
// @Produce      json
// @Param        id   path  string  true  "ID de la notificación"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.OK("Notification deleted"))
}

// SendTest godoc
// @Summary      Crear notificación de prueba
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TestNotificationRequest  false  "title, message, type"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/test-notification [post]
func (h *NotificationHandler) SendTest(c *fiber.Ctx) error {
	var in dto.TestNotificationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.svc.SendTest(c.UserContext(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}
