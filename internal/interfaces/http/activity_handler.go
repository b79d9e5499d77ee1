package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/asseta-api/internal/application/activity"
	"github.com/jhoicas/asseta-api/pkg/logger"
)

// ActivityHandler expone el log de actividad (solo lectura).
type ActivityHandler struct {
	handlerBase
	svc *activity.Service
}

// NewActivityHandler construye el handler.
func NewActivityHandler(svc *activity.Service, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{handlerBase: handlerBase{log: log}, svc: svc}
}

// List godoc
// @Summary      Log de actividad (más reciente primero)
// @Tags         activity
// @Produce      json
// @Success      200  {array}  map[string]interface{}
// @Router       /api/activity [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return writeList(c, out)
}
