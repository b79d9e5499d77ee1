package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/asseta-api/internal/application/dto"
	"github.com/jhoicas/asseta-api/internal/application/recyclebin"
	"github.com/jhoicas/asseta-api/pkg/logger"
)

// RecycleBinHandler maneja la papelera.
type RecycleBinHandler struct {
	handlerBase
	svc *recyclebin.Service
}

// NewRecycleBinHandler construye el handler.
func NewRecycleBinHandler(svc *recyclebin.Service, log *logger.Logger) *RecycleBinHandler {
	return &RecycleBinHandler{handlerBase: handlerBase{log: log}, svc: svc}
}

// List godoc
// @Summary      Listar papelera (borrados más recientes primero)
// @Tags         recycle-bin
// @Produce      json
// @Success      200  {array}  map[string]interface{}
// @Router       /api/recycle-bin [get]
func (h *RecycleBinHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return writeList(c, out)
}

// GetByID godoc
// @Summary      Obtener entrada de la papelera
// @Tags         recycle-bin
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recycle-bin/{id} [get]
func (h *RecycleBinHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Restore godoc
// @Summary      Restaurar entrada en su colección de origen
// @Tags         recycle-bin
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.RestoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recycle-bin/{id}/restore [post]
func (h *RecycleBinHandler) Restore(c *fiber.Ctx) error {
	doc, err := h.svc.Restore(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.RestoreResponse{Success: true, Message: "Item restored", Data: doc})
}

// Purge godoc
// @Summary      Eliminar entrada de forma permanente
// @Tags         recycle-bin
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recycle-bin/{id} [delete]
func (h *RecycleBinHandler) Purge(c *fiber.Ctx) error {
	if err := h.svc.Purge(c.UserContext(), c.Params("id")); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.OK("Item permanently deleted"))
}

// Empty godoc
// @Summary      Vaciar la papelera
// @Tags         recycle-bin
// @Produce      json
// @Success      200  {object}  dto.EmptyBinResponse
// @Router       /api/recycle-bin [delete]
func (h *RecycleBinHandler) Empty(c *fiber.Ctx) error {
	n, err := h.svc.Empty(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.EmptyBinResponse{Success: true, Deleted: n})
}
