package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/asseta-api/internal/application/dto"
	"github.com/jhoicas/asseta-api/internal/application/support"
	"github.com/jhoicas/asseta-api/pkg/logger"
)

// SupportHandler maneja los tickets de soporte.
type SupportHandler struct {
	handlerBase
	uc *support.UseCase
}

// NewSupportHandler construye el handler.
func NewSupportHandler(uc *support.UseCase, log *logger.Logger) *SupportHandler {
	return &SupportHandler{handlerBase: handlerBase{log: log}, uc: uc}
}

// List godoc
// @Summary      Listar tickets (más recientes primero)
// @Tags         support
// @Produce      json
// @Success      200  {array}   map[string]interface{}
// @Router       /api/support [get]
func (h *SupportHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return writeList(c, out)
}

// GetByID godoc
// @Summary      Obtener ticket
// @Tags         support
// @Produce      json
// @Param        id   path  string  true  "ID del ticket"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/support/{id} [get]
func (h *SupportHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Abrir ticket
// @Tags         support
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupportRequest  true  "name, email, subject, message"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/support [post]
func (h *SupportHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSupportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar ticket (estado, respuesta del administrador)
// @Tags         support
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ticket"
// @Param        body  body  dto.UpdateSupportRequest  true  "Campos a actualizar"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/support/{id} [put]
func (h *SupportHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSupportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ticket (pasa a la papelera)
// @Tags         support
// @Produce      json
// @Param        id   path  string  true  "ID del ticket"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/support/{id} [delete]
func (h *SupportHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.OK("Ticket moved to recycle bin"))
}

// PDF godoc
// @Summary      Descargar ticket en PDF
// @Tags         support
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del ticket"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/support/{id}/pdf [get]
func (h *SupportHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	data, err := h.uc.PDF(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ticket-%s.pdf"`, id))
	return c.Send(data)
}
