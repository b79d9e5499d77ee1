package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/asseta-api/internal/application/crud"
	"github.com/jhoicas/asseta-api/internal/application/dto"
	"github.com/jhoicas/asseta-api/pkg/logger"
)

// handlerBase dependencias comunes de los handlers.
type handlerBase struct {
	log *logger.Logger
}

// CRUDHandler maneja las rutas genéricas de una colección (vendors, products, assets, users).
type CRUDHandler struct {
	handlerBase
	uc *crud.UseCase
}

// NewCRUDHandler construye el handler para el caso de uso de una colección.
func NewCRUDHandler(uc *crud.UseCase, log *logger.Logger) *CRUDHandler {
	return &CRUDHandler{handlerBase: handlerBase{log: log}, uc: uc}
}

// List godoc
// @Summary      Listar documentos de una colección
// @Tags         crud
// @Produce      json
// @Param        entity  path  string  true  "Colección"  Enums(vendors, products, assets, users)
// @Success      200     {array}   map[string]interface{}
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/{entity} [get]
func (h *CRUDHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return writeList(c, out)
}

// GetByID godoc
// @Summary      Obtener documento por ID
// @Tags         crud
// @Produce      json
// @Param        entity  path  string  true  "Colección"  Enums(vendors, products, assets, users)
// @Param        id      path  string  true  "ID del documento"
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/{entity}/{id} [get]
func (h *CRUDHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear documento
// @Tags         crud
// @Accept       json
// @Produce      json
// @Param        entity  path  string  true  "Colección"  Enums(vendors, products, assets, users)
// @Param        body    body  map[string]interface{}  true  "Campos del documento"
// @Success      201     {object}  map[string]interface{}
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/{entity} [post]
func (h *CRUDHandler) Create(c *fiber.Ctx) error {
	var in map[string]any
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar documento
// @Tags         crud
// @Accept       json
// @Produce      json
// @Param        entity  path  string  true  "Colección"  Enums(vendors, products, assets, users)
// @Param        id      path  string  true  "ID del documento"
// @Param        body    body  map[string]interface{}  true  "Campos a actualizar"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/{entity}/{id} [put]
func (h *CRUDHandler) Update(c *fiber.Ctx) error {
	var in map[string]any
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
// @Summary      Eliminar documento (pasa a la papelera)
// @Tags         crud
// @Produce      json
// @Param        entity  path  string  true  "Colección"  Enums(vendors, products, assets, users)
// @Param        id      path  string  true  "ID del documento"
// @Success      200     {object}  dto.SuccessResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/{entity}/{id} [delete]
func (h *CRUDHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.OK(h.uc.Schema().DisplayName + " moved to recycle bin"))
}
