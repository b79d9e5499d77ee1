package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/asseta-api/internal/application/dto"
	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
)

// errorResponse traduce un error de dominio al status y cuerpo HTTP.
// Los errores no reconocidos son 500 y nunca exponen el detalle interno.
func errorResponse(err error) (int, dto.ErrorResponse) {
	var verr *domain.ValidationError
	var cerr *domain.ConflictError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error(), Fields: verr.Fields}
	case errors.As(err, &cerr):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:    "DUPLICATE",
			Message: cerr.Error(),
			Fields:  map[string]string{cerr.Field: "ya existe"},
		}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "DUPLICATE", Message: domain.ErrDuplicate.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: domain.ErrNotFound.Error()}
	case errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: domain.ErrUserNotFound.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: domain.ErrInvalidCredentials.Error()}
	case errors.Is(err, domain.ErrUnknownEntity):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "UNKNOWN_ENTITY", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: domain.ErrUnauthorized.Error()}
	case errors.Is(err, domain.ErrStorage):
		// Falla del motor: el detalle queda solo en el log.
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "STORAGE_ERROR", Message: "error interno del servidor"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
	}
}

// writeError responde con el error mapeado y registra los 500.
func (h *handlerBase) writeError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error en petición")
	}
	return c.Status(status).JSON(body)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler respuesta para errores que escapan de los handlers (rutas inexistentes, pánicos recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		if fe.Code == fiber.StatusNotFound {
			code = "NOT_FOUND"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// writeList responde [] en lugar de null cuando no hay documentos.
func writeList(c *fiber.Ctx, docs []entity.Document) error {
	if docs == nil {
		docs = []entity.Document{}
	}
	return c.JSON(docs)
}
