package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// localRequestID clave en Locals donde el middleware requestid deja el id
// que viaja en el header X-Correlation-Id.
const localRequestID = "requestid"

func correlationID(c *fiber.Ctx) string {
	if v, ok := c.Locals(localRequestID).(string); ok {
		return v
	}
	return ""
}

// badRequest responde 400 con código estable y el correlation id.
func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:          code,
		Message:       message,
		CorrelationID: correlationID(c),
	})
}

// unauthorized responde 401 con código estable y el correlation id.
func unauthorized(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code:          code,
		Message:       message,
		CorrelationID: correlationID(c),
	})
}

// writeDomainError traduce errores de dominio a la respuesta HTTP con código
// estable, mensaje, detalles y correlation id (el mismo contrato para todos
// los handlers).
func writeDomainError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	resp := dto.ErrorResponse{
		Code:          "INTERNAL",
		Message:       err.Error(),
		CorrelationID: correlationID(c),
	}

	var underflow *domain.StockUnderflowError
	switch {
	case errors.As(err, &underflow):
		status = fiber.StatusConflict
		resp.Code = "STOCK_UNDERFLOW"
		resp.Message = underflow.Error()
		resp.Details = map[string]any{
			"product_id":       underflow.ProductID,
			"sku":              underflow.SKU,
			"current_stock":    underflow.CurrentStock,
			"requested_change": underflow.RequestedChange,
			"resulting_stock":  underflow.ResultingStock,
		}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		status = fiber.StatusNotFound
		resp.Code = "RESOURCE_NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		status = fiber.StatusConflict
		resp.Code = "INVALID_STATE_TRANSITION"
	case errors.Is(err, domain.ErrUnitMismatch):
		status = fiber.StatusConflict
		resp.Code = "UNIT_MISMATCH"
	case errors.Is(err, domain.ErrEmptyMovement):
		status = fiber.StatusConflict
		resp.Code = "EMPTY_MOVEMENT"
	case errors.Is(err, domain.ErrDuplicate):
		status = fiber.StatusConflict
		resp.Code = "DUPLICATE"
	case errors.Is(err, domain.ErrVersionConflict):
		status = fiber.StatusConflict
		resp.Code = "VERSION_CONFLICT"
	case errors.Is(err, domain.ErrInvalidInput):
		status = fiber.StatusBadRequest
		resp.Code = "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		status = fiber.StatusUnauthorized
		resp.Code = "UNAUTHORIZED"
		resp.Message = "credenciales inválidas"
	case errors.Is(err, domain.ErrForbidden):
		status = fiber.StatusForbidden
		resp.Code = "FORBIDDEN"
	}
	return c.Status(status).JSON(resp)
}
