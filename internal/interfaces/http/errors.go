package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sforero94/Escociaos-sub004/internal/application/dto"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
)

// respondError mapea la taxonomía de errores de dominio a HTTP. Validación →
// 400, autorización → 401/403, estado/ciclo de vida → 409, consistencia
// (stock, precios, unidades) → 422 con detalle suficiente para corregir los
// datos.
func respondError(c *fiber.Ctx, err error) error {
	var missingPrice *domain.MissingPriceError
	if errors.As(err, &missingPrice) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "MISSING_PRICE",
			Message: "hay productos usados sin precio unitario; el cierre está bloqueado",
			Details: missingPrice.Products,
		})
	}
	var incompatible *domain.IncompatibleUnitError
	if errors.As(err, &incompatible) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "INCOMPATIBLE_UNIT",
			Message: incompatible.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrUnknownUnit):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_UNIT", Message: err.Error()})
	case errors.Is(err, domain.ErrMissingConversionFactor):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_BAG_FACTOR", Message: err.Error()})
	case errors.Is(err, domain.ErrEmptyProductSet):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_PRODUCT_SET", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrApplicationNotExecuting):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_EXECUTING", Message: err.Error()})
	case errors.Is(err, domain.ErrVerificationNotInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_IN_PROGRESS", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia; reintente la operación completa"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
