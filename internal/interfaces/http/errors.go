package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/dto"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain"
)

// writeDomainError maps domain errors to HTTP statuses. Structured errors
// carry their own message (ids, quantities) straight to the caller.
func writeDomainError(c *fiber.Ctx, err error) error {
	var routing *domain.InvalidRoutingError
	if errors.As(err, &routing) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ROUTING", Message: routing.Error()})
	}
	var mismatch *domain.QuantityMismatchError
	if errors.As(err, &mismatch) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "QUANTITY_MISMATCH", Message: mismatch.Error()})
	}
	var approval *domain.InsufficientStockForApprovalError
	if errors.As(err, &approval) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK_FOR_APPROVAL", Message: approval.Error()})
	}
	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: stock.Error()})
	}
	var transition *domain.InvalidStateTransitionError
	if errors.As(err, &transition) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE_TRANSITION", Message: transition.Error()})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
