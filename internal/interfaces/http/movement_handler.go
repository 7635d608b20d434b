package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/dto"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/stockmovement"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

// MovementHandler handles the physical stock movement endpoints.
type MovementHandler struct {
	recorder *stockmovement.Recorder
}

func NewMovementHandler(recorder *stockmovement.Recorder) *MovementHandler {
	return &MovementHandler{recorder: recorder}
}

// MarkInTransit godoc
// @Summary      Mark a pending movement as dispatched
// @Tags         movements
// @Security     Bearer
// @Param        id  path  int  true  "movement id"
// @Success      204
// @Failure      409 {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/in-transit [post]
func (h *MovementHandler) MarkInTransit(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid movement id"})
	}
	if err := h.recorder.MarkInTransit(c.Context(), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receive godoc
// @Summary      Record receipt of a movement, applying its ledger effects
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "movement id"
// @Param        body  body  dto.ReceiveMovementRequest  true  "per-line received quantity and condition; over-delivery needs override_reason"
// @Success      200   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/receive [post]
func (h *MovementHandler) Receive(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid movement id"})
	}
	var in dto.ReceiveMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	received := make([]stockmovement.ReceivedLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		received = append(received, stockmovement.ReceivedLine{
			LineID:      l.LineID,
			ReceivedQty: l.ReceivedQty,
			Condition:   entity.ReceiptCondition(l.Condition),
		})
	}
	m, err := h.recorder.MarkReceived(c.Context(), id, received, in.DocumentNo, in.OverrideReason)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.FromMovement(m))
}

// Cancel godoc
// @Summary      Cancel a pending movement
// @Tags         movements
// @Security     Bearer
// @Param        id  path  int  true  "movement id"
// @Success      204
// @Failure      409 {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/cancel [post]
func (h *MovementHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid movement id"})
	}
	if err := h.recorder.CancelMovement(c.Context(), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Fetch one movement with its lines
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "movement id"
// @Success      200 {object}  dto.MovementResponse
// @Failure      404 {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid movement id"})
	}
	m, err := h.recorder.GetMovement(c.Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.FromMovement(m))
}
