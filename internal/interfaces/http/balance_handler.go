package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/dto"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ledger"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

// BalanceHandler exposes read access to the inventory ledger.
type BalanceHandler struct {
	ledger *ledger.Ledger
}

func NewBalanceHandler(l *ledger.Ledger) *BalanceHandler {
	return &BalanceHandler{ledger: l}
}

// Get godoc
// @Summary      Read one balance (good/defective plus reservations)
// @Tags         balances
// @Security     Bearer
// @Produce      json
// @Param        spare_id       query  int     true  "spare id"
// @Param        location_kind  query  string  true  "plant, service_center, technician or customer"
// @Param        location_id    query  int     true  "location id"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/balances [get]
func (h *BalanceHandler) Get(c *fiber.Ctx) error {
	spareID, err := strconv.ParseInt(c.Query("spare_id"), 10, 64)
	if err != nil || spareID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid spare_id"})
	}
	kind, ok := entity.ParseLocationKind(c.Query("location_kind"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid location_kind"})
	}
	locID, err := strconv.ParseInt(c.Query("location_id"), 10, 64)
	if err != nil || locID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid location_id"})
	}

	bal, err := h.ledger.GetBalance(c.Context(), spareID, entity.Location{Kind: kind, ID: locID})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.FromBalance(bal))
}
