package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/dto"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/returns"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

// ReturnHandler handles the upward return flow endpoints.
type ReturnHandler struct {
	uc *returns.UseCase
}

func NewReturnHandler(uc *returns.UseCase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

// Create godoc
// @Summary      Raise a return (technician to service center, or service center to plant)
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "from = returning party, to = receiving authority; each line carries item_type"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	from, ok := parseLocation(in.From)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid from location"})
	}
	to, ok := parseLocation(in.To)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid to location"})
	}
	lines := make([]returns.ReturnLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, returns.ReturnLine{
			Spare:    entity.SparePart{ID: l.SpareID, Code: l.SpareCode},
			Qty:      l.Qty,
			ItemType: entity.ItemType(l.ItemType),
		})
	}
	req, err := h.uc.CreateReturn(c.Context(), returns.CreateInput{
		From:     from,
		To:       to,
		Reason:   entity.RequestReason(in.Reason),
		RaisedBy: GetUserID(c),
		Lines:    lines,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRequest(req))
}

// List godoc
// @Summary      List returns touching the caller's location
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "filter by status"
// @Param        limit   query  int     false  "page size (default 20, max 100)"
// @Param        offset  query  int     false  "page offset"
// @Success      200  {array}  dto.RequestResponse
// @Router       /api/returns [get]
func (h *ReturnHandler) List(c *fiber.Ctx) error {
	loc, ok := GetCallerLocation(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NO_LOCATION", Message: "token carries no location"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid pagination"})
	}
	page.DefaultPage()
	status := entity.RequestStatus(c.Query("status"))

	list, err := h.uc.ListReturnsForLocation(c.Context(), loc, status, page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.RequestResponse, 0, len(list))
	for _, req := range list {
		out = append(out, dto.FromRequest(req))
	}
	return c.JSON(fiber.Map{"total": len(out), "returns": out})
}
