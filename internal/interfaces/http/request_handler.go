package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/dto"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/request"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

// RequestHandler handles the spare-parts request lifecycle endpoints.
type RequestHandler struct {
	engine *request.Engine
}

func NewRequestHandler(engine *request.Engine) *RequestHandler {
	return &RequestHandler{engine: engine}
}

// Create godoc
// @Summary      Raise a spare-parts request
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "from = goods origin, to = goods destination"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
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
	lines := make([]request.CreateLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, request.CreateLine{
			Spare: entity.SparePart{ID: l.SpareID, Code: l.SpareCode},
			Qty:   l.Qty,
		})
	}
	req, err := h.engine.Create(c.Context(), request.CreateInput{
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

// Approve godoc
// @Summary      Approve a pending request, reserving stock at the origin
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "request id"
// @Param        body  body  dto.ApproveRequestRequest  true  "per-line approved quantities; 0 rejects the line"
// @Success      200   {object}  dto.RequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid request id"})
	}
	var in dto.ApproveRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	approvals := make(map[int64]int64, len(in.Items))
	for _, item := range in.Items {
		approvals[item.ItemID] = item.ApprovedQty
	}
	req, err := h.engine.Approve(c.Context(), id, approvals, GetUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.FromRequest(req))
}

// Reject godoc
// @Summary      Reject a pending request
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Param        id    path  int  true  "request id"
// @Param        body  body  dto.RejectRequestRequest  true  "rejection reason"
// @Success      204
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid request id"})
	}
	var in dto.RejectRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	if err := h.engine.Reject(c.Context(), id, in.Reason, GetUserID(c)); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Allocate godoc
// @Summary      Allocate an approved request, creating a pending movement
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "request id"
// @Success      201 {object}  dto.MovementResponse
// @Failure      409 {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/allocate [post]
func (h *RequestHandler) Allocate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid request id"})
	}
	m, err := h.engine.Allocate(c.Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(m))
}

// Cancel godoc
// @Summary      Cancel a pending or approved request
// @Tags         requests
// @Security     Bearer
// @Param        id  path  int  true  "request id"
// @Success      204
// @Failure      409 {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/cancel [post]
func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid request id"})
	}
	if err := h.engine.Cancel(c.Context(), id, GetUserID(c)); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Fetch one request with its lines
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "request id"
// @Success      200 {object}  dto.RequestResponse
// @Failure      404 {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid request id"})
	}
	req, err := h.engine.GetRequest(c.Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.FromRequest(req))
}

// List godoc
// @Summary      List requests touching the caller's location
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "filter by status"
// @Param        limit   query  int     false  "page size (default 20, max 100)"
// @Param        offset  query  int     false  "page offset"
// @Success      200  {array}  dto.RequestResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
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

	list, err := h.engine.ListRequestsForLocation(c.Context(), loc, status, page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.RequestResponse, 0, len(list))
	for _, req := range list {
		out = append(out, dto.FromRequest(req))
	}
	return c.JSON(fiber.Map{"total": len(out), "requests": out})
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func parseLocation(in dto.LocationDTO) (entity.Location, bool) {
	kind, ok := entity.ParseLocationKind(in.Kind)
	if !ok || in.ID <= 0 {
		return entity.Location{}, false
	}
	return entity.Location{Kind: kind, ID: in.ID}, true
}
