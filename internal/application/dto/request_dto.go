package dto

import (
	"time"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

// RequestLineDTO one requested line.
type RequestLineDTO struct {
	SpareID   int64  `json:"spare_id"`
	SpareCode string `json:"spare_code"`
	Qty       int64  `json:"qty"`
}

// CreateRequestRequest body for POST /api/requests.
// "from" is the goods origin (the authority being asked), "to" the requester.
type CreateRequestRequest struct {
	From   LocationDTO      `json:"from"`
	To     LocationDTO      `json:"to"`
	Reason string           `json:"reason"`
	Lines  []RequestLineDTO `json:"lines"`
}

// ItemApprovalDTO per-line approval decision; 0 rejects the line.
type ItemApprovalDTO struct {
	ItemID      int64 `json:"item_id"`
	ApprovedQty int64 `json:"approved_qty"`
}

// ApproveRequestRequest body for POST /api/requests/:id/approve.
// Every line of the request must appear exactly once.
type ApproveRequestRequest struct {
	Items []ItemApprovalDTO `json:"items"`
}

// RejectRequestRequest body for POST /api/requests/:id/reject.
type RejectRequestRequest struct {
	Reason string `json:"reason"`
}

// ReturnLineDTO one returned line; item_type is "defective" or "unused".
type ReturnLineDTO struct {
	SpareID   int64  `json:"spare_id"`
	SpareCode string `json:"spare_code"`
	Qty       int64  `json:"qty"`
	ItemType  string `json:"item_type"`
}

// CreateReturnRequest body for POST /api/returns.
// "from" is the returning party, "to" the receiving authority.
type CreateReturnRequest struct {
	From   LocationDTO     `json:"from"`
	To     LocationDTO     `json:"to"`
	Reason string          `json:"reason"`
	Lines  []ReturnLineDTO `json:"lines"`
}

// RequestItemResponse one line in a request response.
type RequestItemResponse struct {
	ID           int64  `json:"id"`
	SpareID      int64  `json:"spare_id"`
	SpareCode    string `json:"spare_code,omitempty"`
	Bucket       string `json:"bucket"`
	ItemType     string `json:"item_type,omitempty"`
	RequestedQty int64  `json:"requested_qty"`
	ApprovedQty  *int64 `json:"approved_qty,omitempty"`
}

// RequestResponse wire form of a request.
type RequestResponse struct {
	ID             int64                 `json:"id"`
	Type           string                `json:"type"`
	Status         string                `json:"status"`
	Reason         string                `json:"reason"`
	From           LocationDTO           `json:"from"`
	To             LocationDTO           `json:"to"`
	RaisedBy       string                `json:"raised_by,omitempty"`
	ApprovedBy     string                `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time            `json:"approved_at,omitempty"`
	RejectedReason string                `json:"rejected_reason,omitempty"`
	Items          []RequestItemResponse `json:"items"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// FromRequest maps the entity to its wire form.
func FromRequest(req *entity.Request) RequestResponse {
	out := RequestResponse{
		ID:             req.ID,
		Type:           string(req.Type),
		Status:         string(req.Status),
		Reason:         string(req.Reason),
		From:           LocationDTO{Kind: string(req.From.Kind), ID: req.From.ID},
		To:             LocationDTO{Kind: string(req.To.Kind), ID: req.To.ID},
		RaisedBy:       req.RaisedBy,
		ApprovedBy:     req.ApprovedBy,
		ApprovedAt:     req.ApprovedAt,
		RejectedReason: req.RejectedReason,
		CreatedAt:      req.CreatedAt,
		UpdatedAt:      req.UpdatedAt,
	}
	for _, item := range req.Items {
		out.Items = append(out.Items, RequestItemResponse{
			ID:           item.ID,
			SpareID:      item.Spare.ID,
			SpareCode:    item.Spare.Code,
			Bucket:       string(item.Bucket),
			ItemType:     string(item.ItemType),
			RequestedQty: item.RequestedQty,
			ApprovedQty:  item.ApprovedQty,
		})
	}
	return out
}
