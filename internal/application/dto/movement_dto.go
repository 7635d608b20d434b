package dto

import (
	"time"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

// ReceivedLineDTO the destination's verdict on one movement line.
// Condition defaults to "good" when omitted.
type ReceivedLineDTO struct {
	LineID      int64  `json:"line_id"`
	ReceivedQty int64  `json:"received_qty"`
	Condition   string `json:"condition"`
}

// ReceiveMovementRequest body for POST /api/movements/:id/receive.
type ReceiveMovementRequest struct {
	DocumentNo     string            `json:"document_no"`
	OverrideReason string            `json:"override_reason"`
	Lines          []ReceivedLineDTO `json:"lines"`
}

// MovementLineResponse one line in a movement response.
type MovementLineResponse struct {
	ID          int64  `json:"id"`
	SpareID     int64  `json:"spare_id"`
	SpareCode   string `json:"spare_code,omitempty"`
	Bucket      string `json:"bucket"`
	Qty         int64  `json:"qty"`
	CartonNo    string `json:"carton_no,omitempty"`
	ReceivedQty *int64 `json:"received_qty,omitempty"`
	Condition   string `json:"condition,omitempty"`
}

// MovementResponse wire form of a stock movement.
type MovementResponse struct {
	ID             int64                  `json:"id"`
	GroupID        string                 `json:"group_id"`
	From           LocationDTO            `json:"from"`
	To             LocationDTO            `json:"to"`
	ReferenceType  string                 `json:"reference_type"`
	ReferenceID    int64                  `json:"reference_id"`
	Status         string                 `json:"status"`
	TotalQty       int64                  `json:"total_qty"`
	DocumentNo     string                 `json:"document_no,omitempty"`
	OverrideReason string                 `json:"override_reason,omitempty"`
	Lines          []MovementLineResponse `json:"lines"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// FromMovement maps the entity to its wire form.
func FromMovement(m *entity.StockMovement) MovementResponse {
	out := MovementResponse{
		ID:             m.ID,
		GroupID:        m.GroupID,
		From:           LocationDTO{Kind: string(m.From.Kind), ID: m.From.ID},
		To:             LocationDTO{Kind: string(m.To.Kind), ID: m.To.ID},
		ReferenceType:  string(m.Reference.Type),
		ReferenceID:    m.Reference.ID,
		Status:         string(m.Status),
		TotalQty:       m.TotalQty,
		DocumentNo:     m.DocumentNo,
		OverrideReason: m.OverrideReason,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	for _, l := range m.Lines {
		out.Lines = append(out.Lines, MovementLineResponse{
			ID:          l.ID,
			SpareID:     l.Spare.ID,
			SpareCode:   l.Spare.Code,
			Bucket:      string(l.Bucket),
			Qty:         l.Qty,
			CartonNo:    l.CartonNo,
			ReceivedQty: l.ReceivedQty,
			Condition:   string(l.Condition),
		})
	}
	return out
}

// BalanceResponse wire form of an inventory balance.
type BalanceResponse struct {
	SpareID           int64       `json:"spare_id"`
	Location          LocationDTO `json:"location"`
	GoodQty           int64       `json:"good_qty"`
	DefectiveQty      int64       `json:"defective_qty"`
	ReservedGood      int64       `json:"reserved_good"`
	ReservedDefective int64       `json:"reserved_defective"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// FromBalance maps the entity to its wire form.
func FromBalance(b *entity.InventoryBalance) BalanceResponse {
	return BalanceResponse{
		SpareID:           b.SpareID,
		Location:          LocationDTO{Kind: string(b.Location.Kind), ID: b.Location.ID},
		GoodQty:           b.GoodQty,
		DefectiveQty:      b.DefectiveQty,
		ReservedGood:      b.ReservedGood,
		ReservedDefective: b.ReservedDefective,
		UpdatedAt:         b.UpdatedAt,
	}
}
