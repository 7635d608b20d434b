package ports

import (
	"context"
	"time"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

// EventPublisher pushes workflow events to the downstream consumers
// (document generation, SAP sync). Publishing happens after the enclosing
// transaction commits; a publish failure is logged, never rolled back into
// the workflow.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// EventLine is the line detail carried on request/movement events.
type EventLine struct {
	SpareID   int64  `json:"spare_id"`
	SpareCode string `json:"spare_code,omitempty"`
	Bucket    string `json:"bucket"`
	Qty       int64  `json:"qty"`
}

// RequestEvent is emitted on every request lifecycle transition.
type RequestEvent struct {
	RequestID  int64                `json:"request_id"`
	Type       entity.RequestType   `json:"type"`
	Status     entity.RequestStatus `json:"status"`
	From       entity.Location      `json:"from"`
	To         entity.Location      `json:"to"`
	Actor      string               `json:"actor,omitempty"`
	Lines      []EventLine          `json:"lines,omitempty"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// MovementEvent is emitted on every movement lifecycle transition.
type MovementEvent struct {
	MovementID int64                 `json:"movement_id"`
	Status     entity.MovementStatus `json:"status"`
	From       entity.Location       `json:"from"`
	To         entity.Location       `json:"to"`
	Reference  entity.Reference      `json:"reference"`
	DocumentNo string                `json:"document_no,omitempty"`
	Lines      []EventLine           `json:"lines,omitempty"`
	OccurredAt time.Time             `json:"occurred_at"`
}
