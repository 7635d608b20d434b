package domain

import (
	"errors"
	"fmt"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

// Domain sentinels (no external dependencies).
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict with current state")
)

// InvalidRoutingError is returned when a request is created between an
// unrecognized (origin kind, destination kind) pair. Never retried.
type InvalidRoutingError struct {
	From entity.Location
	To   entity.Location
}

func (e *InvalidRoutingError) Error() string {
	return fmt.Sprintf("invalid routing: no request type for %s -> %s", e.From, e.To)
}

// InsufficientStockError is returned by any ledger adjustment that would
// drive a bucket negative or below its reservation. Always fatal to the
// enclosing transaction; never clamped.
type InsufficientStockError struct {
	SpareID   int64
	Location  entity.Location
	Bucket    entity.Bucket
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: spare %d at %s bucket %s: requested %d, available %d",
		e.SpareID, e.Location, e.Bucket, e.Requested, e.Available)
}

// InsufficientStockForApprovalError means an approval asked for more stock
// than the goods origin has available. The whole approval call fails; nothing
// is silently truncated.
type InsufficientStockForApprovalError struct {
	RequestID int64
	SpareID   int64
	Location  entity.Location
	Bucket    entity.Bucket
	Requested int64
	Available int64
}

func (e *InsufficientStockForApprovalError) Error() string {
	return fmt.Sprintf("insufficient stock for approval: request %d spare %d at %s bucket %s: requested %d, available %d",
		e.RequestID, e.SpareID, e.Location, e.Bucket, e.Requested, e.Available)
}

// InvalidStateTransitionError is returned when an operation is invoked on a
// request or movement not in the required source state. A client error, not
// retried automatically.
type InvalidStateTransitionError struct {
	Entity    string // "request" | "movement"
	ID        int64
	Current   string
	Attempted string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: %s %d is %s, cannot %s",
		e.Entity, e.ID, e.Current, e.Attempted)
}

// QuantityMismatchError means the movement's line quantities do not add up to
// its declared total. Rejected at creation, never persisted.
type QuantityMismatchError struct {
	DeclaredTotal int64
	LineSum       int64
}

func (e *QuantityMismatchError) Error() string {
	return fmt.Sprintf("quantity mismatch: declared total %d, line sum %d", e.DeclaredTotal, e.LineSum)
}
