package request

import (
	"context"
	"time"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
)

// The movement recorder drives these two transitions from inside its own
// receipt/cancel transactions, so request state and movement state commit or
// roll back together.

// MarkFulfilledInTx moves the referenced request from allocated to fulfilled.
func MarkFulfilledInTx(ctx context.Context, requests repository.RequestRepository, ref entity.Reference) (*entity.Request, error) {
	req, err := requests.GetForUpdate(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Status != entity.RequestStatusAllocated {
		return nil, &domain.InvalidStateTransitionError{Entity: "request", ID: req.ID, Current: string(req.Status), Attempted: "fulfill"}
	}
	req.Status = entity.RequestStatusFulfilled
	req.UpdatedAt = time.Now()
	if err := requests.UpdateStatus(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ReopenAllocatedInTx moves the referenced request back from allocated to
// approved after its movement was cancelled. The reservation taken at
// approval stays in place so the request can be re-allocated.
func ReopenAllocatedInTx(ctx context.Context, requests repository.RequestRepository, ref entity.Reference) (*entity.Request, error) {
	req, err := requests.GetForUpdate(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Status != entity.RequestStatusAllocated {
		return nil, &domain.InvalidStateTransitionError{Entity: "request", ID: req.ID, Current: string(req.Status), Attempted: "reopen"}
	}
	req.Status = entity.RequestStatusApproved
	req.UpdatedAt = time.Now()
	if err := requests.UpdateStatus(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}
