package request

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ledger"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ports"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/logger"
)

// Engine drives a spare-parts request through its lifecycle:
//
//	pending --approve--> approved --allocate--> allocated --receipt--> fulfilled
//	pending --reject--> rejected
//	pending/approved --cancel--> cancelled
//
// Approval is an atomic check-and-reserve against the goods origin, so two
// concurrent approvals can never both draw the same stock.
type Engine struct {
	requests  repository.RequestRepository // pool-bound, reads only
	movements repository.MovementRepository
	tx        TxRunner
	publisher ports.EventPublisher
	log       *logger.Logger
}

// NewEngine builds the lifecycle engine.
func NewEngine(
	requests repository.RequestRepository,
	movements repository.MovementRepository,
	tx TxRunner,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *Engine {
	return &Engine{requests: requests, movements: movements, tx: tx, publisher: publisher, log: log}
}

// CreateLine is one requested line. ItemType is set on return flows only.
type CreateLine struct {
	Spare    entity.SparePart
	Qty      int64
	ItemType entity.ItemType
}

// CreateInput describes a new request. From is the goods origin, To the
// goods destination; the request type follows deterministically from the
// pair and is never accepted from the caller.
type CreateInput struct {
	From     entity.Location
	To       entity.Location
	Reason   entity.RequestReason
	RaisedBy string
	Lines    []CreateLine
}

// Create validates routing, derives the type and persists the request in
// pending. No ledger effect.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*entity.Request, error) {
	if !in.From.Valid() || !in.To.Valid() || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	reqType, ok := entity.DeriveRequestType(in.From.Kind, in.To.Kind)
	if !ok {
		return nil, &domain.InvalidRoutingError{From: in.From, To: in.To}
	}
	if reqType.IsReturn() {
		if !in.Reason.ValidReturnReason() {
			return nil, domain.ErrInvalidInput
		}
	} else if !in.Reason.ValidIssueReason() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	req := &entity.Request{
		Type:      reqType,
		Status:    entity.RequestStatusPending,
		Reason:    in.Reason,
		From:      in.From,
		To:        in.To,
		RaisedBy:  in.RaisedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, line := range in.Lines {
		if line.Spare.ID <= 0 || line.Qty <= 0 {
			return nil, domain.ErrInvalidInput
		}
		item := entity.RequestItem{
			Spare:        line.Spare,
			RequestedQty: line.Qty,
			Bucket:       entity.BucketGood,
		}
		if reqType.IsReturn() {
			bucket, ok := line.ItemType.SourceBucket()
			if !ok {
				return nil, domain.ErrInvalidInput
			}
			item.ItemType = line.ItemType
			item.Bucket = bucket
		} else if line.ItemType != "" {
			return nil, domain.ErrInvalidInput
		}
		req.Items = append(req.Items, item)
	}

	err := e.tx.Run(ctx, func(_ repository.BalanceRepository, requests repository.RequestRepository, _ repository.MovementRepository) error {
		return requests.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Int64("request_id", req.ID).
		Str("type", string(req.Type)).
		Str("from", req.From.String()).
		Str("to", req.To.String()).
		Msg("request created")
	e.publish(ctx, requestEvent(req, in.RaisedBy))
	return req, nil
}

// Approve decides every line of a pending request in one atomic call. Each
// approved quantity must not exceed the requested quantity nor the stock
// available at the goods origin; if any line falls short the whole call fails
// with no mutation. Per-line rejection is expressed as approved qty 0; at
// least one line must be approved (a full rejection goes through Reject).
// Approved quantities are reserved at the origin before the call returns.
func (e *Engine) Approve(ctx context.Context, requestID int64, approvals map[int64]int64, approver string) (*entity.Request, error) {
	if requestID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var approved *entity.Request
	err := e.tx.Run(ctx, func(balances repository.BalanceRepository, requests repository.RequestRepository, _ repository.MovementRepository) error {
		req, err := requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Status != entity.RequestStatusPending {
			return &domain.InvalidStateTransitionError{Entity: "request", ID: req.ID, Current: string(req.Status), Attempted: "approve"}
		}
		if len(approvals) != len(req.Items) {
			return domain.ErrInvalidInput
		}

		var anyApproved bool
		for i := range req.Items {
			item := &req.Items[i]
			qty, ok := approvals[item.ID]
			if !ok || qty < 0 || qty > item.RequestedQty {
				return domain.ErrInvalidInput
			}
			if qty == 0 {
				continue
			}
			anyApproved = true
			// Check-and-reserve under the row lock; two approvals racing for
			// the same stock serialize here and the loser fails cleanly.
			if err := ledger.ReserveInTx(ctx, balances, item.Spare.ID, req.From, item.Bucket, qty); err != nil {
				var insufficient *domain.InsufficientStockError
				if errors.As(err, &insufficient) {
					return &domain.InsufficientStockForApprovalError{
						RequestID: req.ID,
						SpareID:   item.Spare.ID,
						Location:  req.From,
						Bucket:    item.Bucket,
						Requested: qty,
						Available: insufficient.Available,
					}
				}
				return err
			}
		}
		if !anyApproved {
			return domain.ErrInvalidInput
		}

		now := time.Now()
		for i := range req.Items {
			item := &req.Items[i]
			qty := approvals[item.ID]
			if err := requests.SetItemApproval(ctx, item.ID, qty); err != nil {
				return err
			}
			item.ApprovedQty = &qty
		}
		req.Status = entity.RequestStatusApproved
		req.ApprovedBy = approver
		req.ApprovedAt = &now
		req.UpdatedAt = now
		if err := requests.UpdateStatus(ctx, req); err != nil {
			return err
		}
		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Int64("request_id", approved.ID).
		Str("approver", approver).
		Msg("request approved")
	e.publish(ctx, requestEvent(approved, approver))
	return approved, nil
}

// Reject closes a pending request. Terminal; no ledger effect.
func (e *Engine) Reject(ctx context.Context, requestID int64, reason, actor string) error {
	if requestID <= 0 || reason == "" {
		return domain.ErrInvalidInput
	}
	var rejected *entity.Request
	err := e.tx.Run(ctx, func(_ repository.BalanceRepository, requests repository.RequestRepository, _ repository.MovementRepository) error {
		req, err := requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Status != entity.RequestStatusPending {
			return &domain.InvalidStateTransitionError{Entity: "request", ID: req.ID, Current: string(req.Status), Attempted: "reject"}
		}
		req.Status = entity.RequestStatusRejected
		req.RejectedReason = reason
		req.UpdatedAt = time.Now()
		if err := requests.UpdateStatus(ctx, req); err != nil {
			return err
		}
		rejected = req
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Info().Int64("request_id", requestID).Str("reason", reason).Msg("request rejected")
	e.publish(ctx, requestEvent(rejected, actor))
	return nil
}

// Allocate turns an approved request into a pending stock movement carrying
// the approved quantities. Stock is already reserved since approval, so the
// movement only has to materialize it. Calling Allocate twice yields exactly
// one movement; the second call fails on the status precondition.
func (e *Engine) Allocate(ctx context.Context, requestID int64) (*entity.StockMovement, error) {
	if requestID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var movement *entity.StockMovement
	err := e.tx.Run(ctx, func(_ repository.BalanceRepository, requests repository.RequestRepository, movements repository.MovementRepository) error {
		req, err := requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Status != entity.RequestStatusApproved {
			return &domain.InvalidStateTransitionError{Entity: "request", ID: req.ID, Current: string(req.Status), Attempted: "allocate"}
		}

		refType := entity.ReferenceRequest
		if req.Type.IsReturn() {
			refType = entity.ReferenceReturn
		}
		now := time.Now()
		m := &entity.StockMovement{
			GroupID:   uuid.New().String(),
			From:      req.From,
			To:        req.To,
			Reference: entity.Reference{Type: refType, ID: req.ID},
			Status:    entity.MovementStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		for _, item := range req.Items {
			if item.ApprovedQty == nil || *item.ApprovedQty == 0 {
				continue
			}
			m.Lines = append(m.Lines, entity.MovementLine{
				Spare:  item.Spare,
				Bucket: item.Bucket,
				Qty:    *item.ApprovedQty,
			})
			m.TotalQty += *item.ApprovedQty
		}
		if err := movements.Create(ctx, m); err != nil {
			return err
		}

		req.Status = entity.RequestStatusAllocated
		req.UpdatedAt = now
		if err := requests.UpdateStatus(ctx, req); err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Int64("request_id", requestID).
		Int64("movement_id", movement.ID).
		Int64("total_qty", movement.TotalQty).
		Msg("request allocated")
	e.publish(ctx, movementEvent(movement))
	return movement, nil
}

// Cancel aborts a pending or approved request. Cancelling an approved
// request gives its reservations back; an allocated request must have its
// movement cancelled first.
func (e *Engine) Cancel(ctx context.Context, requestID int64, actor string) error {
	if requestID <= 0 {
		return domain.ErrInvalidInput
	}
	var cancelled *entity.Request
	err := e.tx.Run(ctx, func(balances repository.BalanceRepository, requests repository.RequestRepository, _ repository.MovementRepository) error {
		req, err := requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		switch req.Status {
		case entity.RequestStatusPending:
			// nothing reserved yet
		case entity.RequestStatusApproved:
			for _, item := range req.Items {
				if item.ApprovedQty == nil || *item.ApprovedQty == 0 {
					continue
				}
				if err := ledger.ReleaseInTx(ctx, balances, item.Spare.ID, req.From, item.Bucket, *item.ApprovedQty); err != nil {
					return err
				}
			}
		default:
			return &domain.InvalidStateTransitionError{Entity: "request", ID: req.ID, Current: string(req.Status), Attempted: "cancel"}
		}
		req.Status = entity.RequestStatusCancelled
		req.UpdatedAt = time.Now()
		if err := requests.UpdateStatus(ctx, req); err != nil {
			return err
		}
		cancelled = req
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Info().Int64("request_id", requestID).Msg("request cancelled")
	e.publish(ctx, requestEvent(cancelled, actor))
	return nil
}

// GetRequest is the read surface for the document and presentation layers.
func (e *Engine) GetRequest(ctx context.Context, id int64) (*entity.Request, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	req, err := e.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

// ListRequestsForLocation lists requests that touch the location on either
// end, optionally filtered by status.
func (e *Engine) ListRequestsForLocation(ctx context.Context, loc entity.Location, status entity.RequestStatus, limit, offset int) ([]*entity.Request, error) {
	if !loc.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return e.requests.ListForLocation(ctx, loc, status, limit, offset)
}

func (e *Engine) publish(ctx context.Context, event any) {
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.log.Warn().Err(err).Msg("event publish failed")
	}
}

func requestEvent(req *entity.Request, actor string) ports.RequestEvent {
	ev := ports.RequestEvent{
		RequestID:  req.ID,
		Type:       req.Type,
		Status:     req.Status,
		From:       req.From,
		To:         req.To,
		Actor:      actor,
		OccurredAt: time.Now(),
	}
	for _, item := range req.Items {
		qty := item.RequestedQty
		if item.ApprovedQty != nil {
			qty = *item.ApprovedQty
		}
		ev.Lines = append(ev.Lines, ports.EventLine{
			SpareID:   item.Spare.ID,
			SpareCode: item.Spare.Code,
			Bucket:    string(item.Bucket),
			Qty:       qty,
		})
	}
	return ev
}

func movementEvent(m *entity.StockMovement) ports.MovementEvent {
	ev := ports.MovementEvent{
		MovementID: m.ID,
		Status:     m.Status,
		From:       m.From,
		To:         m.To,
		Reference:  m.Reference,
		DocumentNo: m.DocumentNo,
		OccurredAt: time.Now(),
	}
	for _, l := range m.Lines {
		qty := l.Qty
		if l.ReceivedQty != nil {
			qty = *l.ReceivedQty
		}
		ev.Lines = append(ev.Lines, ports.EventLine{
			SpareID:   l.Spare.ID,
			SpareCode: l.Spare.Code,
			Bucket:    string(l.Bucket),
			Qty:       qty,
		})
	}
	return ev
}
