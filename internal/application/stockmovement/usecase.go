package stockmovement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ledger"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ports"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/request"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/logger"
)

// Recorder keeps the append-only record of physical transfers. Creating a
// movement never touches the ledger; balances on both ends move only at
// receipt, against the received quantities, so a shipment that differs from
// the plan reconciles at the point the goods actually arrive.
type Recorder struct {
	movements repository.MovementRepository // pool-bound, reads only
	tx        TxRunner
	publisher ports.EventPublisher
	log       *logger.Logger
}

// NewRecorder builds the movement recorder.
func NewRecorder(movements repository.MovementRepository, tx TxRunner, publisher ports.EventPublisher, log *logger.Logger) *Recorder {
	return &Recorder{movements: movements, tx: tx, publisher: publisher, log: log}
}

// NewLine is one planned line of a movement.
type NewLine struct {
	Spare    entity.SparePart
	Bucket   entity.Bucket
	Qty      int64
	CartonNo string
}

// CreateMovementInput describes a new physical transfer.
type CreateMovementInput struct {
	From      entity.Location
	To        entity.Location
	Reference entity.Reference
	TotalQty  int64
	Lines     []NewLine
}

// CreateMovement validates the declared total against the line sum and
// persists a pending movement. No ledger effect.
func (r *Recorder) CreateMovement(ctx context.Context, in CreateMovementInput) (*entity.StockMovement, error) {
	if !in.From.Valid() || !in.To.Valid() || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Reference.Type != entity.ReferenceRequest && in.Reference.Type != entity.ReferenceReturn {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	m := &entity.StockMovement{
		GroupID:   uuid.New().String(),
		From:      in.From,
		To:        in.To,
		Reference: in.Reference,
		Status:    entity.MovementStatusPending,
		TotalQty:  in.TotalQty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, line := range in.Lines {
		if line.Spare.ID <= 0 || line.Qty <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if _, ok := entity.ParseBucket(string(line.Bucket)); !ok {
			return nil, domain.ErrInvalidInput
		}
		m.Lines = append(m.Lines, entity.MovementLine{
			Spare:    line.Spare,
			Bucket:   line.Bucket,
			Qty:      line.Qty,
			CartonNo: line.CartonNo,
		})
	}
	if sum := m.LineSum(); sum != in.TotalQty {
		return nil, &domain.QuantityMismatchError{DeclaredTotal: in.TotalQty, LineSum: sum}
	}

	err := r.tx.Run(ctx, func(_ repository.BalanceRepository, _ repository.RequestRepository, movements repository.MovementRepository) error {
		return movements.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info().
		Int64("movement_id", m.ID).
		Str("from", m.From.String()).
		Str("to", m.To.String()).
		Int64("total_qty", m.TotalQty).
		Msg("movement created")
	r.publish(ctx, movementEvent(m))
	return m, nil
}

// MarkInTransit records that the goods left the source. Status only: the
// ledger decrement is deferred to receipt, so in-flight stock is visible at
// neither location.
func (r *Recorder) MarkInTransit(ctx context.Context, movementID int64) error {
	if movementID <= 0 {
		return domain.ErrInvalidInput
	}
	var m *entity.StockMovement
	err := r.tx.Run(ctx, func(_ repository.BalanceRepository, _ repository.RequestRepository, movements repository.MovementRepository) error {
		var err error
		m, err = movements.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Status != entity.MovementStatusPending {
			return &domain.InvalidStateTransitionError{Entity: "movement", ID: m.ID, Current: string(m.Status), Attempted: "mark in transit"}
		}
		m.Status = entity.MovementStatusInTransit
		m.UpdatedAt = time.Now()
		return movements.UpdateStatus(ctx, m)
	})
	if err != nil {
		return err
	}
	r.log.Info().Int64("movement_id", movementID).Msg("movement in transit")
	r.publish(ctx, movementEvent(m))
	return nil
}

// ReceivedLine is the destination's verdict on one movement line.
type ReceivedLine struct {
	LineID      int64
	ReceivedQty int64
	Condition   entity.ReceiptCondition // empty counts as good
}

// MarkReceived confirms physical receipt and is the reconciliation point
// between what was approved and what actually arrived. Every movement line
// must be accounted for. Per line, the received quantity moves from the
// line's origin bucket into the bucket the receipt condition dictates —
// a good part received damaged lands in the destination's defective bucket.
// Under-delivery just reduces what arrives; over-delivery needs an explicit
// override reason. Any ledger failure rolls back the whole receipt.
func (r *Recorder) MarkReceived(ctx context.Context, movementID int64, received []ReceivedLine, documentNo, overrideReason string) (*entity.StockMovement, error) {
	if movementID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	byLine := make(map[int64]ReceivedLine, len(received))
	for _, rl := range received {
		if _, dup := byLine[rl.LineID]; dup || rl.ReceivedQty < 0 {
			return nil, domain.ErrInvalidInput
		}
		if rl.Condition == "" {
			rl.Condition = entity.ConditionGood
		} else if _, ok := entity.ParseReceiptCondition(string(rl.Condition)); !ok {
			return nil, domain.ErrInvalidInput
		}
		byLine[rl.LineID] = rl
	}

	var m *entity.StockMovement
	err := r.tx.Run(ctx, func(balances repository.BalanceRepository, requests repository.RequestRepository, movements repository.MovementRepository) error {
		var err error
		m, err = movements.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		// The in-transit scan is optional; receipt confirmations may arrive
		// for movements still marked pending.
		if m.Status != entity.MovementStatusPending && m.Status != entity.MovementStatusInTransit {
			return &domain.InvalidStateTransitionError{Entity: "movement", ID: m.ID, Current: string(m.Status), Attempted: "mark received"}
		}
		if len(byLine) != len(m.Lines) {
			return domain.ErrInvalidInput
		}

		for i := range m.Lines {
			line := &m.Lines[i]
			rl, ok := byLine[line.ID]
			if !ok {
				return domain.ErrInvalidInput
			}
			if rl.ReceivedQty > line.Qty && overrideReason == "" {
				return domain.ErrInvalidInput
			}

			// The reservation taken at approval covers the planned quantity;
			// give it back in full — an undelivered remainder stays at the
			// origin as free stock.
			if _, err := ledger.ReleaseUpToInTx(ctx, balances, line.Spare.ID, m.From, line.Bucket, line.Qty); err != nil {
				return err
			}
			if rl.ReceivedQty > 0 {
				if err := ledger.TransferInTx(ctx, balances, line.Spare.ID, m.From, m.To,
					line.Bucket, rl.Condition.DestinationBucket(), rl.ReceivedQty); err != nil {
					return err
				}
			}
			if err := movements.SetLineReceipt(ctx, line.ID, rl.ReceivedQty, rl.Condition); err != nil {
				return err
			}
			qty := rl.ReceivedQty
			line.ReceivedQty = &qty
			line.Condition = rl.Condition
		}

		m.Status = entity.MovementStatusReceived
		m.DocumentNo = documentNo
		m.OverrideReason = overrideReason
		m.UpdatedAt = time.Now()
		if err := movements.UpdateStatus(ctx, m); err != nil {
			return err
		}

		if m.Reference.ID > 0 {
			if _, err := request.MarkFulfilledInTx(ctx, requests, m.Reference); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info().
		Int64("movement_id", m.ID).
		Str("document_no", documentNo).
		Msg("movement received")
	r.publish(ctx, movementEvent(m))
	return m, nil
}

// CancelMovement voids a movement that never left the source. Only legal
// while pending; nothing was applied to the ledger, so nothing is undone.
// The referenced request reopens as approved and can be re-allocated.
func (r *Recorder) CancelMovement(ctx context.Context, movementID int64) error {
	if movementID <= 0 {
		return domain.ErrInvalidInput
	}
	var m *entity.StockMovement
	err := r.tx.Run(ctx, func(_ repository.BalanceRepository, requests repository.RequestRepository, movements repository.MovementRepository) error {
		var err error
		m, err = movements.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Status != entity.MovementStatusPending {
			return &domain.InvalidStateTransitionError{Entity: "movement", ID: m.ID, Current: string(m.Status), Attempted: "cancel"}
		}
		m.Status = entity.MovementStatusCancelled
		m.UpdatedAt = time.Now()
		if err := movements.UpdateStatus(ctx, m); err != nil {
			return err
		}
		if m.Reference.ID > 0 {
			if _, err := request.ReopenAllocatedInTx(ctx, requests, m.Reference); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.log.Info().Int64("movement_id", movementID).Msg("movement cancelled")
	r.publish(ctx, movementEvent(m))
	return nil
}

// GetMovement is the read surface for the document and presentation layers.
func (r *Recorder) GetMovement(ctx context.Context, id int64) (*entity.StockMovement, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	m, err := r.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (r *Recorder) publish(ctx context.Context, event any) {
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.log.Warn().Err(err).Msg("event publish failed")
	}
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
