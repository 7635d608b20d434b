package returns

import (
	"context"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/request"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/logger"
)

// UseCase is the upward mirror of the issue flow: technicians return unused
// or defective parts to their service center, service centers return
// consignment stock to the plant. Returns ride the same lifecycle engine and
// movement recorder; what differs is the routing direction, the reason
// codes, and the bucket each line draws from — unused lines travel in the
// good bucket, defective lines in the defective bucket. The receiving side's
// condition verdict still picks the destination bucket at receipt.
type UseCase struct {
	engine *request.Engine
	log    *logger.Logger
}

// NewUseCase builds the return flow on top of the lifecycle engine.
func NewUseCase(engine *request.Engine, log *logger.Logger) *UseCase {
	return &UseCase{engine: engine, log: log}
}

// ReturnLine is one returned line; the item type is mandatory.
type ReturnLine struct {
	Spare    entity.SparePart
	Qty      int64
	ItemType entity.ItemType
}

// CreateInput describes a new return. From is the returning party (goods
// origin), To the receiving authority.
type CreateInput struct {
	From     entity.Location
	To       entity.Location
	Reason   entity.RequestReason
	RaisedBy string
	Lines    []ReturnLine
}

// CreateReturn validates the upward routing and registers the return as a
// pending request. Approval, allocation and receipt follow the shared
// lifecycle.
func (uc *UseCase) CreateReturn(ctx context.Context, in CreateInput) (*entity.Request, error) {
	reqType, ok := entity.DeriveRequestType(in.From.Kind, in.To.Kind)
	if !ok {
		return nil, &domain.InvalidRoutingError{From: in.From, To: in.To}
	}
	if !reqType.IsReturn() {
		return nil, &domain.InvalidRoutingError{From: in.From, To: in.To}
	}

	lines := make([]request.CreateLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if _, ok := l.ItemType.SourceBucket(); !ok {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, request.CreateLine{Spare: l.Spare, Qty: l.Qty, ItemType: l.ItemType})
	}

	req, err := uc.engine.Create(ctx, request.CreateInput{
		From:     in.From,
		To:       in.To,
		Reason:   in.Reason,
		RaisedBy: in.RaisedBy,
		Lines:    lines,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("request_id", req.ID).
		Str("type", string(req.Type)).
		Msg("return registered")
	return req, nil
}

// ListReturnsForLocation lists return-typed requests touching the location.
func (uc *UseCase) ListReturnsForLocation(ctx context.Context, loc entity.Location, status entity.RequestStatus, limit, offset int) ([]*entity.Request, error) {
	reqs, err := uc.engine.ListRequestsForLocation(ctx, loc, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := reqs[:0]
	for _, r := range reqs {
		if r.Type.IsReturn() {
			out = append(out, r)
		}
	}
	return out, nil
}
