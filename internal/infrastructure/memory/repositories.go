package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
)

var (
	_ repository.BalanceRepository  = (*BalanceRepo)(nil)
	_ repository.RequestRepository  = (*RequestRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
)

// BalanceRepo in-memory BalanceRepository.
type BalanceRepo struct {
	store *Store
}

func NewBalanceRepository(store *Store) *BalanceRepo {
	return &BalanceRepo{store: store}
}

func (r *BalanceRepo) Get(_ context.Context, spareID int64, loc entity.Location) (*entity.InventoryBalance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := balanceKey{SpareID: spareID, Kind: loc.Kind, LocID: loc.ID}
	if b, ok := r.store.balances[key]; ok {
		return cloneBalance(b), nil
	}
	return &entity.InventoryBalance{SpareID: spareID, Location: loc}, nil
}

// GetForUpdate has no row locking in memory; the tx runner serializes
// transactions instead.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, spareID int64, loc entity.Location) (*entity.InventoryBalance, error) {
	return r.Get(ctx, spareID, loc)
}

func (r *BalanceRepo) Upsert(_ context.Context, balance *entity.InventoryBalance) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := balanceKey{SpareID: balance.SpareID, Kind: balance.Location.Kind, LocID: balance.Location.ID}
	r.store.balances[key] = cloneBalance(balance)
	return nil
}

// RequestRepo in-memory RequestRepository.
type RequestRepo struct {
	store *Store
}

func NewRequestRepository(store *Store) *RequestRepo {
	return &RequestRepo{store: store}
}

func (r *RequestRepo) Create(_ context.Context, req *entity.Request) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextRequestID++
	req.ID = r.store.nextRequestID
	for i := range req.Items {
		r.store.nextItemID++
		req.Items[i].ID = r.store.nextItemID
		req.Items[i].RequestID = req.ID
	}
	r.store.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *RequestRepo) GetByID(_ context.Context, id int64) (*entity.Request, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if req, ok := r.store.requests[id]; ok {
		return cloneRequest(req), nil
	}
	return nil, nil
}

func (r *RequestRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Request, error) {
	return r.GetByID(ctx, id)
}

func (r *RequestRepo) UpdateStatus(_ context.Context, req *entity.Request) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.requests[req.ID]
	if !ok {
		return fmt.Errorf("request %d not found", req.ID)
	}
	stored.Status = req.Status
	stored.ApprovedBy = req.ApprovedBy
	stored.RejectedReason = req.RejectedReason
	stored.UpdatedAt = req.UpdatedAt
	if req.ApprovedAt != nil {
		t := *req.ApprovedAt
		stored.ApprovedAt = &t
	} else {
		stored.ApprovedAt = nil
	}
	return nil
}

func (r *RequestRepo) SetItemApproval(_ context.Context, itemID int64, approvedQty int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, req := range r.store.requests {
		for i := range req.Items {
			if req.Items[i].ID == itemID {
				q := approvedQty
				req.Items[i].ApprovedQty = &q
				return nil
			}
		}
	}
	return fmt.Errorf("request item %d not found", itemID)
}

func (r *RequestRepo) ListForLocation(_ context.Context, loc entity.Location, status entity.RequestStatus, limit, offset int) ([]*entity.Request, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []*entity.Request
	for _, req := range r.store.requests {
		if req.From != loc && req.To != loc {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		matched = append(matched, req)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	out := make([]*entity.Request, len(matched))
	for i, req := range matched {
		out[i] = cloneRequest(req)
	}
	return out, nil
}

// MovementRepo in-memory MovementRepository.
type MovementRepo struct {
	store *Store
}

func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextMovementID++
	m.ID = r.store.nextMovementID
	for i := range m.Lines {
		r.store.nextLineID++
		m.Lines[i].ID = r.store.nextLineID
		m.Lines[i].MovementID = m.ID
	}
	r.store.movements[m.ID] = cloneMovement(m)
	return nil
}

func (r *MovementRepo) GetByID(_ context.Context, id int64) (*entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if m, ok := r.store.movements[id]; ok {
		return cloneMovement(m), nil
	}
	return nil, nil
}

func (r *MovementRepo) GetForUpdate(ctx context.Context, id int64) (*entity.StockMovement, error) {
	return r.GetByID(ctx, id)
}

func (r *MovementRepo) UpdateStatus(_ context.Context, m *entity.StockMovement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.movements[m.ID]
	if !ok {
		return fmt.Errorf("movement %d not found", m.ID)
	}
	stored.Status = m.Status
	stored.DocumentNo = m.DocumentNo
	stored.OverrideReason = m.OverrideReason
	stored.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *MovementRepo) SetLineReceipt(_ context.Context, lineID int64, receivedQty int64, condition entity.ReceiptCondition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.movements {
		for i := range m.Lines {
			if m.Lines[i].ID == lineID {
				q := receivedQty
				m.Lines[i].ReceivedQty = &q
				m.Lines[i].Condition = condition
				return nil
			}
		}
	}
	return fmt.Errorf("movement line %d not found", lineID)
}

func (r *MovementRepo) GetByReference(_ context.Context, ref entity.Reference) (*entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var latest *entity.StockMovement
	for _, m := range r.store.movements {
		if m.Reference != ref {
			continue
		}
		if latest == nil || m.ID > latest.ID {
			latest = m
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneMovement(latest), nil
}
