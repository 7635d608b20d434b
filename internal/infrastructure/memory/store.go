package memory

import (
	"sync"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

type balanceKey struct {
	SpareID int64
	Kind    entity.LocationKind
	LocID   int64
}

// Store holds all state for the in-memory backend. Used by tests and by
// local runs without a database.
type Store struct {
	mu sync.Mutex
	// txMu serializes transactions so snapshot/restore sees a stable world.
	txMu sync.Mutex

	balances  map[balanceKey]*entity.InventoryBalance
	requests  map[int64]*entity.Request
	movements map[int64]*entity.StockMovement

	nextRequestID  int64
	nextItemID     int64
	nextMovementID int64
	nextLineID     int64
}

func NewStore() *Store {
	return &Store{
		balances:  make(map[balanceKey]*entity.InventoryBalance),
		requests:  make(map[int64]*entity.Request),
		movements: make(map[int64]*entity.StockMovement),
	}
}

type snapshot struct {
	balances  map[balanceKey]*entity.InventoryBalance
	requests  map[int64]*entity.Request
	movements map[int64]*entity.StockMovement

	nextRequestID  int64
	nextItemID     int64
	nextMovementID int64
	nextLineID     int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		balances:       make(map[balanceKey]*entity.InventoryBalance, len(s.balances)),
		requests:       make(map[int64]*entity.Request, len(s.requests)),
		movements:      make(map[int64]*entity.StockMovement, len(s.movements)),
		nextRequestID:  s.nextRequestID,
		nextItemID:     s.nextItemID,
		nextMovementID: s.nextMovementID,
		nextLineID:     s.nextLineID,
	}
	for k, b := range s.balances {
		snap.balances[k] = cloneBalance(b)
	}
	for k, r := range s.requests {
		snap.requests[k] = cloneRequest(r)
	}
	for k, m := range s.movements {
		snap.movements[k] = cloneMovement(m)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = snap.balances
	s.requests = snap.requests
	s.movements = snap.movements
	s.nextRequestID = snap.nextRequestID
	s.nextItemID = snap.nextItemID
	s.nextMovementID = snap.nextMovementID
	s.nextLineID = snap.nextLineID
}

func cloneBalance(b *entity.InventoryBalance) *entity.InventoryBalance {
	cp := *b
	return &cp
}

func cloneRequest(r *entity.Request) *entity.Request {
	cp := *r
	if r.ApprovedAt != nil {
		t := *r.ApprovedAt
		cp.ApprovedAt = &t
	}
	cp.Items = make([]entity.RequestItem, len(r.Items))
	for i, item := range r.Items {
		cp.Items[i] = item
		if item.ApprovedQty != nil {
			q := *item.ApprovedQty
			cp.Items[i].ApprovedQty = &q
		}
	}
	return &cp
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	cp := *m
	cp.Lines = make([]entity.MovementLine, len(m.Lines))
	for i, line := range m.Lines {
		cp.Lines[i] = line
		if line.ReceivedQty != nil {
			q := *line.ReceivedQty
			cp.Lines[i].ReceivedQty = &q
		}
	}
	return &cp
}
