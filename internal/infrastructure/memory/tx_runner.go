package memory

import (
	"context"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ledger"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/request"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/stockmovement"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
)

var (
	_ ledger.TxRunner        = (*TxRunner)(nil)
	_ request.TxRunner       = (*TxRunner)(nil)
	_ stockmovement.TxRunner = (*TxRunner)(nil)
)

// TxRunner gives the in-memory store transaction semantics: transactions
// run one at a time, and a failing fn rolls the whole store back to its
// pre-transaction snapshot.
type TxRunner struct {
	store *Store
}

func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (t *TxRunner) Run(ctx context.Context, fn func(
	balances repository.BalanceRepository,
	requests repository.RequestRepository,
	movements repository.MovementRepository,
) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snap := t.store.snapshot()
	err := fn(NewBalanceRepository(t.store), NewRequestRepository(t.store), NewMovementRepository(t.store))
	if err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func (t *TxRunner) RunLedger(ctx context.Context, fn func(balances repository.BalanceRepository) error) error {
	return t.Run(ctx, func(balances repository.BalanceRepository, _ repository.RequestRepository, _ repository.MovementRepository) error {
		return fn(balances)
	})
}
