package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ledger"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/request"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/stockmovement"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
)

// Ensure TxRunner implements the application-layer ports.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ request.TxRunner = (*TxRunner)(nil)
var _ stockmovement.TxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside a PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner from the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run begins a transaction, executes fn with repos bound to the tx, and
// commits or rolls back.
func (r *TxRunner) Run(ctx context.Context, fn func(
	balances repository.BalanceRepository,
	requests repository.RequestRepository,
	movements repository.MovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	balances := NewBalanceRepository(tx)
	requests := NewRequestRepository(tx)
	movements := NewMovementRepository(tx)

	if err := fn(balances, requests, movements); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunLedger begins a transaction scoped to balance writes only (plain ledger
// adjustments and transfers).
func (r *TxRunner) RunLedger(ctx context.Context, fn func(balances repository.BalanceRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBalanceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
