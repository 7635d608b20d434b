package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo BalanceRepository implementation over PostgreSQL (usable with
// pool or tx). The primary key is the full (spare_id, location_kind,
// location_id) tuple: ids of different location kinds overlap.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository builds the adapter. Pass a pool or a tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceColumns = `spare_id, location_kind, location_id, good_qty, defective_qty, reserved_good, reserved_defective, updated_at`

// Get returns the balance of a spare at a location, zero if none exists.
func (r *BalanceRepo) Get(ctx context.Context, spareID int64, loc entity.Location) (*entity.InventoryBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM spare_balances
		WHERE spare_id = $1 AND location_kind = $2 AND location_id = $3`
	return r.scanOne(ctx, query, spareID, loc)
}

// GetForUpdate returns the balance and locks its row (SELECT FOR UPDATE).
func (r *BalanceRepo) GetForUpdate(ctx context.Context, spareID int64, loc entity.Location) (*entity.InventoryBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM spare_balances
		WHERE spare_id = $1 AND location_kind = $2 AND location_id = $3
		FOR UPDATE`
	return r.scanOne(ctx, query, spareID, loc)
}

func (r *BalanceRepo) scanOne(ctx context.Context, query string, spareID int64, loc entity.Location) (*entity.InventoryBalance, error) {
	var b entity.InventoryBalance
	var kind string
	err := r.q.QueryRow(ctx, query, spareID, string(loc.Kind), loc.ID).Scan(
		&b.SpareID, &kind, &b.Location.ID,
		&b.GoodQty, &b.DefectiveQty, &b.ReservedGood, &b.ReservedDefective,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryBalance{SpareID: spareID, Location: loc}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	b.Location.Kind = entity.LocationKind(kind)
	return &b, nil
}

// Upsert inserts or updates the counters for one (spare, location).
func (r *BalanceRepo) Upsert(ctx context.Context, b *entity.InventoryBalance) error {
	query := `
		INSERT INTO spare_balances (spare_id, location_kind, location_id, good_qty, defective_qty, reserved_good, reserved_defective, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (spare_id, location_kind, location_id)
		DO UPDATE SET good_qty = EXCLUDED.good_qty,
		              defective_qty = EXCLUDED.defective_qty,
		              reserved_good = EXCLUDED.reserved_good,
		              reserved_defective = EXCLUDED.reserved_defective,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		b.SpareID, string(b.Location.Kind), b.Location.ID,
		b.GoodQty, b.DefectiveQty, b.ReservedGood, b.ReservedDefective,
	)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}
