package repository

import (
	"context"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

// BalanceRepository persists per-(spare, location) balances. Get and
// GetForUpdate return a zero balance when none exists yet; balances are
// created lazily by the first Upsert.
type BalanceRepository interface {
	Get(ctx context.Context, spareID int64, loc entity.Location) (*entity.InventoryBalance, error)
	// GetForUpdate locks the balance row for the rest of the transaction.
	GetForUpdate(ctx context.Context, spareID int64, loc entity.Location) (*entity.InventoryBalance, error)
	Upsert(ctx context.Context, balance *entity.InventoryBalance) error
}
