package ledger

import (
	"context"
	"time"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/logger"
)

// Ledger is the single source of truth for how much of which spare sits
// where. Every mutation runs in a transaction with the balance row locked
// (SELECT FOR UPDATE); a result that would go negative is a hard stop, never
// clamped.
type Ledger struct {
	balances repository.BalanceRepository // pool-bound, reads only
	tx       TxRunner
	log      *logger.Logger
}

// NewLedger builds the use case.
func NewLedger(balances repository.BalanceRepository, tx TxRunner, log *logger.Logger) *Ledger {
	return &Ledger{balances: balances, tx: tx, log: log}
}

// GetBalance returns the balance for a spare at a location. A location that
// never saw a movement yields a zero balance, not an error.
func (l *Ledger) GetBalance(ctx context.Context, spareID int64, loc entity.Location) (*entity.InventoryBalance, error) {
	if spareID <= 0 || !loc.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return l.balances.Get(ctx, spareID, loc)
}

// Adjust atomically adds delta (positive or negative) to the named bucket.
func (l *Ledger) Adjust(ctx context.Context, spareID int64, loc entity.Location, bucket entity.Bucket, delta int64) error {
	if spareID <= 0 || !loc.Valid() {
		return domain.ErrInvalidInput
	}
	err := l.tx.RunLedger(ctx, func(balances repository.BalanceRepository) error {
		return AdjustInTx(ctx, balances, spareID, loc, bucket, delta)
	})
	if err != nil {
		return err
	}
	l.log.Debug().
		Int64("spare_id", spareID).
		Str("location", loc.String()).
		Str("bucket", string(bucket)).
		Int64("delta", delta).
		Msg("balance adjusted")
	return nil
}

// Transfer moves qty between two locations in one transaction: decrement at
// the source bucket, increment at the destination bucket. Neither leg is
// applied if the source would go negative.
func (l *Ledger) Transfer(ctx context.Context, spareID int64, from, to entity.Location, bucketFrom, bucketTo entity.Bucket, qty int64) error {
	if spareID <= 0 || !from.Valid() || !to.Valid() || qty <= 0 {
		return domain.ErrInvalidInput
	}
	err := l.tx.RunLedger(ctx, func(balances repository.BalanceRepository) error {
		return TransferInTx(ctx, balances, spareID, from, to, bucketFrom, bucketTo, qty)
	})
	if err != nil {
		return err
	}
	l.log.Debug().
		Int64("spare_id", spareID).
		Str("from", from.String()).
		Str("to", to.String()).
		Int64("qty", qty).
		Msg("stock transferred")
	return nil
}

// Reserve earmarks qty in the bucket for an approved request. Fails when the
// unreserved remainder is smaller than qty.
func (l *Ledger) Reserve(ctx context.Context, spareID int64, loc entity.Location, bucket entity.Bucket, qty int64) error {
	if spareID <= 0 || !loc.Valid() || qty <= 0 {
		return domain.ErrInvalidInput
	}
	return l.tx.RunLedger(ctx, func(balances repository.BalanceRepository) error {
		return ReserveInTx(ctx, balances, spareID, loc, bucket, qty)
	})
}

// Release gives a reservation back (cancelled approval, confirmed receipt).
func (l *Ledger) Release(ctx context.Context, spareID int64, loc entity.Location, bucket entity.Bucket, qty int64) error {
	if spareID <= 0 || !loc.Valid() || qty <= 0 {
		return domain.ErrInvalidInput
	}
	return l.tx.RunLedger(ctx, func(balances repository.BalanceRepository) error {
		return ReleaseInTx(ctx, balances, spareID, loc, bucket, qty)
	})
}

// ── tx-composable operations ──────────────────────────────────────────────
//
// The lifecycle engine and the movement recorder call these with their own
// tx-bound repositories so ledger writes commit or roll back together with
// the state transition that caused them.

// AdjustInTx applies delta to one bucket inside the caller's transaction.
// The row is locked first; the result must stay >= the bucket's reservation
// (and therefore >= 0).
func AdjustInTx(ctx context.Context, balances repository.BalanceRepository, spareID int64, loc entity.Location, bucket entity.Bucket, delta int64) error {
	bal, err := balances.GetForUpdate(ctx, spareID, loc)
	if err != nil {
		return err
	}
	next := bal.Qty(bucket) + delta
	if next < bal.Reserved(bucket) {
		return &domain.InsufficientStockError{
			SpareID:   spareID,
			Location:  loc,
			Bucket:    bucket,
			Requested: -delta,
			Available: bal.Available(bucket),
		}
	}
	bal.Add(bucket, delta)
	bal.UpdatedAt = time.Now()
	return balances.Upsert(ctx, bal)
}

// TransferInTx composes the two legs of a transfer inside the caller's
// transaction. Locks the source first so the availability check and the
// decrement are one critical section.
func TransferInTx(ctx context.Context, balances repository.BalanceRepository, spareID int64, from, to entity.Location, bucketFrom, bucketTo entity.Bucket, qty int64) error {
	if err := AdjustInTx(ctx, balances, spareID, from, bucketFrom, -qty); err != nil {
		return err
	}
	return AdjustInTx(ctx, balances, spareID, to, bucketTo, qty)
}

// ReserveInTx earmarks qty inside the caller's transaction.
func ReserveInTx(ctx context.Context, balances repository.BalanceRepository, spareID int64, loc entity.Location, bucket entity.Bucket, qty int64) error {
	bal, err := balances.GetForUpdate(ctx, spareID, loc)
	if err != nil {
		return err
	}
	if bal.Available(bucket) < qty {
		return &domain.InsufficientStockError{
			SpareID:   spareID,
			Location:  loc,
			Bucket:    bucket,
			Requested: qty,
			Available: bal.Available(bucket),
		}
	}
	bal.AddReserved(bucket, qty)
	bal.UpdatedAt = time.Now()
	return balances.Upsert(ctx, bal)
}

// ReleaseUpToInTx releases at most qty from the bucket's reservation and
// returns how much was released. Movement receipts use it: a movement
// allocated by the engine carries a reservation for its planned quantities,
// but a movement recorded directly may not, and receipt must not fail for
// stock that was never earmarked.
func ReleaseUpToInTx(ctx context.Context, balances repository.BalanceRepository, spareID int64, loc entity.Location, bucket entity.Bucket, qty int64) (int64, error) {
	bal, err := balances.GetForUpdate(ctx, spareID, loc)
	if err != nil {
		return 0, err
	}
	release := qty
	if reserved := bal.Reserved(bucket); reserved < release {
		release = reserved
	}
	if release == 0 {
		return 0, nil
	}
	bal.AddReserved(bucket, -release)
	bal.UpdatedAt = time.Now()
	if err := balances.Upsert(ctx, bal); err != nil {
		return 0, err
	}
	return release, nil
}

// ReleaseInTx returns a reservation inside the caller's transaction.
func ReleaseInTx(ctx context.Context, balances repository.BalanceRepository, spareID int64, loc entity.Location, bucket entity.Bucket, qty int64) error {
	bal, err := balances.GetForUpdate(ctx, spareID, loc)
	if err != nil {
		return err
	}
	if bal.Reserved(bucket) < qty {
		return &domain.InsufficientStockError{
			SpareID:   spareID,
			Location:  loc,
			Bucket:    bucket,
			Requested: qty,
			Available: bal.Reserved(bucket),
		}
	}
	bal.AddReserved(bucket, -qty)
	bal.UpdatedAt = time.Now()
	return balances.Upsert(ctx, bal)
}
