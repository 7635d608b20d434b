package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ledger"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/infrastructure/memory"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/logger"
)

var (
	plant1 = entity.Location{Kind: entity.LocationPlant, ID: 1}
	sc1    = entity.Location{Kind: entity.LocationServiceCenter, ID: 1}
)

func newLedger(t *testing.T) (*ledger.Ledger, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return ledger.NewLedger(memory.NewBalanceRepository(store), memory.NewTxRunner(store), logger.Nop()), store
}

func TestAdjustAndGetBalance(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Adjust(ctx, 42, sc1, entity.BucketGood, 10))
	require.NoError(t, l.Adjust(ctx, 42, sc1, entity.BucketDefective, 3))
	require.NoError(t, l.Adjust(ctx, 42, sc1, entity.BucketGood, -4))

	bal, err := l.GetBalance(ctx, 42, sc1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), bal.GoodQty)
	assert.Equal(t, int64(3), bal.DefectiveQty)
}

// A location never touched yields a zero balance, not an error.
func TestGetBalanceUnknownLocation(t *testing.T) {
	l, _ := newLedger(t)

	bal, err := l.GetBalance(context.Background(), 7, plant1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), bal.SpareID)
	assert.Equal(t, plant1, bal.Location)
	assert.Zero(t, bal.GoodQty)
	assert.Zero(t, bal.DefectiveQty)
}

// A decrement below zero fails with the structured error and leaves the
// balance untouched. Never clamped.
func TestAdjustNeverGoesNegative(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Adjust(ctx, 42, sc1, entity.BucketGood, 5))

	err := l.Adjust(ctx, 42, sc1, entity.BucketGood, -6)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(42), insufficient.SpareID)
	assert.Equal(t, sc1, insufficient.Location)
	assert.Equal(t, entity.BucketGood, insufficient.Bucket)
	assert.Equal(t, int64(6), insufficient.Requested)
	assert.Equal(t, int64(5), insufficient.Available)

	bal, err := l.GetBalance(ctx, 42, sc1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), bal.GoodQty)
}

func TestTransferMovesBetweenLocations(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Adjust(ctx, 42, plant1, entity.BucketGood, 10))
	require.NoError(t, l.Transfer(ctx, 42, plant1, sc1, entity.BucketGood, entity.BucketGood, 4))

	src, _ := l.GetBalance(ctx, 42, plant1)
	dst, _ := l.GetBalance(ctx, 42, sc1)
	assert.Equal(t, int64(6), src.GoodQty)
	assert.Equal(t, int64(4), dst.GoodQty)
}

// When the source leg fails, the destination leg never happens.
func TestTransferRollsBackOnInsufficientSource(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Adjust(ctx, 42, plant1, entity.BucketGood, 3))

	err := l.Transfer(ctx, 42, plant1, sc1, entity.BucketGood, entity.BucketGood, 5)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	src, _ := l.GetBalance(ctx, 42, plant1)
	dst, _ := l.GetBalance(ctx, 42, sc1)
	assert.Equal(t, int64(3), src.GoodQty)
	assert.Zero(t, dst.GoodQty)
}

// Cross-bucket transfer: the receiving side may land stock in a different
// bucket than it left (damaged on arrival).
func TestTransferAcrossBuckets(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Adjust(ctx, 42, plant1, entity.BucketGood, 5))
	require.NoError(t, l.Transfer(ctx, 42, plant1, sc1, entity.BucketGood, entity.BucketDefective, 2))

	dst, _ := l.GetBalance(ctx, 42, sc1)
	assert.Zero(t, dst.GoodQty)
	assert.Equal(t, int64(2), dst.DefectiveQty)
}

func TestReserveAndRelease(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Adjust(ctx, 42, sc1, entity.BucketGood, 10))
	require.NoError(t, l.Reserve(ctx, 42, sc1, entity.BucketGood, 7))

	bal, _ := l.GetBalance(ctx, 42, sc1)
	assert.Equal(t, int64(10), bal.GoodQty)
	assert.Equal(t, int64(7), bal.ReservedGood)
	assert.Equal(t, int64(3), bal.Available(entity.BucketGood))

	// Only 3 are left unreserved.
	err := l.Reserve(ctx, 42, sc1, entity.BucketGood, 4)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(3), insufficient.Available)

	require.NoError(t, l.Release(ctx, 42, sc1, entity.BucketGood, 7))
	bal, _ = l.GetBalance(ctx, 42, sc1)
	assert.Zero(t, bal.ReservedGood)
}

// Reserved stock cannot be drawn down below the reservation by an adjustment.
func TestAdjustRespectsReservation(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Adjust(ctx, 42, sc1, entity.BucketGood, 10))
	require.NoError(t, l.Reserve(ctx, 42, sc1, entity.BucketGood, 8))

	err := l.Adjust(ctx, 42, sc1, entity.BucketGood, -5)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.Available)
}

func TestAdjustValidatesInput(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	assert.ErrorIs(t, l.Adjust(ctx, 0, sc1, entity.BucketGood, 1), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.Adjust(ctx, 1, entity.Location{}, entity.BucketGood, 1), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.Transfer(ctx, 1, plant1, sc1, entity.BucketGood, entity.BucketGood, 0), domain.ErrInvalidInput)
}

// Many concurrent decrements against the same balance: the bucket never goes
// negative and the successes add up exactly.
func TestConcurrentAdjustInvariant(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Adjust(ctx, 42, sc1, entity.BucketGood, 10))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Adjust(ctx, 42, sc1, entity.BucketGood, -1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	bal, err := l.GetBalance(ctx, 42, sc1)
	require.NoError(t, err)
	assert.Equal(t, 10, succeeded)
	assert.Zero(t, bal.GoodQty)
	assert.GreaterOrEqual(t, bal.GoodQty, int64(0))
}
