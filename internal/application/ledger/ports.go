package ledger

import (
	"context"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
)

// TxRunner runs fn inside a DB transaction with a tx-bound balance
// repository. Guarantees atomicity for ledger adjustments.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(balances repository.BalanceRepository) error) error
}
