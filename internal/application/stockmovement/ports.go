package stockmovement

import (
	"context"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
)

// TxRunner runs fn inside a DB transaction, passing repositories bound to
// that tx. A receipt's ledger writes, line stamps, movement status and
// request fulfillment all live in one transaction: a movement is never left
// half-received.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balances repository.BalanceRepository,
		requests repository.RequestRepository,
		movements repository.MovementRepository,
	) error) error
}
