package request

import (
	"context"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
)

// TxRunner runs fn inside a DB transaction, passing repositories bound to
// that tx. One transaction covers the state transition and every ledger and
// movement write it causes.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balances repository.BalanceRepository,
		requests repository.RequestRepository,
		movements repository.MovementRepository,
	) error) error
}
