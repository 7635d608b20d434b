package repository

import (
	"context"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

// MovementRepository persists stock movements and their lines.
// GetByID and GetForUpdate return nil without error when the id is unknown.
type MovementRepository interface {
	// Create persists the movement and its lines, assigning their ids.
	Create(ctx context.Context, m *entity.StockMovement) error
	GetByID(ctx context.Context, id int64) (*entity.StockMovement, error)
	// GetForUpdate locks the movement row for the rest of the transaction.
	GetForUpdate(ctx context.Context, id int64) (*entity.StockMovement, error)
	// UpdateStatus persists status plus the receipt stamps (document number,
	// override reason) when present.
	UpdateStatus(ctx context.Context, m *entity.StockMovement) error
	// SetLineReceipt stamps the received quantity and condition on one line.
	SetLineReceipt(ctx context.Context, lineID int64, receivedQty int64, condition entity.ReceiptCondition) error
	// GetByReference finds the movement created for a request or return.
	GetByReference(ctx context.Context, ref entity.Reference) (*entity.StockMovement, error)
}
