package repository

import (
	"context"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
)

// RequestRepository persists spare-parts requests and their lines.
// GetByID and GetForUpdate return nil without error when the id is unknown.
type RequestRepository interface {
	// Create persists the request and its items, assigning their ids.
	Create(ctx context.Context, req *entity.Request) error
	GetByID(ctx context.Context, id int64) (*entity.Request, error)
	// GetForUpdate locks the request row for the rest of the transaction.
	GetForUpdate(ctx context.Context, id int64) (*entity.Request, error)
	UpdateStatus(ctx context.Context, req *entity.Request) error
	// SetItemApproval stamps the approved quantity on one line. Set exactly
	// once per line, by the approval transition.
	SetItemApproval(ctx context.Context, itemID int64, approvedQty int64) error
	// ListForLocation returns requests where the location is either end.
	// Empty status means all statuses.
	ListForLocation(ctx context.Context, loc entity.Location, status entity.RequestStatus, limit, offset int) ([]*entity.Request, error)
}
