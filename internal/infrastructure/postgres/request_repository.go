package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo RequestRepository implementation over PostgreSQL (usable with
// pool or tx).
type RequestRepo struct {
	q Querier
}

// NewRequestRepository builds the adapter. Pass a pool or a tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

const requestColumns = `id, type, status, reason, from_kind, from_id, to_kind, to_id, raised_by, approved_by, approved_at, rejected_reason, created_at, updated_at`

// Create persists the request and its items, assigning ids.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	query := `
		INSERT INTO spare_requests (type, status, reason, from_kind, from_id, to_kind, to_id, raised_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		string(req.Type), string(req.Status), string(req.Reason),
		string(req.From.Kind), req.From.ID, string(req.To.Kind), req.To.ID,
		nullableString(req.RaisedBy), req.CreatedAt, req.UpdatedAt,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	itemQuery := `
		INSERT INTO spare_request_items (request_id, spare_id, spare_code, bucket, item_type, requested_qty)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	for i := range req.Items {
		item := &req.Items[i]
		item.RequestID = req.ID
		err := r.q.QueryRow(ctx, itemQuery,
			req.ID, item.Spare.ID, nullableString(item.Spare.Code),
			string(item.Bucket), nullableString(string(item.ItemType)), item.RequestedQty,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("create request item: %w", err)
		}
	}
	return nil
}

// GetByID returns the request with its items, nil when unknown.
func (r *RequestRepo) GetByID(ctx context.Context, id int64) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM spare_requests WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdate returns the request with its items and locks the request row.
func (r *RequestRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM spare_requests WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *RequestRepo) getOne(ctx context.Context, query string, id int64) (*entity.Request, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	if err := r.loadItems(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RequestRepo) loadItems(ctx context.Context, req *entity.Request) error {
	query := `
		SELECT id, request_id, spare_id, spare_code, bucket, item_type, requested_qty, approved_qty
		FROM spare_request_items WHERE request_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, req.ID)
	if err != nil {
		return fmt.Errorf("load request items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.RequestItem
		var spareCode, itemType *string
		if err := rows.Scan(&item.ID, &item.RequestID, &item.Spare.ID, &spareCode,
			&item.Bucket, &itemType, &item.RequestedQty, &item.ApprovedQty); err != nil {
			return fmt.Errorf("scan request item: %w", err)
		}
		if spareCode != nil {
			item.Spare.Code = *spareCode
		}
		if itemType != nil {
			item.ItemType = entity.ItemType(*itemType)
		}
		req.Items = append(req.Items, item)
	}
	return rows.Err()
}

// UpdateStatus persists status plus the approval/rejection stamps.
func (r *RequestRepo) UpdateStatus(ctx context.Context, req *entity.Request) error {
	query := `
		UPDATE spare_requests
		SET status = $2, approved_by = $3, approved_at = $4, rejected_reason = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, req.ID,
		string(req.Status), nullableString(req.ApprovedBy), req.ApprovedAt,
		nullableString(req.RejectedReason), req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	return nil
}

// SetItemApproval stamps the approved quantity on one line.
func (r *RequestRepo) SetItemApproval(ctx context.Context, itemID int64, approvedQty int64) error {
	query := `UPDATE spare_request_items SET approved_qty = $2 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, itemID, approvedQty)
	if err != nil {
		return fmt.Errorf("set item approval: %w", err)
	}
	return nil
}

// ListForLocation lists requests where the location is either end,
// optionally filtered by status.
func (r *RequestRepo) ListForLocation(ctx context.Context, loc entity.Location, status entity.RequestStatus, limit, offset int) ([]*entity.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM spare_requests
		WHERE ((from_kind = $1 AND from_id = $2) OR (to_kind = $1 AND to_id = $2))`
	args := []any{string(loc.Kind), loc.ID}
	pos := 3
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(status))
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		list = append(list, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, req := range list {
		if err := r.loadItems(ctx, req); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func scanRequest(row pgx.Row) (*entity.Request, error) {
	var req entity.Request
	var fromKind, toKind string
	var raisedBy, approvedBy, rejectedReason *string
	err := row.Scan(
		&req.ID, &req.Type, &req.Status, &req.Reason,
		&fromKind, &req.From.ID, &toKind, &req.To.ID,
		&raisedBy, &approvedBy, &req.ApprovedAt, &rejectedReason,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.From.Kind = entity.LocationKind(fromKind)
	req.To.Kind = entity.LocationKind(toKind)
	if raisedBy != nil {
		req.RaisedBy = *raisedBy
	}
	if approvedBy != nil {
		req.ApprovedBy = *approvedBy
	}
	if rejectedReason != nil {
		req.RejectedReason = *rejectedReason
	}
	return &req, nil
}
