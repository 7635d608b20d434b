package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo MovementRepository implementation over PostgreSQL.
type MovementRepo struct {
	q Querier
}

func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, group_id, from_kind, from_id, to_kind, to_id, ref_type, ref_id, status, total_qty, document_no, override_reason, created_at, updated_at`

// Create persists the movement and its lines, assigning ids.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (group_id, from_kind, from_id, to_kind, to_id, ref_type, ref_id, status, total_qty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.GroupID, string(m.From.Kind), m.From.ID, string(m.To.Kind), m.To.ID,
		nullableString(string(m.Reference.Type)), m.Reference.ID,
		string(m.Status), m.TotalQty, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}

	lineQuery := `
		INSERT INTO stock_movement_lines (movement_id, spare_id, spare_code, bucket, qty, carton_no)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	for i := range m.Lines {
		line := &m.Lines[i]
		line.MovementID = m.ID
		err := r.q.QueryRow(ctx, lineQuery,
			m.ID, line.Spare.ID, nullableString(line.Spare.Code),
			string(line.Bucket), line.Qty, nullableString(line.CartonNo),
		).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("create movement line: %w", err)
		}
	}
	return nil
}

// GetByID returns the movement with its lines, nil when unknown.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdate returns the movement with its lines and locks the movement row.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id int64) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *MovementRepo) getOne(ctx context.Context, query string, id int64) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if err := r.loadLines(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MovementRepo) loadLines(ctx context.Context, m *entity.StockMovement) error {
	query := `
		SELECT id, movement_id, spare_id, spare_code, bucket, qty, carton_no, received_qty, condition
		FROM stock_movement_lines WHERE movement_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, m.ID)
	if err != nil {
		return fmt.Errorf("load movement lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.MovementLine
		var spareCode, cartonNo, condition *string
		if err := rows.Scan(&line.ID, &line.MovementID, &line.Spare.ID, &spareCode,
			&line.Bucket, &line.Qty, &cartonNo, &line.ReceivedQty, &condition); err != nil {
			return fmt.Errorf("scan movement line: %w", err)
		}
		if spareCode != nil {
			line.Spare.Code = *spareCode
		}
		if cartonNo != nil {
			line.CartonNo = *cartonNo
		}
		if condition != nil {
			line.Condition = entity.ReceiptCondition(*condition)
		}
		m.Lines = append(m.Lines, line)
	}
	return rows.Err()
}

// UpdateStatus persists status plus the receipt stamps.
func (r *MovementRepo) UpdateStatus(ctx context.Context, m *entity.StockMovement) error {
	query := `
		UPDATE stock_movements
		SET status = $2, document_no = $3, override_reason = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, m.ID,
		string(m.Status), nullableString(m.DocumentNo), nullableString(m.OverrideReason), m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement status: %w", err)
	}
	return nil
}

// SetLineReceipt stamps the received quantity and condition on one line.
func (r *MovementRepo) SetLineReceipt(ctx context.Context, lineID int64, receivedQty int64, condition entity.ReceiptCondition) error {
	query := `UPDATE stock_movement_lines SET received_qty = $2, condition = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, lineID, receivedQty, string(condition))
	if err != nil {
		return fmt.Errorf("set line receipt: %w", err)
	}
	return nil
}

// GetByReference finds the movement raised for a request or return, nil when
// none exists.
func (r *MovementRepo) GetByReference(ctx context.Context, ref entity.Reference) (*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE ref_type = $1 AND ref_id = $2
		ORDER BY id DESC LIMIT 1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, string(ref.Type), ref.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement by reference: %w", err)
	}
	if err := r.loadLines(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var fromKind, toKind string
	var refType, documentNo, overrideReason *string
	err := row.Scan(
		&m.ID, &m.GroupID, &fromKind, &m.From.ID, &toKind, &m.To.ID,
		&refType, &m.Reference.ID, &m.Status, &m.TotalQty,
		&documentNo, &overrideReason, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.From.Kind = entity.LocationKind(fromKind)
	m.To.Kind = entity.LocationKind(toKind)
	if refType != nil {
		m.Reference.Type = entity.ReferenceType(*refType)
	}
	if documentNo != nil {
		m.DocumentNo = *documentNo
	}
	if overrideReason != nil {
		m.OverrideReason = *overrideReason
	}
	return &m, nil
}
