package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type MovementRepository struct {
	db *sql.DB
}

func NewMovementRepository(db *sql.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

const movementColumns = `id, account_id, operation_date, value_date, amount, description, counterparty, reference, category, balance_snapshot, status, reconciliation_state, document_ids, batch_id, row_index, created_at, updated_at`

func (r *MovementRepository) Create(ctx context.Context, movement domain.Movement) (domain.Movement, error) {
	const query = `
INSERT INTO movements (
	account_id,
	operation_date,
	value_date,
	amount,
	description,
	counterparty,
	reference,
	category,
	balance_snapshot,
	status,
	reconciliation_state,
	document_ids,
	batch_id,
	row_index
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		movement.AccountID,
		movement.OperationDate,
		nullTime(movement.ValueDate),
		movement.Amount,
		movement.Description,
		nullString(movement.Counterparty),
		nullString(movement.Reference),
		nullString(movement.Category),
		nullDecimal(movement.BalanceSnapshot),
		movement.Status,
		movement.ReconciliationState,
		pq.Array(movement.DocumentIDs),
		nullString(movement.BatchID),
		movement.RowIndex,
	).Scan(&movement.ID, &movement.CreatedAt, &movement.UpdatedAt); err != nil {
		return domain.Movement{}, fmt.Errorf("create movement: %w", err)
	}

	return movement, nil
}

func (r *MovementRepository) GetByID(ctx context.Context, id string) (domain.Movement, error) {
	const query = `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`

	movement, err := scanMovement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Movement{}, domain.ErrRecordNotFound
		}
		return domain.Movement{}, fmt.Errorf("get movement by id: %w", err)
	}

	return movement, nil
}

func (r *MovementRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Movement, error) {
	const query = `SELECT ` + movementColumns + ` FROM movements WHERE account_id = $1 ORDER BY created_at, row_index`

	return r.queryMovements(ctx, query, accountID)
}

func (r *MovementRepository) ListUnreconciled(ctx context.Context) ([]domain.Movement, error) {
	const query = `SELECT ` + movementColumns + ` FROM movements WHERE reconciliation_state = $1 ORDER BY created_at, row_index`

	return r.queryMovements(ctx, query, domain.ReconciliationStateUnreconciled)
}

func (r *MovementRepository) HasDuplicate(ctx context.Context, accountID string, date time.Time, amount decimal.Decimal, description string, tolerance decimal.Decimal) (bool, error) {
	const query = `
SELECT COUNT(1) FROM movements
WHERE account_id = $1
  AND operation_date::date = $2::date
  AND LOWER(TRIM(description)) = LOWER(TRIM($3))
  AND ABS(amount - $4) <= $5`

	var count int
	if err := r.db.QueryRowContext(ctx, query, accountID, date, description, amount, tolerance).Scan(&count); err != nil {
		return false, fmt.Errorf("check duplicate movement: %w", err)
	}

	return count > 0, nil
}

func (r *MovementRepository) Update(ctx context.Context, movement domain.Movement) (domain.Movement, error) {
	const query = `
UPDATE movements SET
	counterparty = $2,
	category = $3,
	status = $4,
	reconciliation_state = $5,
	document_ids = $6,
	updated_at = NOW()
WHERE id = $1
RETURNING updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		movement.ID,
		nullString(movement.Counterparty),
		nullString(movement.Category),
		movement.Status,
		movement.ReconciliationState,
		pq.Array(movement.DocumentIDs),
	).Scan(&movement.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Movement{}, domain.ErrRecordNotFound
		}
		return domain.Movement{}, fmt.Errorf("update movement: %w", err)
	}

	return movement, nil
}

func (r *MovementRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM movements WHERE account_id = $1`, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}

	return count, nil
}

func (r *MovementRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM movements WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("delete movements by account: %w", err)
	}

	return nil
}

func (r *MovementRepository) queryMovements(ctx context.Context, query string, args ...any) ([]domain.Movement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, movement)
	}

	return movements, rows.Err()
}

func scanMovement(row rowScanner) (domain.Movement, error) {
	var (
		movement        domain.Movement
		valueDate       sql.NullTime
		counterparty    sql.NullString
		reference       sql.NullString
		category        sql.NullString
		balanceSnapshot decimal.NullDecimal
		batchID         sql.NullString
		documentIDs     pq.StringArray
	)

	err := row.Scan(
		&movement.ID,
		&movement.AccountID,
		&movement.OperationDate,
		&valueDate,
		&movement.Amount,
		&movement.Description,
		&counterparty,
		&reference,
		&category,
		&balanceSnapshot,
		&movement.Status,
		&movement.ReconciliationState,
		&documentIDs,
		&batchID,
		&movement.RowIndex,
		&movement.CreatedAt,
		&movement.UpdatedAt,
	)
	if err != nil {
		return domain.Movement{}, err
	}

	movement.ValueDate = timePtr(valueDate)
	movement.Counterparty = stringPtr(counterparty)
	movement.Reference = stringPtr(reference)
	movement.Category = stringPtr(category)
	movement.BatchID = stringPtr(batchID)
	movement.DocumentIDs = []string(documentIDs)
	if balanceSnapshot.Valid {
		value := balanceSnapshot.Decimal
		movement.BalanceSnapshot = &value
	}

	return movement, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}

func nullDecimal(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *value, Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func timePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	v := value.Time
	return &v
}
