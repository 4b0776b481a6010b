package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ImportBatchRepository struct {
	db *sql.DB
}

func NewImportBatchRepository(db *sql.DB) *ImportBatchRepository {
	return &ImportBatchRepository{db: db}
}

func (r *ImportBatchRepository) Create(ctx context.Context, batch domain.ImportBatch) (domain.ImportBatch, error) {
	const query = `
INSERT INTO import_batches (
	filename,
	bank_key,
	account_id,
	account_iban,
	content_hash,
	date_from,
	date_to,
	imported,
	duplicates,
	failed,
	imported_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, created_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		batch.Filename,
		nullString(batch.BankKey),
		batch.AccountID,
		batch.AccountIBAN,
		batch.ContentHash,
		nullTime(batch.DateFrom),
		nullTime(batch.DateTo),
		batch.Imported,
		batch.Duplicates,
		batch.Failed,
		batch.ImportedBy,
	).Scan(&batch.ID, &batch.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ImportBatch{}, domain.ErrDuplicateImport
		}
		return domain.ImportBatch{}, fmt.Errorf("create import batch: %w", err)
	}

	return batch, nil
}

func (r *ImportBatchRepository) ExistsByHash(ctx context.Context, contentHash string) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM import_batches WHERE content_hash = $1`, contentHash).Scan(&count); err != nil {
		return false, fmt.Errorf("check import batch hash: %w", err)
	}

	return count > 0, nil
}

func (r *ImportBatchRepository) UpdateCounts(ctx context.Context, id string, imported, duplicates, failed int, dateFrom, dateTo *time.Time) error {
	const query = `
UPDATE import_batches SET
	imported = $2,
	duplicates = $3,
	failed = $4,
	date_from = $5,
	date_to = $6
WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, imported, duplicates, failed, nullTime(dateFrom), nullTime(dateTo))
	if err != nil {
		return fmt.Errorf("update import batch counts: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update import batch counts rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (r *ImportBatchRepository) List(ctx context.Context) ([]domain.ImportBatch, error) {
	const query = `
SELECT id, filename, bank_key, account_id, account_iban, content_hash, date_from, date_to, imported, duplicates, failed, imported_by, created_at
FROM import_batches
ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list import batches: %w", err)
	}
	defer rows.Close()

	var batches []domain.ImportBatch
	for rows.Next() {
		var (
			batch    domain.ImportBatch
			bankKey  sql.NullString
			dateFrom sql.NullTime
			dateTo   sql.NullTime
		)
		if err := rows.Scan(
			&batch.ID,
			&batch.Filename,
			&bankKey,
			&batch.AccountID,
			&batch.AccountIBAN,
			&batch.ContentHash,
			&dateFrom,
			&dateTo,
			&batch.Imported,
			&batch.Duplicates,
			&batch.Failed,
			&batch.ImportedBy,
			&batch.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan import batch: %w", err)
		}
		batch.BankKey = stringPtr(bankKey)
		batch.DateFrom = timePtr(dateFrom)
		batch.DateTo = timePtr(dateTo)
		batches = append(batches, batch)
	}

	return batches, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
