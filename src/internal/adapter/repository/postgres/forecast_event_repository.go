package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ForecastEventRepository struct {
	db *sql.DB
}

func NewForecastEventRepository(db *sql.DB) *ForecastEventRepository {
	return &ForecastEventRepository{db: db}
}

const forecastEventColumns = `id, source_id, type, amount, predicted_date, description, account_id, payment_method, status, movement_id, actual_date, actual_amount, created_at, updated_at`

func (r *ForecastEventRepository) Create(ctx context.Context, event domain.ForecastEvent) (domain.ForecastEvent, error) {
	const query = `
INSERT INTO forecast_events (
	source_id,
	type,
	amount,
	predicted_date,
	description,
	account_id,
	payment_method,
	status,
	movement_id,
	actual_date,
	actual_amount
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		event.SourceID,
		event.Type,
		event.Amount,
		event.PredictedDate,
		event.Description,
		nullString(event.AccountID),
		nullString(event.PaymentMethod),
		event.Status,
		nullString(event.MovementID),
		nullTime(event.ActualDate),
		nullDecimal(event.ActualAmount),
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt); err != nil {
		return domain.ForecastEvent{}, fmt.Errorf("create forecast event: %w", err)
	}

	return event, nil
}

func (r *ForecastEventRepository) GetByID(ctx context.Context, id string) (domain.ForecastEvent, error) {
	const query = `SELECT ` + forecastEventColumns + ` FROM forecast_events WHERE id = $1`

	event, err := scanForecastEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ForecastEvent{}, domain.ErrRecordNotFound
		}
		return domain.ForecastEvent{}, fmt.Errorf("get forecast event by id: %w", err)
	}

	return event, nil
}

func (r *ForecastEventRepository) ListBySource(ctx context.Context, sourceID string) ([]domain.ForecastEvent, error) {
	const query = `SELECT ` + forecastEventColumns + ` FROM forecast_events WHERE source_id = $1 ORDER BY created_at`

	return r.queryEvents(ctx, query, sourceID)
}

func (r *ForecastEventRepository) ListPredicted(ctx context.Context) ([]domain.ForecastEvent, error) {
	const query = `SELECT ` + forecastEventColumns + ` FROM forecast_events WHERE status = $1 ORDER BY created_at`

	return r.queryEvents(ctx, query, domain.ForecastEventStatusPredicted)
}

func (r *ForecastEventRepository) ListPredictedWithin(ctx context.Context, from, to time.Time) ([]domain.ForecastEvent, error) {
	const query = `
SELECT ` + forecastEventColumns + ` FROM forecast_events
WHERE status = $1 AND predicted_date >= $2 AND predicted_date <= $3
ORDER BY created_at`

	return r.queryEvents(ctx, query, domain.ForecastEventStatusPredicted, from, to)
}

func (r *ForecastEventRepository) Update(ctx context.Context, event domain.ForecastEvent) (domain.ForecastEvent, error) {
	const query = `
UPDATE forecast_events SET
	type = $2,
	amount = $3,
	predicted_date = $4,
	description = $5,
	account_id = $6,
	payment_method = $7,
	status = $8,
	movement_id = $9,
	actual_date = $10,
	actual_amount = $11,
	updated_at = NOW()
WHERE id = $1
RETURNING updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		event.ID,
		event.Type,
		event.Amount,
		event.PredictedDate,
		event.Description,
		nullString(event.AccountID),
		nullString(event.PaymentMethod),
		event.Status,
		nullString(event.MovementID),
		nullTime(event.ActualDate),
		nullDecimal(event.ActualAmount),
	).Scan(&event.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ForecastEvent{}, domain.ErrRecordNotFound
		}
		return domain.ForecastEvent{}, fmt.Errorf("update forecast event: %w", err)
	}

	return event, nil
}

func (r *ForecastEventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]domain.ForecastEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query forecast events: %w", err)
	}
	defer rows.Close()

	var events []domain.ForecastEvent
	for rows.Next() {
		event, err := scanForecastEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan forecast event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func scanForecastEvent(row rowScanner) (domain.ForecastEvent, error) {
	var (
		event         domain.ForecastEvent
		accountID     sql.NullString
		paymentMethod sql.NullString
		movementID    sql.NullString
		actualDate    sql.NullTime
		actualAmount  decimal.NullDecimal
	)

	err := row.Scan(
		&event.ID,
		&event.SourceID,
		&event.Type,
		&event.Amount,
		&event.PredictedDate,
		&event.Description,
		&accountID,
		&paymentMethod,
		&event.Status,
		&movementID,
		&actualDate,
		&actualAmount,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return domain.ForecastEvent{}, err
	}

	event.AccountID = stringPtr(accountID)
	event.PaymentMethod = stringPtr(paymentMethod)
	event.MovementID = stringPtr(movementID)
	event.ActualDate = timePtr(actualDate)
	if actualAmount.Valid {
		value := actualAmount.Decimal
		event.ActualAmount = &value
	}

	return event, nil
}
