package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type RecommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// ReplaceActive runs delete-and-insert in one transaction so readers never
// observe a half-replaced set.
func (r *RecommendationRepository) ReplaceActive(ctx context.Context, recommendations []domain.Recommendation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace recommendations: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations WHERE status = $1`, domain.RecommendationStatusActive); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete active recommendations: %w", err)
	}

	const insert = `
INSERT INTO recommendations (
	severity,
	type,
	source_account_id,
	target_account_id,
	amount,
	suggested_date,
	description,
	status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, recommendation := range recommendations {
		if _, err := tx.ExecContext(
			ctx,
			insert,
			recommendation.Severity,
			recommendation.Type,
			nullString(recommendation.SourceAccountID),
			recommendation.TargetAccountID,
			recommendation.Amount,
			recommendation.SuggestedDate,
			recommendation.Description,
			domain.RecommendationStatusActive,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert recommendation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace recommendations: %w", err)
	}

	return nil
}

func (r *RecommendationRepository) ListActive(ctx context.Context) ([]domain.Recommendation, error) {
	const query = `
SELECT id, severity, type, source_account_id, target_account_id, amount, suggested_date, description, status, created_at
FROM recommendations
WHERE status = $1
ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, domain.RecommendationStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active recommendations: %w", err)
	}
	defer rows.Close()

	var recommendations []domain.Recommendation
	for rows.Next() {
		var (
			recommendation  domain.Recommendation
			sourceAccountID sql.NullString
		)
		if err := rows.Scan(
			&recommendation.ID,
			&recommendation.Severity,
			&recommendation.Type,
			&sourceAccountID,
			&recommendation.TargetAccountID,
			&recommendation.Amount,
			&recommendation.SuggestedDate,
			&recommendation.Description,
			&recommendation.Status,
			&recommendation.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		recommendation.SourceAccountID = stringPtr(sourceAccountID)
		recommendations = append(recommendations, recommendation)
	}

	return recommendations, rows.Err()
}

func (r *RecommendationRepository) Dismiss(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE recommendations SET status = $2 WHERE id = $1`,
		id,
		domain.RecommendationStatusDismissed,
	)
	if err != nil {
		return fmt.Errorf("dismiss recommendation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("dismiss recommendation rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
