package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type RuleRepository struct {
	db *sql.DB
}

func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

func (r *RuleRepository) Create(ctx context.Context, rule domain.Rule) (domain.Rule, error) {
	const query = `
INSERT INTO rules (
	name,
	pattern,
	account_id,
	set_category,
	set_counterparty,
	is_active
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		rule.Name,
		rule.Pattern,
		nullString(rule.AccountID),
		nullString(rule.SetCategory),
		nullString(rule.SetCounterparty),
		rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return domain.Rule{}, fmt.Errorf("create rule: %w", err)
	}

	return rule, nil
}

func (r *RuleRepository) ListActive(ctx context.Context) ([]domain.Rule, error) {
	const query = `
SELECT id, name, pattern, account_id, set_category, set_counterparty, is_active, created_at, updated_at
FROM rules
WHERE is_active = TRUE
ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.Rule
	for rows.Next() {
		var (
			rule            domain.Rule
			accountID       sql.NullString
			setCategory     sql.NullString
			setCounterparty sql.NullString
		)
		if err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&rule.Pattern,
			&accountID,
			&setCategory,
			&setCounterparty,
			&rule.IsActive,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rule.AccountID = stringPtr(accountID)
		rule.SetCategory = stringPtr(setCategory)
		rule.SetCounterparty = stringPtr(setCounterparty)
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rule rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (r *RuleRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rules WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("delete rules by account: %w", err)
	}

	return nil
}
