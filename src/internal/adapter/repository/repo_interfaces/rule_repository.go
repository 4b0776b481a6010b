package repo_interfaces

import (
	"context"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type RuleRepository interface {
	Create(ctx context.Context, rule domain.Rule) (domain.Rule, error)
	ListActive(ctx context.Context) ([]domain.Rule, error)
	Delete(ctx context.Context, id string) error
	DeleteByAccount(ctx context.Context, accountID string) error
}
