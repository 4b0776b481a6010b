package repo_interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type MovementRepository interface {
	Create(ctx context.Context, movement domain.Movement) (domain.Movement, error)
	GetByID(ctx context.Context, id string) (domain.Movement, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.Movement, error)
	ListUnreconciled(ctx context.Context) ([]domain.Movement, error)
	// HasDuplicate applies the movement uniqueness key: same account, same
	// operation date, same description and amount within the tolerance.
	HasDuplicate(ctx context.Context, accountID string, date time.Time, amount decimal.Decimal, description string, tolerance decimal.Decimal) (bool, error)
	Update(ctx context.Context, movement domain.Movement) (domain.Movement, error)
	CountByAccount(ctx context.Context, accountID string) (int, error)
	DeleteByAccount(ctx context.Context, accountID string) error
}
