package repo_interfaces

import (
	"context"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByIBAN(ctx context.Context, iban string) (domain.Account, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Account, error)
	Update(ctx context.Context, account domain.Account) (domain.Account, error)
	Delete(ctx context.Context, id string) error
}
