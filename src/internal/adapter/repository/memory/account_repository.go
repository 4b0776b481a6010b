package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]domain.Account)}
}

func (r *AccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = account

	return account, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok || account.IsDeleted {
		return domain.Account{}, domain.ErrRecordNotFound
	}

	return account, nil
}

func (r *AccountRepository) GetByIBAN(_ context.Context, iban string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := domain.NormalizeIBAN(iban)
	for _, account := range r.accounts {
		if !account.IsDeleted && account.IBAN == normalized {
			return account, nil
		}
	}

	return domain.Account{}, domain.ErrRecordNotFound
}

func (r *AccountRepository) List(_ context.Context, includeInactive bool) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		if account.IsDeleted {
			continue
		}
		if !includeInactive && !account.IsActive {
			continue
		}
		accounts = append(accounts, account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})

	return accounts, nil
}

func (r *AccountRepository) Update(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.accounts[account.ID]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}

	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = time.Now().UTC()
	r.accounts[account.ID] = account

	return account, nil
}

func (r *AccountRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.accounts, id)

	return nil
}
