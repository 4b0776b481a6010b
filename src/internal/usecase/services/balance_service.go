package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/treasury-engine/src/internal/logger"
)

// BalanceService derives an account's balance by replaying its full
// movement log onto the opening balance. There is no incremental path: the
// replay is cheap enough that it is re-run on every mutation, which keeps
// the balance invariant independent of insertion order.
type BalanceService struct {
	accountRepo  repo_interfaces.AccountRepository
	movementRepo repo_interfaces.MovementRepository
}

func NewBalanceService(
	accountRepo repo_interfaces.AccountRepository,
	movementRepo repo_interfaces.MovementRepository,
) *BalanceService {
	return &BalanceService{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
	}
}

func (s *BalanceService) Recalculate(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("recalculate balance: %w", err)
	}

	movements, err := s.movementRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("recalculate balance: %w", err)
	}

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].EffectiveDate().Before(movements[j].EffectiveDate())
	})

	balance := account.OpeningBalance
	for _, movement := range movements {
		balance = balance.Add(movement.Amount)
	}

	if !balance.Equal(account.Balance) {
		logger.Info("balance service recalculated balance", logger.Fields{
			"accountId":  accountID,
			"oldBalance": account.Balance.String(),
			"newBalance": balance.String(),
			"movements":  len(movements),
		})
	}

	account.Balance = balance
	if _, err := s.accountRepo.Update(ctx, account); err != nil {
		return decimal.Zero, fmt.Errorf("persist recalculated balance: %w", err)
	}

	return balance, nil
}
