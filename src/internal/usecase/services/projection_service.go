package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/logger"
	"github.com/api-sage/treasury-engine/src/internal/usecase/service_interfaces"
)

// ProjectionService computes horizon-adjusted balances. Balances are
// recalculated on every read: the replay is cheap and re-running it here
// bounds staleness if a prior cascade was interrupted.
type ProjectionService struct {
	accountRepo repo_interfaces.AccountRepository
	eventRepo   repo_interfaces.ForecastEventRepository
	balance     service_interfaces.BalanceService
	now         func() time.Time
}

func NewProjectionService(
	accountRepo repo_interfaces.AccountRepository,
	eventRepo repo_interfaces.ForecastEventRepository,
	balance service_interfaces.BalanceService,
) *ProjectionService {
	return &ProjectionService{
		accountRepo: accountRepo,
		eventRepo:   eventRepo,
		balance:     balance,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *ProjectionService) GetProjections(ctx context.Context, days int, accountIDs []string) (domain.Projection, error) {
	if days <= 0 {
		return domain.Projection{}, domain.NewValidationError("days must be greater than zero")
	}

	from := s.now()
	to := from.AddDate(0, 0, days)

	accounts, err := s.accountRepo.List(ctx, false)
	if err != nil {
		return domain.Projection{}, fmt.Errorf("list accounts for projection: %w", err)
	}
	accounts = filterAccounts(accounts, accountIDs)

	events, err := s.eventRepo.ListPredictedWithin(ctx, from, to)
	if err != nil {
		return domain.Projection{}, fmt.Errorf("list forecast events for projection: %w", err)
	}

	projection := domain.Projection{
		Days:         days,
		From:         from,
		To:           to,
		Events:       events,
		TotalInflow:  decimal.Zero,
		TotalOutflow: decimal.Zero,
	}

	netByAccount := make(map[string]decimal.Decimal)
	for _, event := range events {
		signed := event.SignedAmount()
		if signed.IsPositive() {
			projection.TotalInflow = projection.TotalInflow.Add(signed)
		} else {
			projection.TotalOutflow = projection.TotalOutflow.Add(signed.Abs())
		}
		if event.AccountID != nil {
			netByAccount[*event.AccountID] = netByAccount[*event.AccountID].Add(signed)
		}
	}
	projection.NetFlow = projection.TotalInflow.Sub(projection.TotalOutflow)

	for _, account := range accounts {
		current, err := s.balance.Recalculate(ctx, account.ID)
		if err != nil {
			logger.Error("projection service balance recalculation failed", err, logger.Fields{
				"accountId": account.ID,
			})
			current = account.Balance
		}

		projected := current.Add(netByAccount[account.ID])
		projection.Accounts = append(projection.Accounts, domain.AccountProjection{
			AccountID:        account.ID,
			Name:             account.Name,
			CurrentBalance:   current,
			ProjectedBalance: projected,
			MinimumBalance:   account.MinimumBalance,
			BelowMinimum:     projected.LessThan(account.MinimumBalance),
		})
	}

	return projection, nil
}

func filterAccounts(accounts []domain.Account, accountIDs []string) []domain.Account {
	if len(accountIDs) == 0 {
		return accounts
	}

	wanted := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = struct{}{}
	}

	filtered := accounts[:0]
	for _, account := range accounts {
		if _, ok := wanted[account.ID]; ok {
			filtered = append(filtered, account)
		}
	}
	return filtered
}
