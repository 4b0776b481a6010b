package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/memory"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/usecase/services"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestBalanceServiceRecalculateReplaysOpeningPlusMovements(t *testing.T) {
	ctx := context.Background()
	accountRepo := memory.NewAccountRepository()
	movementRepo := memory.NewMovementRepository()

	account, err := accountRepo.Create(ctx, domain.Account{
		Name:           "Operating",
		OpeningBalance: decimal.NewFromInt(100),
		Balance:        decimal.NewFromInt(100),
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	// Inserted out of date order on purpose.
	amounts := []struct {
		amount decimal.Decimal
		day    int
	}{
		{decimal.NewFromInt(50), 20},
		{decimal.NewFromInt(-25), 5},
		{decimal.RequireFromString("10.50"), 12},
	}
	for _, m := range amounts {
		if _, err := movementRepo.Create(ctx, domain.Movement{
			AccountID:     account.ID,
			OperationDate: date(2026, time.March, m.day),
			Amount:        m.amount,
			Description:   "movement",
			Status:        domain.MovementStatusPending,
		}); err != nil {
			t.Fatalf("create movement: %v", err)
		}
	}

	svc := services.NewBalanceService(accountRepo, movementRepo)
	balance, err := svc.Recalculate(ctx, account.ID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	want := decimal.RequireFromString("135.50")
	if !balance.Equal(want) {
		t.Fatalf("expected balance %s, got %s", want, balance)
	}

	stored, err := accountRepo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !stored.Balance.Equal(want) {
		t.Fatalf("expected persisted balance %s, got %s", want, stored.Balance)
	}
}

func TestBalanceServiceRecalculateUnknownAccount(t *testing.T) {
	svc := services.NewBalanceService(memory.NewAccountRepository(), memory.NewMovementRepository())

	if _, err := svc.Recalculate(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown account")
	}
}
