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

type recommendationFixture struct {
	accountRepo        *memory.AccountRepository
	eventRepo          *memory.ForecastEventRepository
	recommendationRepo *memory.RecommendationRepository
	service            *services.RecommendationService
}

func newRecommendationFixture() *recommendationFixture {
	accountRepo := memory.NewAccountRepository()
	movementRepo := memory.NewMovementRepository()
	eventRepo := memory.NewForecastEventRepository()
	recommendationRepo := memory.NewRecommendationRepository()
	balance := services.NewBalanceService(accountRepo, movementRepo)
	projections := services.NewProjectionService(accountRepo, eventRepo, balance)

	return &recommendationFixture{
		accountRepo:        accountRepo,
		eventRepo:          eventRepo,
		recommendationRepo: recommendationRepo,
		service:            services.NewRecommendationService(recommendationRepo, projections, 30, 100),
	}
}

func (fx *recommendationFixture) addAccount(t *testing.T, name string, balance, minimum int64) domain.Account {
	t.Helper()
	account, err := fx.accountRepo.Create(context.Background(), domain.Account{
		Name:           name,
		OpeningBalance: decimal.NewFromInt(balance),
		Balance:        decimal.NewFromInt(balance),
		MinimumBalance: decimal.NewFromInt(minimum),
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func (fx *recommendationFixture) addExpense(t *testing.T, accountID string, amount int64, daysAhead int) {
	t.Helper()
	if _, err := fx.eventRepo.Create(context.Background(), domain.ForecastEvent{
		SourceID:      "doc-expense",
		Type:          domain.ForecastEventTypeExpense,
		Amount:        decimal.NewFromInt(amount),
		PredictedDate: time.Now().UTC().AddDate(0, 0, daysAhead),
		Description:   "upcoming payment",
		AccountID:     &accountID,
		Status:        domain.ForecastEventStatusPredicted,
	}); err != nil {
		t.Fatalf("create event: %v", err)
	}
}

func TestRecommendationServiceSuggestsRoundedSweep(t *testing.T) {
	ctx := context.Background()
	fx := newRecommendationFixture()

	operating := fx.addAccount(t, "Operating", 1000, 200)
	reserve := fx.addAccount(t, "Reserve", 5000, 0)
	fx.addExpense(t, operating.ID, 850, 5)

	if err := fx.service.Regenerate(ctx); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	active, err := fx.service.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(active))
	}

	rec := active[0]
	if rec.Type != domain.RecommendationTypeTransfer {
		t.Fatalf("expected TRANSFER, got %s", rec.Type)
	}
	if rec.Severity != domain.RecommendationSeverityWarning {
		t.Fatalf("expected WARNING for a positive projected balance, got %s", rec.Severity)
	}
	// Deficit of 50 rounds up to the nearest 100.
	if !rec.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected suggested amount 100, got %s", rec.Amount)
	}
	if rec.TargetAccountID != operating.ID {
		t.Fatal("expected the deficit account as target")
	}
	if rec.SourceAccountID == nil || *rec.SourceAccountID != reserve.ID {
		t.Fatal("expected the reserve account as source")
	}
}

func TestRecommendationServiceCriticalWhenProjectedNegative(t *testing.T) {
	ctx := context.Background()
	fx := newRecommendationFixture()

	operating := fx.addAccount(t, "Operating", 1000, 200)
	fx.addAccount(t, "Reserve", 5000, 0)
	fx.addExpense(t, operating.ID, 1300, 5)

	if err := fx.service.Regenerate(ctx); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	active, err := fx.service.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].Severity != domain.RecommendationSeverityCritical {
		t.Fatalf("expected a single CRITICAL recommendation, got %+v", active)
	}
}

func TestRecommendationServiceAlertsWhenNoSourceCanFund(t *testing.T) {
	ctx := context.Background()
	fx := newRecommendationFixture()

	operating := fx.addAccount(t, "Operating", 1000, 200)
	fx.addAccount(t, "Petty cash", 50, 0)
	fx.addExpense(t, operating.ID, 850, 5)

	if err := fx.service.Regenerate(ctx); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	active, err := fx.service.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(active))
	}
	if active[0].Type != domain.RecommendationTypeAlert {
		t.Fatalf("expected a network-wide ALERT, got %s", active[0].Type)
	}
	if active[0].Severity != domain.RecommendationSeverityCritical {
		t.Fatalf("expected ALERT to be CRITICAL, got %s", active[0].Severity)
	}
}

func TestRecommendationServiceRegenerateReplacesActiveSet(t *testing.T) {
	ctx := context.Background()
	fx := newRecommendationFixture()

	operating := fx.addAccount(t, "Operating", 1000, 200)
	fx.addAccount(t, "Reserve", 5000, 0)
	fx.addExpense(t, operating.ID, 850, 5)

	if err := fx.service.Regenerate(ctx); err != nil {
		t.Fatalf("first regenerate: %v", err)
	}

	// Lowering the minimum removes the deficit; the next run must leave no
	// stale recommendation behind.
	operating.MinimumBalance = decimal.Zero
	if _, err := fx.accountRepo.Update(ctx, operating); err != nil {
		t.Fatalf("update account: %v", err)
	}

	if err := fx.service.Regenerate(ctx); err != nil {
		t.Fatalf("second regenerate: %v", err)
	}

	active, err := fx.service.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected the active set replaced with nothing, got %d", len(active))
	}
}

func TestRecommendationServiceDismiss(t *testing.T) {
	ctx := context.Background()
	fx := newRecommendationFixture()

	operating := fx.addAccount(t, "Operating", 1000, 200)
	fx.addAccount(t, "Reserve", 5000, 0)
	fx.addExpense(t, operating.ID, 850, 5)

	if err := fx.service.Regenerate(ctx); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	active, err := fx.service.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if err := fx.service.Dismiss(ctx, active[0].ID); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	remaining, err := fx.service.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active after dismiss: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no active recommendations after dismiss, got %d", len(remaining))
	}
}
