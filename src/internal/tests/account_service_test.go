package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/adapter/http/models"
	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/memory"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/eventbus"
	"github.com/api-sage/treasury-engine/src/internal/usecase/services"
)

type accountFixture struct {
	accountRepo  *memory.AccountRepository
	movementRepo *memory.MovementRepository
	ruleRepo     *memory.RuleRepository
	bus          *eventbus.Bus
	service      *services.AccountService
}

func newAccountFixture() *accountFixture {
	accountRepo := memory.NewAccountRepository()
	movementRepo := memory.NewMovementRepository()
	ruleRepo := memory.NewRuleRepository()
	bus := eventbus.New(nil)
	return &accountFixture{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		ruleRepo:     ruleRepo,
		bus:          bus,
		service:      services.NewAccountService(accountRepo, movementRepo, ruleRepo, bus),
	}
}

func validCreateRequest() models.CreateAccountRequest {
	return models.CreateAccountRequest{
		Name:           "Operating",
		BankName:       "Banco Uno",
		IBAN:           "ES91 2100 0418 4502 0005 1332",
		OpeningBalance: "1000.00",
		OpeningDate:    "2026-01-01",
		MinimumBalance: "200.00",
	}
}

func TestAccountServiceCreateAccountValidationError(t *testing.T) {
	fx := newAccountFixture()

	_, err := fx.service.CreateAccount(context.Background(), models.CreateAccountRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty create account request")
	}
}

func TestAccountServiceCreateAccountNormalizesIBANAndDefaultsCurrency(t *testing.T) {
	fx := newAccountFixture()

	response, err := fx.service.CreateAccount(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if response.Data.IBAN != "ES9121000418450200051332" {
		t.Fatalf("expected normalized IBAN, got %q", response.Data.IBAN)
	}
	if response.Data.Currency != "EUR" {
		t.Fatalf("expected EUR default, got %q", response.Data.Currency)
	}
	if response.Data.Balance != "1000.00" {
		t.Fatalf("expected balance seeded from opening balance, got %q", response.Data.Balance)
	}
}

func TestAccountServiceCreateAccountRejectsDuplicateIBAN(t *testing.T) {
	ctx := context.Background()
	fx := newAccountFixture()

	if _, err := fx.service.CreateAccount(ctx, validCreateRequest()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	req := validCreateRequest()
	req.Name = "Shadow"
	if _, err := fx.service.CreateAccount(ctx, req); err == nil {
		t.Fatal("expected duplicate IBAN to be rejected")
	}
}

func TestAccountServiceDeactivateKeepsHistory(t *testing.T) {
	ctx := context.Background()
	fx := newAccountFixture()

	created, err := fx.service.CreateAccount(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fx.movementRepo.Create(ctx, domain.Movement{
		AccountID:   created.Data.ID,
		Amount:      decimal.NewFromInt(10),
		Description: "movement",
	}); err != nil {
		t.Fatalf("create movement: %v", err)
	}

	if _, err := fx.service.DeactivateAccount(ctx, created.Data.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	count, err := fx.movementRepo.CountByAccount(ctx, created.Data.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatal("deactivation must not touch movements")
	}

	listed, err := fx.service.ListAccounts(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(*listed.Data) != 0 {
		t.Fatal("inactive accounts must not appear in the default listing")
	}
}

func TestAccountServiceDeleteRequiresCascadeWhenMovementsExist(t *testing.T) {
	ctx := context.Background()
	fx := newAccountFixture()

	created, err := fx.service.CreateAccount(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fx.movementRepo.Create(ctx, domain.Movement{
		AccountID:   created.Data.ID,
		Amount:      decimal.NewFromInt(10),
		Description: "movement",
	}); err != nil {
		t.Fatalf("create movement: %v", err)
	}

	if _, err := fx.service.DeleteAccount(ctx, created.Data.ID, false); !domain.IsValidationError(err) {
		t.Fatalf("expected validation error without cascade, got %v", err)
	}

	response, err := fx.service.DeleteAccount(ctx, created.Data.ID, true)
	if err != nil {
		t.Fatalf("cascade delete: %v", err)
	}
	if response.Data.PurgedMovements != 1 {
		t.Fatalf("expected 1 purged movement, got %d", response.Data.PurgedMovements)
	}

	if _, err := fx.accountRepo.GetByID(ctx, created.Data.ID); err == nil {
		t.Fatal("expected the account gone after cascade delete")
	}
}

func TestAccountServiceCascadeDeletePublishesMovementDeletions(t *testing.T) {
	ctx := context.Background()
	fx := newAccountFixture()

	created, err := fx.service.CreateAccount(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, amount := range []int64{10, -25} {
		if _, err := fx.movementRepo.Create(ctx, domain.Movement{
			AccountID:   created.Data.ID,
			Amount:      decimal.NewFromInt(amount),
			Description: "movement",
		}); err != nil {
			t.Fatalf("create movement: %v", err)
		}
	}

	var deletions []eventbus.Event
	fx.bus.Subscribe(eventbus.MovementDeleted, func(_ context.Context, event eventbus.Event) {
		deletions = append(deletions, event)
	})

	if _, err := fx.service.DeleteAccount(ctx, created.Data.ID, true); err != nil {
		t.Fatalf("cascade delete: %v", err)
	}

	if len(deletions) != 2 {
		t.Fatalf("expected one deletion event per purged movement, got %d", len(deletions))
	}
	for _, event := range deletions {
		if event.AccountID != created.Data.ID || event.Movement == nil {
			t.Fatal("deletion events must carry the account id and the purged movement")
		}
	}
}
