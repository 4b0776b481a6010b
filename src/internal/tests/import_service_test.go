package services_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/adapter/http/models"
	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/memory"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/eventbus"
	"github.com/api-sage/treasury-engine/src/internal/statement"
	"github.com/api-sage/treasury-engine/src/internal/usecase/services"
)

type importFixture struct {
	accountRepo  *memory.AccountRepository
	movementRepo *memory.MovementRepository
	batchRepo    *memory.ImportBatchRepository
	eventRepo    *memory.ForecastEventRepository
	ruleRepo     *memory.RuleRepository
	service      *services.ImportService
	account      domain.Account
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()

	accountRepo := memory.NewAccountRepository()
	movementRepo := memory.NewMovementRepository()
	batchRepo := memory.NewImportBatchRepository()
	eventRepo := memory.NewForecastEventRepository()
	ruleRepo := memory.NewRuleRepository()
	bus := eventbus.New(nil)
	matching := services.NewMatchingService(eventRepo, movementRepo, bus, 0.60, 0.80)

	account, err := accountRepo.Create(context.Background(), domain.Account{
		Name:           "Operating",
		IBAN:           "ES9121000418450200051332",
		OpeningBalance: decimal.NewFromInt(1000),
		Balance:        decimal.NewFromInt(1000),
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	return &importFixture{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		batchRepo:    batchRepo,
		eventRepo:    eventRepo,
		ruleRepo:     ruleRepo,
		service:      services.NewImportService(accountRepo, movementRepo, batchRepo, ruleRepo, statement.NewRegistry(), matching, bus),
		account:      account,
	}
}

func encodeCSV(content string) string {
	return base64.StdEncoding.EncodeToString([]byte(content))
}

const sampleCSV = `Fecha,Importe,Tipo,Concepto,Saldo
2026-03-10,120.00,ABONO,Customer payment,1120.00
2026-03-12,"1.234,56",CARGO,Office rent March,-114.56
`

func TestImportServiceImportsStatementRows(t *testing.T) {
	ctx := context.Background()
	fx := newImportFixture(t)

	response, err := fx.service.Import(ctx, models.ImportStatementRequest{
		AccountID:   fx.account.ID,
		Filename:    "statement.csv",
		FileContent: encodeCSV(sampleCSV),
		Actor:       "treasurer",
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if response.Data.Inserted != 2 {
		t.Fatalf("expected 2 inserted rows, got %d", response.Data.Inserted)
	}
	if response.Data.BatchID == "" {
		t.Fatal("expected a batch id")
	}

	movements, err := fx.movementRepo.ListByAccount(ctx, fx.account.ID)
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}

	// The CARGO row must come out negative regardless of the sign in the file.
	rent := movements[1]
	if !rent.Amount.Equal(decimal.RequireFromString("-1234.56")) {
		t.Fatalf("expected -1234.56 for debit row, got %s", rent.Amount)
	}
	if rent.BatchID == nil || *rent.BatchID != response.Data.BatchID {
		t.Fatal("expected movements tagged with the batch id")
	}
}

func TestImportServiceRejectsByteIdenticalReimport(t *testing.T) {
	ctx := context.Background()
	fx := newImportFixture(t)

	req := models.ImportStatementRequest{
		AccountID:   fx.account.ID,
		Filename:    "statement.csv",
		FileContent: encodeCSV(sampleCSV),
	}

	if _, err := fx.service.Import(ctx, req); err != nil {
		t.Fatalf("first import: %v", err)
	}

	if _, err := fx.service.Import(ctx, req); !errors.Is(err, domain.ErrDuplicateImport) {
		t.Fatalf("expected ErrDuplicateImport, got %v", err)
	}

	movements, err := fx.movementRepo.ListByAccount(ctx, fx.account.ID)
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("re-import must not add movements, got %d", len(movements))
	}
}

func TestImportServiceSkipsRowLevelDuplicates(t *testing.T) {
	ctx := context.Background()
	fx := newImportFixture(t)

	first := `Fecha,Importe,Concepto
2026-03-10,120.00,Customer payment
`
	second := `Fecha,Importe,Concepto
2026-03-10,120.00,Customer payment
2026-03-11,45.00,New row
`

	if _, err := fx.service.Import(ctx, models.ImportStatementRequest{
		AccountID:   fx.account.ID,
		Filename:    "first.csv",
		FileContent: encodeCSV(first),
	}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	response, err := fx.service.Import(ctx, models.ImportStatementRequest{
		AccountID:   fx.account.ID,
		Filename:    "second.csv",
		FileContent: encodeCSV(second),
	})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if response.Data.Inserted != 1 || response.Data.Duplicates != 1 {
		t.Fatalf("expected 1 inserted and 1 duplicate, got %d and %d", response.Data.Inserted, response.Data.Duplicates)
	}
}

func TestImportServiceRejectsInactiveAccount(t *testing.T) {
	ctx := context.Background()
	fx := newImportFixture(t)

	fx.account.IsActive = false
	if _, err := fx.accountRepo.Update(ctx, fx.account); err != nil {
		t.Fatalf("deactivate account: %v", err)
	}

	_, err := fx.service.Import(ctx, models.ImportStatementRequest{
		AccountID:   fx.account.ID,
		Filename:    "statement.csv",
		FileContent: encodeCSV(sampleCSV),
	})
	if !errors.Is(err, domain.ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
}

func TestImportServiceRejectsUnsupportedFormat(t *testing.T) {
	fx := newImportFixture(t)

	_, err := fx.service.Import(context.Background(), models.ImportStatementRequest{
		AccountID:   fx.account.ID,
		Filename:    "statement.pdf",
		FileContent: encodeCSV(sampleCSV),
	})
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestImportServiceRejectsEmptyFile(t *testing.T) {
	fx := newImportFixture(t)

	_, err := fx.service.Import(context.Background(), models.ImportStatementRequest{
		AccountID:   fx.account.ID,
		Filename:    "statement.csv",
		FileContent: encodeCSV("Fecha,Importe,Concepto\n"),
	})
	if !errors.Is(err, domain.ErrEmptyImport) {
		t.Fatalf("expected ErrEmptyImport, got %v", err)
	}
}

func TestImportServiceAppliesRules(t *testing.T) {
	ctx := context.Background()
	fx := newImportFixture(t)

	category := "rent"
	if _, err := fx.ruleRepo.Create(ctx, domain.Rule{
		Name:        "rent tagger",
		Pattern:     "office rent",
		SetCategory: &category,
		IsActive:    true,
	}); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	if _, err := fx.service.Import(ctx, models.ImportStatementRequest{
		AccountID:   fx.account.ID,
		Filename:    "statement.csv",
		FileContent: encodeCSV(sampleCSV),
	}); err != nil {
		t.Fatalf("import: %v", err)
	}

	movements, err := fx.movementRepo.ListByAccount(ctx, fx.account.ID)
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}

	tagged := 0
	for _, movement := range movements {
		if movement.Category != nil && *movement.Category == category {
			tagged++
		}
	}
	if tagged != 1 {
		t.Fatalf("expected exactly one movement tagged by the rule, got %d", tagged)
	}
}

func TestImportServiceAutoReconcilesMatchingForecast(t *testing.T) {
	ctx := context.Background()
	fx := newImportFixture(t)

	if _, err := fx.eventRepo.Create(ctx, domain.ForecastEvent{
		SourceID:      "doc-1",
		Type:          domain.ForecastEventTypeExpense,
		Amount:        decimal.RequireFromString("1234.56"),
		PredictedDate: date(2026, time.March, 12),
		Description:   "Office rent March",
		Status:        domain.ForecastEventStatusPredicted,
	}); err != nil {
		t.Fatalf("create forecast event: %v", err)
	}

	response, err := fx.service.Import(ctx, models.ImportStatementRequest{
		AccountID:   fx.account.ID,
		Filename:    "statement.csv",
		FileContent: encodeCSV(sampleCSV),
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if response.Data.Reconciled != 1 {
		t.Fatalf("expected 1 auto-reconciled pair, got %d", response.Data.Reconciled)
	}
}
