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

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestForecastServiceCreateFromDocument(t *testing.T) {
	ctx := context.Background()
	eventRepo := memory.NewForecastEventRepository()
	svc := services.NewForecastService(eventRepo, memory.NewAccountRepository())

	due := date(2026, time.April, 15)
	event, err := svc.CreateFromDocument(ctx, domain.DocumentFinancials{
		DocumentID:    "doc-1",
		Kind:          domain.ForecastEventTypeExpense,
		Amount:        decimal.RequireFromString("250.00"),
		DueDate:       &due,
		Supplier:      strPtr("ACME"),
		InvoiceNumber: strPtr("F-123"),
	})
	if err != nil {
		t.Fatalf("create from document: %v", err)
	}
	if event == nil {
		t.Fatal("expected a forecast event")
	}
	if event.Status != domain.ForecastEventStatusPredicted {
		t.Fatalf("expected PREDICTED, got %s", event.Status)
	}
	if !event.PredictedDate.Equal(due) {
		t.Fatalf("expected due date used as predicted date, got %s", event.PredictedDate)
	}
	if event.Description != "ACME invoice F-123" {
		t.Fatalf("unexpected description %q", event.Description)
	}
}

func TestForecastServiceCapitalExpenditureProducesNoEvent(t *testing.T) {
	ctx := context.Background()
	eventRepo := memory.NewForecastEventRepository()
	svc := services.NewForecastService(eventRepo, memory.NewAccountRepository())

	event, err := svc.CreateFromDocument(ctx, domain.DocumentFinancials{
		DocumentID:         "doc-capex",
		CapitalExpenditure: true,
		Amount:             decimal.NewFromInt(10000),
	})
	if err != nil {
		t.Fatalf("create from document: %v", err)
	}
	if event != nil {
		t.Fatal("capital expenditure must not produce a forecast event")
	}

	events, err := eventRepo.ListBySource(ctx, "doc-capex")
	if err != nil {
		t.Fatalf("list by source: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no stored events, got %d", len(events))
	}
}

func TestForecastServiceRejectsNonPositiveAmount(t *testing.T) {
	svc := services.NewForecastService(memory.NewForecastEventRepository(), memory.NewAccountRepository())

	_, err := svc.CreateFromDocument(context.Background(), domain.DocumentFinancials{
		DocumentID: "doc-1",
		Amount:     decimal.Zero,
	})
	if !domain.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestForecastServiceResolvesAccountByIBAN(t *testing.T) {
	ctx := context.Background()
	accountRepo := memory.NewAccountRepository()
	account, err := accountRepo.Create(ctx, domain.Account{
		Name:     "Operating",
		IBAN:     "ES9121000418450200051332",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	svc := services.NewForecastService(memory.NewForecastEventRepository(), accountRepo)
	event, err := svc.CreateFromDocument(ctx, domain.DocumentFinancials{
		DocumentID: "doc-1",
		Kind:       domain.ForecastEventTypeIncome,
		Amount:     decimal.NewFromInt(100),
		IBAN:       strPtr("es91 2100 0418 4502 0005 1332"),
	})
	if err != nil {
		t.Fatalf("create from document: %v", err)
	}
	if event.AccountID == nil || *event.AccountID != account.ID {
		t.Fatal("expected the event resolved to the account by IBAN")
	}
}

func TestForecastServiceUpdateFromDocumentMutatesPredictedEvent(t *testing.T) {
	ctx := context.Background()
	eventRepo := memory.NewForecastEventRepository()
	svc := services.NewForecastService(eventRepo, memory.NewAccountRepository())

	created, err := svc.CreateFromDocument(ctx, domain.DocumentFinancials{
		DocumentID:           "doc-1",
		Kind:                 domain.ForecastEventTypeExpense,
		Amount:               decimal.NewFromInt(250),
		PredictedPaymentDate: timePtr(date(2026, time.April, 15)),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateFromDocument(ctx, domain.DocumentFinancials{
		DocumentID:           "doc-1",
		Kind:                 domain.ForecastEventTypeExpense,
		Amount:               decimal.NewFromInt(300),
		PredictedPaymentDate: timePtr(date(2026, time.April, 20)),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatal("expected the existing event updated in place")
	}
	if !updated.Amount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected amount 300, got %s", updated.Amount)
	}
}

func TestForecastServiceUpdateRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	eventRepo := memory.NewForecastEventRepository()
	svc := services.NewForecastService(eventRepo, memory.NewAccountRepository())

	created, err := svc.CreateFromDocument(ctx, domain.DocumentFinancials{
		DocumentID:           "doc-1",
		Kind:                 domain.ForecastEventTypeExpense,
		Amount:               decimal.NewFromInt(250),
		PredictedPaymentDate: timePtr(date(2026, time.April, 15)),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.UpdateFromDocument(ctx, domain.DocumentFinancials{
		DocumentID: "doc-1",
		Kind:       domain.ForecastEventTypeExpense,
		Amount:     decimal.Zero,
	})
	if !domain.IsValidationError(err) {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}

	stored, err := eventRepo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if !stored.Amount.Equal(decimal.NewFromInt(250)) {
		t.Fatal("rejected revision must not mutate the stored event")
	}
}

func TestForecastServiceUpdateFromDocumentFallsThroughToCreate(t *testing.T) {
	ctx := context.Background()
	eventRepo := memory.NewForecastEventRepository()
	svc := services.NewForecastService(eventRepo, memory.NewAccountRepository())

	event, err := svc.UpdateFromDocument(ctx, domain.DocumentFinancials{
		DocumentID: "doc-new",
		Kind:       domain.ForecastEventTypeExpense,
		Amount:     decimal.NewFromInt(75),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if event == nil || event.SourceID != "doc-new" {
		t.Fatal("expected update on an unknown document to create an event")
	}
}

func TestForecastServiceUpdateLeavesExecutedEventsAlone(t *testing.T) {
	ctx := context.Background()
	eventRepo := memory.NewForecastEventRepository()
	svc := services.NewForecastService(eventRepo, memory.NewAccountRepository())

	executed, err := eventRepo.Create(ctx, domain.ForecastEvent{
		SourceID:      "doc-1",
		Type:          domain.ForecastEventTypeExpense,
		Amount:        decimal.NewFromInt(250),
		PredictedDate: date(2026, time.April, 15),
		Status:        domain.ForecastEventStatusExecuted,
	})
	if err != nil {
		t.Fatalf("seed executed event: %v", err)
	}

	event, err := svc.UpdateFromDocument(ctx, domain.DocumentFinancials{
		DocumentID: "doc-1",
		Kind:       domain.ForecastEventTypeExpense,
		Amount:     decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if event.ID == executed.ID {
		t.Fatal("executed events must not be mutated")
	}

	stored, err := eventRepo.GetByID(ctx, executed.ID)
	if err != nil {
		t.Fatalf("get executed event: %v", err)
	}
	if !stored.Amount.Equal(decimal.NewFromInt(250)) {
		t.Fatal("executed event amount must be unchanged")
	}
}
