package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/memory"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/eventbus"
	"github.com/api-sage/treasury-engine/src/internal/usecase/services"
)

type matchingFixture struct {
	eventRepo    *memory.ForecastEventRepository
	movementRepo *memory.MovementRepository
	service      *services.MatchingService
}

func newMatchingFixture() *matchingFixture {
	eventRepo := memory.NewForecastEventRepository()
	movementRepo := memory.NewMovementRepository()
	return &matchingFixture{
		eventRepo:    eventRepo,
		movementRepo: movementRepo,
		service:      services.NewMatchingService(eventRepo, movementRepo, eventbus.New(nil), 0.60, 0.80),
	}
}

func (fx *matchingFixture) addEvent(t *testing.T, amount string, day int, description string) domain.ForecastEvent {
	t.Helper()
	event, err := fx.eventRepo.Create(context.Background(), domain.ForecastEvent{
		SourceID:      "doc-" + description,
		Type:          domain.ForecastEventTypeExpense,
		Amount:        decimal.RequireFromString(amount),
		PredictedDate: date(2026, time.March, day),
		Description:   description,
		Status:        domain.ForecastEventStatusPredicted,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func (fx *matchingFixture) addMovement(t *testing.T, amount string, day int, description string) domain.Movement {
	t.Helper()
	movement, err := fx.movementRepo.Create(context.Background(), domain.Movement{
		AccountID:           "acc-1",
		OperationDate:       date(2026, time.March, day),
		Amount:              decimal.RequireFromString(amount),
		Description:         description,
		Status:              domain.MovementStatusPending,
		ReconciliationState: domain.ReconciliationStateUnreconciled,
	})
	if err != nil {
		t.Fatalf("create movement: %v", err)
	}
	return movement
}

func TestMatchingServiceNearExactOneDayApartIsCandidate(t *testing.T) {
	fx := newMatchingFixture()
	fx.addEvent(t, "50.00", 10, "consulting fee")
	fx.addMovement(t, "-49.99", 11, "wire transfer out")

	candidates, err := fx.service.FindCandidateMatches(context.Background())
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Score < 0.60 {
		t.Fatalf("expected score of at least 0.60, got %.2f", candidates[0].Score)
	}
}

func TestMatchingServiceGatesExcludeDistantPairs(t *testing.T) {
	fx := newMatchingFixture()
	fx.addEvent(t, "50.00", 10, "consulting fee")
	fx.addMovement(t, "-51.00", 10, "wire transfer out") // amount gate
	fx.addMovement(t, "-50.00", 20, "wire transfer out") // date gate

	candidates, err := fx.service.FindCandidateMatches(context.Background())
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}

func TestMatchingServiceAccountGate(t *testing.T) {
	fx := newMatchingFixture()
	event := fx.addEvent(t, "50.00", 10, "consulting fee")
	otherAccount := "acc-2"
	event.AccountID = &otherAccount
	if _, err := fx.eventRepo.Update(context.Background(), event); err != nil {
		t.Fatalf("update event: %v", err)
	}
	fx.addMovement(t, "-50.00", 10, "consulting fee")

	candidates, err := fx.service.FindCandidateMatches(context.Background())
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected account mismatch to gate the pair, got %d candidates", len(candidates))
	}
}

func TestMatchingServiceCandidatesSortedByScore(t *testing.T) {
	fx := newMatchingFixture()
	fx.addEvent(t, "50.00", 10, "consulting fee")
	fx.addMovement(t, "-49.70", 11, "weak match")     // review range
	fx.addMovement(t, "-50.00", 10, "consulting fee") // near-exact plus tokens

	candidates, err := fx.service.FindCandidateMatches(context.Background())
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if len(candidates) < 1 {
		t.Fatal("expected at least one candidate")
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > candidates[i-1].Score {
			t.Fatal("expected candidates in descending score order")
		}
	}
	if candidates[0].Movement.Description != "consulting fee" {
		t.Fatalf("expected the near-exact pair first, got %q", candidates[0].Movement.Description)
	}
}

func TestMatchingServiceReconcileLinksBothSides(t *testing.T) {
	ctx := context.Background()
	fx := newMatchingFixture()
	event := fx.addEvent(t, "50.00", 10, "consulting fee")
	movement := fx.addMovement(t, "-50.00", 10, "consulting fee")

	savedEvent, savedMovement, err := fx.service.Reconcile(ctx, event.ID, movement.ID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if savedEvent.Status != domain.ForecastEventStatusExecuted {
		t.Fatalf("expected event EXECUTED, got %s", savedEvent.Status)
	}
	if savedEvent.MovementID == nil || *savedEvent.MovementID != movement.ID {
		t.Fatal("expected event linked to the movement")
	}
	if savedEvent.ActualAmount == nil || !savedEvent.ActualAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatal("expected actual amount recorded as a positive magnitude")
	}
	if savedMovement.ReconciliationState != domain.ReconciliationStateReconciled {
		t.Fatalf("expected movement RECONCILED, got %s", savedMovement.ReconciliationState)
	}
	if savedMovement.Status != domain.MovementStatusProcessed {
		t.Fatalf("expected movement PROCESSED, got %s", savedMovement.Status)
	}
	if len(savedMovement.DocumentIDs) != 1 || savedMovement.DocumentIDs[0] != event.SourceID {
		t.Fatal("expected the source document attached to the movement")
	}
}

func TestMatchingServiceReconcileIsExclusive(t *testing.T) {
	ctx := context.Background()
	fx := newMatchingFixture()
	event := fx.addEvent(t, "50.00", 10, "consulting fee")
	secondEvent := fx.addEvent(t, "50.00", 10, "another fee")
	movement := fx.addMovement(t, "-50.00", 10, "consulting fee")
	secondMovement := fx.addMovement(t, "-50.00", 10, "another payment")

	if _, _, err := fx.service.Reconcile(ctx, event.ID, movement.ID); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// An executed event cannot be matched again.
	if _, _, err := fx.service.Reconcile(ctx, event.ID, secondMovement.ID); !errors.Is(err, domain.ErrAlreadyReconciled) {
		t.Fatalf("expected ErrAlreadyReconciled for executed event, got %v", err)
	}

	// A reconciled movement cannot be matched again.
	if _, _, err := fx.service.Reconcile(ctx, secondEvent.ID, movement.ID); !errors.Is(err, domain.ErrAlreadyReconciled) {
		t.Fatalf("expected ErrAlreadyReconciled for reconciled movement, got %v", err)
	}
}

func TestMatchingServiceAutoReconcileHonorsThresholds(t *testing.T) {
	ctx := context.Background()
	fx := newMatchingFixture()

	// Near-exact, same day, shared tokens: above the auto-accept threshold.
	fx.addEvent(t, "50.00", 10, "consulting fee")
	fx.addMovement(t, "-50.00", 10, "consulting fee")

	// Amount off by 0.30 one day out, no shared tokens: review range.
	fx.addEvent(t, "80.00", 20, "maintenance contract")
	fx.addMovement(t, "-79.70", 21, "unlabelled charge")

	reconciled, pendingReview, err := fx.service.AutoReconcile(ctx)
	if err != nil {
		t.Fatalf("auto-reconcile: %v", err)
	}
	if reconciled != 1 {
		t.Fatalf("expected 1 reconciled pair, got %d", reconciled)
	}
	if pendingReview != 1 {
		t.Fatalf("expected 1 pair pending review, got %d", pendingReview)
	}
}

func TestMatchingServiceAutoReconcileUsesEachSideOnce(t *testing.T) {
	ctx := context.Background()
	fx := newMatchingFixture()

	// Two events compete for one movement; only the better match wins.
	fx.addEvent(t, "50.00", 10, "consulting fee invoice")
	fx.addEvent(t, "50.00", 11, "misc charge")
	fx.addMovement(t, "-50.00", 10, "consulting fee invoice")

	reconciled, _, err := fx.service.AutoReconcile(ctx)
	if err != nil {
		t.Fatalf("auto-reconcile: %v", err)
	}
	if reconciled != 1 {
		t.Fatalf("expected exactly 1 reconciliation, got %d", reconciled)
	}

	events, err := fx.eventRepo.ListPredicted(ctx)
	if err != nil {
		t.Fatalf("list predicted: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one event left predicted, got %d", len(events))
	}
}
