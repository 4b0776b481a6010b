package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/eventbus"
	"github.com/api-sage/treasury-engine/src/internal/logger"
)

var (
	amountGate         = decimal.NewFromFloat(0.50)
	nearExactTolerance = decimal.NewFromFloat(0.01)
)

const dateGateDays = 3

// MatchingService pairs predicted forecast events with unreconciled
// movements. Candidate generation is read-only; Reconcile is the only
// state-mutating entry point. Two thresholds apply: candidates at or above
// the review threshold are surfaced, and only those at or above the
// stricter auto-accept threshold are reconciled without review.
type MatchingService struct {
	eventRepo           repo_interfaces.ForecastEventRepository
	movementRepo        repo_interfaces.MovementRepository
	bus                 *eventbus.Bus
	reviewThreshold     float64
	autoAcceptThreshold float64
}

func NewMatchingService(
	eventRepo repo_interfaces.ForecastEventRepository,
	movementRepo repo_interfaces.MovementRepository,
	bus *eventbus.Bus,
	reviewThreshold float64,
	autoAcceptThreshold float64,
) *MatchingService {
	return &MatchingService{
		eventRepo:           eventRepo,
		movementRepo:        movementRepo,
		bus:                 bus,
		reviewThreshold:     reviewThreshold,
		autoAcceptThreshold: autoAcceptThreshold,
	}
}

func (s *MatchingService) FindCandidateMatches(ctx context.Context) ([]domain.MatchCandidate, error) {
	events, err := s.eventRepo.ListPredicted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list predicted events: %w", err)
	}

	movements, err := s.movementRepo.ListUnreconciled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unreconciled movements: %w", err)
	}

	var candidates []domain.MatchCandidate
	for _, event := range events {
		for _, movement := range movements {
			score, reason, ok := scorePair(event, movement)
			if !ok || score < s.reviewThreshold {
				continue
			}
			candidates = append(candidates, domain.MatchCandidate{
				Event:    event,
				Movement: movement,
				Score:    score,
				Reason:   reason,
			})
		}
	}

	// Stable sort keeps insertion order (earliest event first) on ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates, nil
}

// scorePair applies the amount, date and account gates, then scores the
// surviving pair.
func scorePair(event domain.ForecastEvent, movement domain.Movement) (float64, string, bool) {
	if event.AccountID != nil && *event.AccountID != movement.AccountID {
		return 0, "", false
	}

	amountDiff := movement.Amount.Abs().Sub(event.Amount).Abs()
	if amountDiff.GreaterThan(amountGate) {
		return 0, "", false
	}

	dateDiff := daysBetween(event.PredictedDate, movement.OperationDate)
	if dateDiff > dateGateDays {
		return 0, "", false
	}

	score := 0.5
	reasons := []string{
		fmt.Sprintf("amount within %s", amountGate.StringFixed(2)),
		fmt.Sprintf("date within %d days", dateGateDays),
	}

	if amountDiff.LessThanOrEqual(nearExactTolerance) {
		score += 0.3
		reasons = append(reasons, "near-exact amount")
	}
	if dateDiff <= 1 {
		score += 0.2
		reasons = append(reasons, "date within 1 day")
	}

	shared := sharedTokens(event.Description, movementText(movement))
	if shared > 0 {
		bonus := float64(shared) * 0.1
		if bonus > 0.3 {
			bonus = 0.3
		}
		score += bonus
		reasons = append(reasons, fmt.Sprintf("%d shared tokens", shared))
	}

	return score, strings.Join(reasons, "; "), true
}

// Reconcile commits the link between an event and a movement. Calling it on
// an already-executed event or already-reconciled movement fails rather
// than overwriting.
func (s *MatchingService) Reconcile(ctx context.Context, eventID, movementID string) (domain.ForecastEvent, domain.Movement, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return domain.ForecastEvent{}, domain.Movement{}, fmt.Errorf("load forecast event: %w", err)
	}

	movement, err := s.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return domain.ForecastEvent{}, domain.Movement{}, fmt.Errorf("load movement: %w", err)
	}

	if event.Status == domain.ForecastEventStatusExecuted {
		return domain.ForecastEvent{}, domain.Movement{}, domain.ErrAlreadyReconciled
	}
	if movement.ReconciliationState == domain.ReconciliationStateReconciled {
		return domain.ForecastEvent{}, domain.Movement{}, domain.ErrAlreadyReconciled
	}

	previous := movement

	actualDate := movement.OperationDate
	actualAmount := movement.Amount.Abs()
	event.Status = domain.ForecastEventStatusExecuted
	event.MovementID = &movement.ID
	event.ActualDate = &actualDate
	event.ActualAmount = &actualAmount

	savedEvent, err := s.eventRepo.Update(ctx, event)
	if err != nil {
		return domain.ForecastEvent{}, domain.Movement{}, fmt.Errorf("mark event executed: %w", err)
	}

	movement.ReconciliationState = domain.ReconciliationStateReconciled
	movement.Status = domain.MovementStatusProcessed
	movement.DocumentIDs = appendUnique(movement.DocumentIDs, event.SourceID)

	savedMovement, err := s.movementRepo.Update(ctx, movement)
	if err != nil {
		// Roll the event back so a failed commit leaves both sides open.
		savedEvent.Status = domain.ForecastEventStatusPredicted
		savedEvent.MovementID = nil
		savedEvent.ActualDate = nil
		savedEvent.ActualAmount = nil
		if _, revertErr := s.eventRepo.Update(ctx, savedEvent); revertErr != nil {
			logger.Error("matching service failed to revert event after movement update failure", revertErr, logger.Fields{
				"eventId": savedEvent.ID,
			})
		}
		return domain.ForecastEvent{}, domain.Movement{}, fmt.Errorf("mark movement reconciled: %w", err)
	}

	logger.Info("matching service reconciled", logger.Fields{
		"eventId":    savedEvent.ID,
		"movementId": savedMovement.ID,
		"amount":     savedMovement.Amount.String(),
	})

	s.bus.Publish(ctx, eventbus.Event{
		Kind:             eventbus.MovementUpdated,
		AccountID:        savedMovement.AccountID,
		Movement:         &savedMovement,
		PreviousMovement: &previous,
	})

	return savedEvent, savedMovement, nil
}

// AutoReconcile applies Reconcile to candidates at or above the auto-accept
// threshold, leaving the rest for manual review. Returns the counts of
// reconciled pairs and of candidates held for review.
func (s *MatchingService) AutoReconcile(ctx context.Context) (int, int, error) {
	candidates, err := s.FindCandidateMatches(ctx)
	if err != nil {
		return 0, 0, err
	}

	reconciled := 0
	pendingReview := 0
	usedEvents := make(map[string]struct{})
	usedMovements := make(map[string]struct{})

	for _, candidate := range candidates {
		if _, taken := usedEvents[candidate.Event.ID]; taken {
			continue
		}
		if _, taken := usedMovements[candidate.Movement.ID]; taken {
			continue
		}

		if candidate.Score < s.autoAcceptThreshold {
			pendingReview++
			continue
		}

		if _, _, err := s.Reconcile(ctx, candidate.Event.ID, candidate.Movement.ID); err != nil {
			logger.Error("matching service auto-reconcile failed", err, logger.Fields{
				"eventId":    candidate.Event.ID,
				"movementId": candidate.Movement.ID,
			})
			continue
		}

		usedEvents[candidate.Event.ID] = struct{}{}
		usedMovements[candidate.Movement.ID] = struct{}{}
		reconciled++
	}

	return reconciled, pendingReview, nil
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	truncatedA := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	truncatedB := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)

	days := int(truncatedA.Sub(truncatedB).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// sharedTokens counts tokens longer than three characters that appear in
// both texts.
func sharedTokens(a, b string) int {
	tokensA := tokenize(a)
	if len(tokensA) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(tokensA))
	for _, token := range tokensA {
		seen[token] = struct{}{}
	}

	count := 0
	counted := make(map[string]struct{})
	for _, token := range tokenize(b) {
		if _, ok := seen[token]; !ok {
			continue
		}
		if _, dup := counted[token]; dup {
			continue
		}
		counted[token] = struct{}{}
		count++
	}

	return count
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) > 3 {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

func movementText(movement domain.Movement) string {
	if movement.Counterparty != nil {
		return *movement.Counterparty + " " + movement.Description
	}
	return movement.Description
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
