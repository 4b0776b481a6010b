package service_interfaces

import (
	"context"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type MatchingService interface {
	FindCandidateMatches(ctx context.Context) ([]domain.MatchCandidate, error)
	Reconcile(ctx context.Context, eventID, movementID string) (domain.ForecastEvent, domain.Movement, error)
	AutoReconcile(ctx context.Context) (reconciled int, pendingReview int, err error)
}
