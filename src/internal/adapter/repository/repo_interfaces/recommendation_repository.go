package repo_interfaces

import (
	"context"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type RecommendationRepository interface {
	// ReplaceActive discards every ACTIVE recommendation and stores the new
	// set in one step, making the full-replace semantics structural.
	ReplaceActive(ctx context.Context, recommendations []domain.Recommendation) error
	ListActive(ctx context.Context) ([]domain.Recommendation, error)
	Dismiss(ctx context.Context, id string) error
}
