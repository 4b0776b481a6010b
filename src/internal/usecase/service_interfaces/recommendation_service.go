package service_interfaces

import (
	"context"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type RecommendationService interface {
	Regenerate(ctx context.Context) error
	ListActive(ctx context.Context) ([]domain.Recommendation, error)
	Dismiss(ctx context.Context, id string) error
}
