package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ForecastEventRepository interface {
	Create(ctx context.Context, event domain.ForecastEvent) (domain.ForecastEvent, error)
	GetByID(ctx context.Context, id string) (domain.ForecastEvent, error)
	ListBySource(ctx context.Context, sourceID string) ([]domain.ForecastEvent, error)
	// ListPredicted returns PREDICTED events in creation order.
	ListPredicted(ctx context.Context) ([]domain.ForecastEvent, error)
	ListPredictedWithin(ctx context.Context, from, to time.Time) ([]domain.ForecastEvent, error)
	Update(ctx context.Context, event domain.ForecastEvent) (domain.ForecastEvent, error)
}
