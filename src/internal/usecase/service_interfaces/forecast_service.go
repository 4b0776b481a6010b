package service_interfaces

import (
	"context"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ForecastService interface {
	CreateFromDocument(ctx context.Context, doc domain.DocumentFinancials) (*domain.ForecastEvent, error)
	UpdateFromDocument(ctx context.Context, doc domain.DocumentFinancials) (*domain.ForecastEvent, error)
}
