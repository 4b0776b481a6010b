package service_interfaces

import (
	"context"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ProjectionService interface {
	GetProjections(ctx context.Context, days int, accountIDs []string) (domain.Projection, error)
}
