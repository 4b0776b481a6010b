package services

import (
	"context"
	"fmt"

	"github.com/api-sage/treasury-engine/src/internal/eventbus"
	"github.com/api-sage/treasury-engine/src/internal/logger"
	"github.com/api-sage/treasury-engine/src/internal/usecase/service_interfaces"
)

// NewRecalculationCascade builds the always-present bus subscriber: balance
// recalculation first (load-bearing, its failure is returned), then the
// recommendation rebuild (best-effort, logged and swallowed). Projections
// carry no cached state; they recompute from the store on every read, so
// publishing the balance is all the invalidation they need.
func NewRecalculationCascade(
	balance service_interfaces.BalanceService,
	recommendations service_interfaces.RecommendationService,
) eventbus.CascadeHandler {
	return func(ctx context.Context, event eventbus.Event) error {
		// A deleted account publishes AccountChanged with no entity; there
		// is nothing left to recalculate for it.
		deleted := event.Kind == eventbus.AccountChanged && event.Account == nil
		if event.AccountID != "" && !deleted {
			if _, err := balance.Recalculate(ctx, event.AccountID); err != nil {
				return fmt.Errorf("cascade balance recalculation: %w", err)
			}
		}

		if err := recommendations.Regenerate(ctx); err != nil {
			logger.Error("cascade recommendation regeneration failed", err, logger.Fields{
				"kind":      string(event.Kind),
				"accountId": event.AccountID,
			})
		}

		return nil
	}
}
