package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/logger"
	"github.com/api-sage/treasury-engine/src/internal/usecase/service_interfaces"
)

// RecommendationService scans projected balances against configured
// minimums and proposes inter-account sweeps. Regenerate has full-replace
// semantics: every run discards the previous active set.
type RecommendationService struct {
	recommendationRepo repo_interfaces.RecommendationRepository
	projections        service_interfaces.ProjectionService
	horizonDays        int
	roundingUnit       decimal.Decimal
	now                func() time.Time
}

func NewRecommendationService(
	recommendationRepo repo_interfaces.RecommendationRepository,
	projections service_interfaces.ProjectionService,
	horizonDays int,
	roundingUnit int64,
) *RecommendationService {
	if roundingUnit <= 0 {
		roundingUnit = 100
	}
	return &RecommendationService{
		recommendationRepo: recommendationRepo,
		projections:        projections,
		horizonDays:        horizonDays,
		roundingUnit:       decimal.NewFromInt(roundingUnit),
		now:                func() time.Time { return time.Now().UTC() },
	}
}

func (s *RecommendationService) Regenerate(ctx context.Context) error {
	projection, err := s.projections.GetProjections(ctx, s.horizonDays, nil)
	if err != nil {
		return fmt.Errorf("compute projections for recommendations: %w", err)
	}

	var recommendations []domain.Recommendation
	for _, target := range projection.Accounts {
		if !target.ProjectedBalance.LessThan(target.MinimumBalance) {
			continue
		}

		deficit := target.MinimumBalance.Sub(target.ProjectedBalance)
		suggested := s.roundUp(deficit)

		severity := domain.RecommendationSeverityWarning
		if target.ProjectedBalance.IsNegative() {
			severity = domain.RecommendationSeverityCritical
		}

		source, found := bestSource(projection.Accounts, target.AccountID, suggested)
		if !found {
			// No account can fund the sweep: raise a network-wide liquidity
			// alert instead of staying silent.
			recommendations = append(recommendations, domain.Recommendation{
				Severity:        domain.RecommendationSeverityCritical,
				Type:            domain.RecommendationTypeAlert,
				TargetAccountID: target.AccountID,
				Amount:          suggested,
				SuggestedDate:   s.now(),
				Description: fmt.Sprintf(
					"%s is projected %s below its minimum and no other account can cover a %s transfer",
					target.Name,
					displayEUR(deficit),
					displayEUR(suggested),
				),
			})
			continue
		}

		sourceID := source.AccountID
		recommendations = append(recommendations, domain.Recommendation{
			Severity:        severity,
			Type:            domain.RecommendationTypeTransfer,
			SourceAccountID: &sourceID,
			TargetAccountID: target.AccountID,
			Amount:          suggested,
			SuggestedDate:   s.now(),
			Description: fmt.Sprintf(
				"Transfer %s from %s to %s to keep it above its %s minimum",
				displayEUR(suggested),
				source.Name,
				target.Name,
				displayEUR(target.MinimumBalance),
			),
		})
	}

	if err := s.recommendationRepo.ReplaceActive(ctx, recommendations); err != nil {
		return fmt.Errorf("replace active recommendations: %w", err)
	}

	logger.Info("recommendation service regenerated", logger.Fields{
		"count":       len(recommendations),
		"horizonDays": s.horizonDays,
	})

	return nil
}

func (s *RecommendationService) ListActive(ctx context.Context) ([]domain.Recommendation, error) {
	return s.recommendationRepo.ListActive(ctx)
}

func (s *RecommendationService) Dismiss(ctx context.Context, id string) error {
	return s.recommendationRepo.Dismiss(ctx, id)
}

// roundUp rounds the deficit up to the nearest rounding unit.
func (s *RecommendationService) roundUp(deficit decimal.Decimal) decimal.Decimal {
	return deficit.Div(s.roundingUnit).Ceil().Mul(s.roundingUnit)
}

// bestSource picks the other account with the highest projected balance,
// and only if that balance strictly exceeds the suggested amount.
func bestSource(accounts []domain.AccountProjection, targetID string, suggested decimal.Decimal) (domain.AccountProjection, bool) {
	var best domain.AccountProjection
	found := false

	for _, account := range accounts {
		if account.AccountID == targetID {
			continue
		}
		if !found || account.ProjectedBalance.GreaterThan(best.ProjectedBalance) {
			best = account
			found = true
		}
	}

	if !found || !best.ProjectedBalance.GreaterThan(suggested) {
		return domain.AccountProjection{}, false
	}

	return best, true
}

func displayEUR(amount decimal.Decimal) string {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, money.EUR).Display()
}
