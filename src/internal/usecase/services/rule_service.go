package services

import (
	"context"
	"strings"

	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/treasury-engine/src/internal/domain"
)

// RuleService manages the automation rules applied during imports. Rules
// live in the ledger store so they share its lifecycle and cascade deletes.
type RuleService struct {
	ruleRepo    repo_interfaces.RuleRepository
	accountRepo repo_interfaces.AccountRepository
}

func NewRuleService(
	ruleRepo repo_interfaces.RuleRepository,
	accountRepo repo_interfaces.AccountRepository,
) *RuleService {
	return &RuleService{
		ruleRepo:    ruleRepo,
		accountRepo: accountRepo,
	}
}

func (s *RuleService) CreateRule(ctx context.Context, rule domain.Rule) (domain.Rule, error) {
	var reasons []string
	if strings.TrimSpace(rule.Name) == "" {
		reasons = append(reasons, "name is required")
	}
	if strings.TrimSpace(rule.Pattern) == "" {
		reasons = append(reasons, "pattern is required")
	}
	if rule.SetCategory == nil && rule.SetCounterparty == nil {
		reasons = append(reasons, "rule must set a category or a counterparty")
	}
	if len(reasons) > 0 {
		return domain.Rule{}, domain.NewValidationError(reasons...)
	}

	if rule.AccountID != nil {
		if _, err := s.accountRepo.GetByID(ctx, *rule.AccountID); err != nil {
			return domain.Rule{}, domain.ErrInvalidAccount
		}
	}

	rule.IsActive = true
	return s.ruleRepo.Create(ctx, rule)
}

func (s *RuleService) ListRules(ctx context.Context) ([]domain.Rule, error) {
	return s.ruleRepo.ListActive(ctx)
}

func (s *RuleService) DeleteRule(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("rule id is required")
	}
	return s.ruleRepo.Delete(ctx, id)
}
