package models

import (
	"strings"
	"time"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type CreateRuleRequest struct {
	Name            string  `json:"name"`
	Pattern         string  `json:"pattern"`
	AccountID       *string `json:"accountId,omitempty"`
	SetCategory     *string `json:"setCategory,omitempty"`
	SetCounterparty *string `json:"setCounterparty,omitempty"`
}

func (r CreateRuleRequest) ToRule() domain.Rule {
	return domain.Rule{
		Name:            strings.TrimSpace(r.Name),
		Pattern:         strings.TrimSpace(r.Pattern),
		AccountID:       r.AccountID,
		SetCategory:     r.SetCategory,
		SetCounterparty: r.SetCounterparty,
	}
}

type DeleteRuleRequest struct {
	ID string `json:"id"`
}

type RuleResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Pattern         string  `json:"pattern"`
	AccountID       *string `json:"accountId,omitempty"`
	SetCategory     *string `json:"setCategory,omitempty"`
	SetCounterparty *string `json:"setCounterparty,omitempty"`
	IsActive        bool    `json:"isActive"`
	CreatedAt       string  `json:"createdAt"`
}

func MapRuleToResponse(rule domain.Rule) RuleResponse {
	return RuleResponse{
		ID:              rule.ID,
		Name:            rule.Name,
		Pattern:         rule.Pattern,
		AccountID:       rule.AccountID,
		SetCategory:     rule.SetCategory,
		SetCounterparty: rule.SetCounterparty,
		IsActive:        rule.IsActive,
		CreatedAt:       rule.CreatedAt.Format(time.RFC3339),
	}
}
