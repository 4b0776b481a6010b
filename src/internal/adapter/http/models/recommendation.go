package models

import (
	"time"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type DismissRecommendationRequest struct {
	ID string `json:"id"`
}

type RecommendationResponse struct {
	ID              string  `json:"id"`
	Severity        string  `json:"severity"`
	Type            string  `json:"type"`
	SourceAccountID *string `json:"sourceAccountId,omitempty"`
	TargetAccountID string  `json:"targetAccountId"`
	Amount          string  `json:"amount"`
	SuggestedDate   string  `json:"suggestedDate"`
	Description     string  `json:"description"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt"`
}

func MapRecommendationToResponse(recommendation domain.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		ID:              recommendation.ID,
		Severity:        string(recommendation.Severity),
		Type:            string(recommendation.Type),
		SourceAccountID: recommendation.SourceAccountID,
		TargetAccountID: recommendation.TargetAccountID,
		Amount:          recommendation.Amount.StringFixed(2),
		SuggestedDate:   recommendation.SuggestedDate.Format("2006-01-02"),
		Description:     recommendation.Description,
		Status:          string(recommendation.Status),
		CreatedAt:       recommendation.CreatedAt.Format(time.RFC3339),
	}
}
