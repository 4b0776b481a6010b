package models

import (
	"errors"
	"strings"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ReconcileRequest struct {
	EventID    string `json:"eventId"`
	MovementID string `json:"movementId"`
}

func (r ReconcileRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.EventID) == "" {
		errs = append(errs, "eventId is required")
	}
	if strings.TrimSpace(r.MovementID) == "" {
		errs = append(errs, "movementId is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type MatchCandidateResponse struct {
	Event    ForecastEventResponse `json:"event"`
	Movement MovementResponse      `json:"movement"`
	Score    float64               `json:"score"`
	Reason   string                `json:"reason"`
}

func MapMatchCandidateToResponse(candidate domain.MatchCandidate) MatchCandidateResponse {
	return MatchCandidateResponse{
		Event:    MapForecastEventToResponse(candidate.Event),
		Movement: MapMovementToResponse(candidate.Movement),
		Score:    candidate.Score,
		Reason:   candidate.Reason,
	}
}

type ReconcileResponse struct {
	Event    ForecastEventResponse `json:"event"`
	Movement MovementResponse      `json:"movement"`
}

type AutoReconcileResponse struct {
	Reconciled    int `json:"reconciled"`
	PendingReview int `json:"pendingReview"`
}
