package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/api-sage/treasury-engine/src/internal/adapter/http/models"
	"github.com/api-sage/treasury-engine/src/internal/commons"
	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type MatchingService interface {
	FindCandidateMatches(ctx context.Context) ([]domain.MatchCandidate, error)
	Reconcile(ctx context.Context, eventID, movementID string) (domain.ForecastEvent, domain.Movement, error)
	AutoReconcile(ctx context.Context) (reconciled int, pendingReview int, err error)
}

type MatchingController struct {
	service MatchingService
}

func NewMatchingController(service MatchingService) *MatchingController {
	return &MatchingController{service: service}
}

func (c *MatchingController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	candidatesHandler := http.HandlerFunc(c.candidates)
	reconcileHandler := http.HandlerFunc(c.reconcile)
	autoHandler := http.HandlerFunc(c.autoReconcile)
	if authMiddleware != nil {
		candidatesHandler = authMiddleware(candidatesHandler).ServeHTTP
		reconcileHandler = authMiddleware(reconcileHandler).ServeHTTP
		autoHandler = authMiddleware(autoHandler).ServeHTTP
	}
	mux.Handle("/match-candidates", http.HandlerFunc(candidatesHandler))
	mux.Handle("/reconcile", http.HandlerFunc(reconcileHandler))
	mux.Handle("/auto-reconcile", http.HandlerFunc(autoHandler))
}

func (c *MatchingController) candidates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.MatchCandidateResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	candidates, err := c.service.FindCandidateMatches(r.Context())
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[[]models.MatchCandidateResponse]("failed to find match candidates", "Unable to match right now")
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	responses := make([]models.MatchCandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		responses = append(responses, models.MapMatchCandidateToResponse(candidate))
	}

	response := commons.SuccessResponse("Match candidates found", responses)
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *MatchingController) reconcile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.ReconcileResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ReconcileResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ReconcileResponse]("validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	event, movement, err := c.service.Reconcile(r.Context(), req.EventID, req.MovementID)
	if err != nil {
		logError(r, err, nil)
		status := http.StatusInternalServerError
		message := "failed to reconcile"
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			status = http.StatusNotFound
			message = "Event or movement not found"
		case errors.Is(err, domain.ErrAlreadyReconciled):
			status = http.StatusConflict
			message = "Already reconciled"
		case domain.IsValidationError(err):
			status = http.StatusBadRequest
			message = "validation failed"
		}
		response := commons.ErrorResponse[models.ReconcileResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Reconciled", models.ReconcileResponse{
		Event:    models.MapForecastEventToResponse(event),
		Movement: models.MapMovementToResponse(movement),
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *MatchingController) autoReconcile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.AutoReconcileResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	reconciled, pendingReview, err := c.service.AutoReconcile(r.Context())
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AutoReconcileResponse]("failed to auto-reconcile", "Unable to reconcile right now")
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	response := commons.SuccessResponse("Auto-reconciliation finished", models.AutoReconcileResponse{
		Reconciled:    reconciled,
		PendingReview: pendingReview,
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
