package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/api-sage/treasury-engine/src/internal/adapter/http/models"
	"github.com/api-sage/treasury-engine/src/internal/commons"
	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type RecommendationService interface {
	Regenerate(ctx context.Context) error
	ListActive(ctx context.Context) ([]domain.Recommendation, error)
	Dismiss(ctx context.Context, id string) error
}

type RecommendationController struct {
	service RecommendationService
}

func NewRecommendationController(service RecommendationService) *RecommendationController {
	return &RecommendationController{service: service}
}

func (c *RecommendationController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	listHandler := http.HandlerFunc(c.listActive)
	regenerateHandler := http.HandlerFunc(c.regenerate)
	dismissHandler := http.HandlerFunc(c.dismiss)
	if authMiddleware != nil {
		listHandler = authMiddleware(listHandler).ServeHTTP
		regenerateHandler = authMiddleware(regenerateHandler).ServeHTTP
		dismissHandler = authMiddleware(dismissHandler).ServeHTTP
	}
	mux.Handle("/recommendations", http.HandlerFunc(listHandler))
	mux.Handle("/regenerate-recommendations", http.HandlerFunc(regenerateHandler))
	mux.Handle("/dismiss-recommendation", http.HandlerFunc(dismissHandler))
}

func (c *RecommendationController) listActive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.RecommendationResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	recommendations, err := c.service.ListActive(r.Context())
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[[]models.RecommendationResponse]("failed to list recommendations", "Unable to list recommendations right now")
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	responses := make([]models.RecommendationResponse, 0, len(recommendations))
	for _, recommendation := range recommendations {
		responses = append(responses, models.MapRecommendationToResponse(recommendation))
	}

	response := commons.SuccessResponse("Recommendations found", responses)
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *RecommendationController) regenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[[]models.RecommendationResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	if err := c.service.Regenerate(r.Context()); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[[]models.RecommendationResponse]("failed to regenerate recommendations", "Unable to regenerate right now")
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	recommendations, err := c.service.ListActive(r.Context())
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[[]models.RecommendationResponse]("failed to list recommendations", "Unable to list recommendations right now")
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	responses := make([]models.RecommendationResponse, 0, len(recommendations))
	for _, recommendation := range recommendations {
		responses = append(responses, models.MapRecommendationToResponse(recommendation))
	}

	response := commons.SuccessResponse("Recommendations regenerated", responses)
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *RecommendationController) dismiss(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.RecommendationResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.DismissRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.RecommendationResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if strings.TrimSpace(req.ID) == "" {
		response := commons.ErrorResponse[models.RecommendationResponse]("validation failed", "id is required")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	if err := c.service.Dismiss(r.Context(), req.ID); err != nil {
		logError(r, err, nil)
		status := http.StatusInternalServerError
		message := "failed to dismiss recommendation"
		if errors.Is(err, domain.ErrRecordNotFound) {
			status = http.StatusNotFound
			message = "Recommendation not found"
		}
		response := commons.ErrorResponse[models.RecommendationResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Recommendation dismissed", models.RecommendationResponse{ID: req.ID, Status: string(domain.RecommendationStatusDismissed)})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
