package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/api-sage/treasury-engine/src/internal/adapter/http/models"
	"github.com/api-sage/treasury-engine/src/internal/commons"
	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ProjectionService interface {
	GetProjections(ctx context.Context, days int, accountIDs []string) (domain.Projection, error)
}

type ProjectionController struct {
	service     ProjectionService
	defaultDays int
}

func NewProjectionController(service ProjectionService, defaultDays int) *ProjectionController {
	return &ProjectionController{
		service:     service,
		defaultDays: defaultDays,
	}
}

func (c *ProjectionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.HandlerFunc(c.projections)
	if authMiddleware != nil {
		handler = authMiddleware(handler).ServeHTTP
	}
	mux.Handle("/projections", http.HandlerFunc(handler))
}

func (c *ProjectionController) projections(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.ProjectionResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	days := c.defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response := commons.ErrorResponse[models.ProjectionResponse]("validation failed", "days must be an integer")
			writeJSON(w, http.StatusBadRequest, response)
			logResponse(r, http.StatusBadRequest, response, start)
			return
		}
		days = parsed
	}

	var accountIDs []string
	if raw := r.URL.Query().Get("accountIds"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				accountIDs = append(accountIDs, trimmed)
			}
		}
	}

	projection, err := c.service.GetProjections(r.Context(), days, accountIDs)
	if err != nil {
		logError(r, err, nil)
		status := http.StatusInternalServerError
		message := "failed to build projections"
		if domain.IsValidationError(err) {
			status = http.StatusBadRequest
			message = "validation failed"
		}
		response := commons.ErrorResponse[models.ProjectionResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Projections built", models.MapProjectionToResponse(projection))
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
