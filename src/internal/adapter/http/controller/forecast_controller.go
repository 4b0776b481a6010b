package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/treasury-engine/src/internal/adapter/http/models"
	"github.com/api-sage/treasury-engine/src/internal/commons"
	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ForecastService interface {
	CreateFromDocument(ctx context.Context, doc domain.DocumentFinancials) (*domain.ForecastEvent, error)
	UpdateFromDocument(ctx context.Context, doc domain.DocumentFinancials) (*domain.ForecastEvent, error)
}

type ForecastController struct {
	service ForecastService
}

func NewForecastController(service ForecastService) *ForecastController {
	return &ForecastController{service: service}
}

func (c *ForecastController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	confirmHandler := http.HandlerFunc(c.confirmDocument)
	reviseHandler := http.HandlerFunc(c.reviseDocument)
	if authMiddleware != nil {
		confirmHandler = authMiddleware(confirmHandler).ServeHTTP
		reviseHandler = authMiddleware(reviseHandler).ServeHTTP
	}
	mux.Handle("/confirm-document", http.HandlerFunc(confirmHandler))
	mux.Handle("/revise-document", http.HandlerFunc(reviseHandler))
}

func (c *ForecastController) confirmDocument(w http.ResponseWriter, r *http.Request) {
	c.handleDocument(w, r, c.service.CreateFromDocument, "Forecast event created")
}

func (c *ForecastController) reviseDocument(w http.ResponseWriter, r *http.Request) {
	c.handleDocument(w, r, c.service.UpdateFromDocument, "Forecast event updated")
}

func (c *ForecastController) handleDocument(
	w http.ResponseWriter,
	r *http.Request,
	apply func(context.Context, domain.DocumentFinancials) (*domain.ForecastEvent, error),
	successMessage string,
) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.ForecastEventResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.ForecastDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ForecastEventResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ForecastEventResponse]("validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	event, err := apply(r.Context(), req.ToDocumentFinancials())
	if err != nil {
		logError(r, err, nil)
		status := http.StatusInternalServerError
		message := "failed to process document"
		if domain.IsValidationError(err) {
			status = http.StatusBadRequest
			message = "validation failed"
		}
		response := commons.ErrorResponse[models.ForecastEventResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	if event == nil {
		response := commons.SuccessResponse("Document does not affect cash flow", models.ForecastEventResponse{})
		writeJSON(w, http.StatusOK, response)
		logResponse(r, http.StatusOK, response, start)
		return
	}

	response := commons.SuccessResponse(successMessage, models.MapForecastEventToResponse(*event))
	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}
