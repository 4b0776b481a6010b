package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/treasury-engine/src/internal/adapter/http/models"
	"github.com/api-sage/treasury-engine/src/internal/commons"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/logger"
)

type ImportService interface {
	Import(ctx context.Context, req models.ImportStatementRequest) (commons.Response[models.ImportResponse], error)
	ListBatches(ctx context.Context) ([]domain.ImportBatch, error)
}

type ImportController struct {
	service ImportService
}

func NewImportController(service ImportService) *ImportController {
	return &ImportController{service: service}
}

func (c *ImportController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	importHandler := http.HandlerFunc(c.importStatement)
	batchesHandler := http.HandlerFunc(c.listBatches)
	if authMiddleware != nil {
		importHandler = authMiddleware(importHandler).ServeHTTP
		batchesHandler = authMiddleware(batchesHandler).ServeHTTP
	}
	mux.Handle("/import-statement", http.HandlerFunc(importHandler))
	mux.Handle("/import-batches", http.HandlerFunc(batchesHandler))
}

func (c *ImportController) importStatement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.ImportResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.ImportStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ImportResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Import(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		if response.Message == "validation failed" || response.Message == "File produced no rows" || response.Message == "failed to parse statement" {
			status = http.StatusBadRequest
		}
		if response.Message == "Account not found or inactive" {
			status = http.StatusNotFound
		}
		if response.Message == "File was already imported" {
			status = http.StatusConflict
		}
		if response.Message == "Unsupported file format" {
			status = http.StatusUnsupportedMediaType
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *ImportController) listBatches(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.ImportBatchResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	batches, err := c.service.ListBatches(r.Context())
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[[]models.ImportBatchResponse]("failed to list import batches", "Unable to list batches right now")
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	responses := make([]models.ImportBatchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, models.MapImportBatchToResponse(batch))
	}

	response := commons.SuccessResponse("Import batches found", responses)
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
