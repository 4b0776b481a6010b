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

type RuleService interface {
	CreateRule(ctx context.Context, rule domain.Rule) (domain.Rule, error)
	ListRules(ctx context.Context) ([]domain.Rule, error)
	DeleteRule(ctx context.Context, id string) error
}

type RuleController struct {
	service RuleService
}

func NewRuleController(service RuleService) *RuleController {
	return &RuleController{service: service}
}

func (c *RuleController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	rulesHandler := http.HandlerFunc(c.rules)
	deleteHandler := http.HandlerFunc(c.deleteRule)
	if authMiddleware != nil {
		rulesHandler = authMiddleware(rulesHandler).ServeHTTP
		deleteHandler = authMiddleware(deleteHandler).ServeHTTP
	}
	mux.Handle("/rules", http.HandlerFunc(rulesHandler))
	mux.Handle("/delete-rule", http.HandlerFunc(deleteHandler))
}

func (c *RuleController) rules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.createRule(w, r)
	case http.MethodGet:
		c.listRules(w, r)
	default:
		response := commons.ErrorResponse[models.RuleResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
	}
}

func (c *RuleController) createRule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	var req models.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.RuleResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	rule, err := c.service.CreateRule(r.Context(), req.ToRule())
	if err != nil {
		logError(r, err, nil)
		status := http.StatusInternalServerError
		message := "failed to create rule"
		switch {
		case domain.IsValidationError(err):
			status = http.StatusBadRequest
			message = "validation failed"
		case errors.Is(err, domain.ErrInvalidAccount):
			status = http.StatusNotFound
			message = "Account not found"
		}
		response := commons.ErrorResponse[models.RuleResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Rule created", models.MapRuleToResponse(rule))
	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *RuleController) listRules(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	rules, err := c.service.ListRules(r.Context())
	if err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[[]models.RuleResponse]("failed to list rules", "Unable to list rules right now")
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	responses := make([]models.RuleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, models.MapRuleToResponse(rule))
	}

	response := commons.SuccessResponse("Rules found", responses)
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *RuleController) deleteRule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.RuleResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.DeleteRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.RuleResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := c.service.DeleteRule(r.Context(), req.ID); err != nil {
		logError(r, err, nil)
		status := http.StatusInternalServerError
		message := "failed to delete rule"
		switch {
		case domain.IsValidationError(err):
			status = http.StatusBadRequest
			message = "validation failed"
		case errors.Is(err, domain.ErrRecordNotFound):
			status = http.StatusNotFound
			message = "Rule not found"
		}
		response := commons.ErrorResponse[models.RuleResponse](message, err.Error())
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse("Rule deleted", models.RuleResponse{ID: req.ID})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
