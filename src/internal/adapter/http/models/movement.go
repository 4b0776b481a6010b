package models

import (
	"time"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type MovementResponse struct {
	ID                  string   `json:"id"`
	AccountID           string   `json:"accountId"`
	OperationDate       string   `json:"operationDate"`
	ValueDate           *string  `json:"valueDate,omitempty"`
	Amount              string   `json:"amount"`
	Description         string   `json:"description"`
	Counterparty        *string  `json:"counterparty,omitempty"`
	Reference           *string  `json:"reference,omitempty"`
	Category            *string  `json:"category,omitempty"`
	Status              string   `json:"status"`
	ReconciliationState string   `json:"reconciliationState"`
	DocumentIDs         []string `json:"documentIds,omitempty"`
	BatchID             *string  `json:"batchId,omitempty"`
	CreatedAt           string   `json:"createdAt"`
}

func MapMovementToResponse(movement domain.Movement) MovementResponse {
	response := MovementResponse{
		ID:                  movement.ID,
		AccountID:           movement.AccountID,
		OperationDate:       movement.OperationDate.Format("2006-01-02"),
		Amount:              movement.Amount.StringFixed(2),
		Description:         movement.Description,
		Counterparty:        movement.Counterparty,
		Reference:           movement.Reference,
		Category:            movement.Category,
		Status:              string(movement.Status),
		ReconciliationState: string(movement.ReconciliationState),
		DocumentIDs:         movement.DocumentIDs,
		BatchID:             movement.BatchID,
		CreatedAt:           movement.CreatedAt.Format(time.RFC3339),
	}
	if movement.ValueDate != nil {
		valueDate := movement.ValueDate.Format("2006-01-02")
		response.ValueDate = &valueDate
	}
	return response
}
