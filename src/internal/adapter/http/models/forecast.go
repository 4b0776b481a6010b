package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

// ForecastDocumentRequest carries the financial read of a classified
// document. Dates travel as YYYY-MM-DD strings.
type ForecastDocumentRequest struct {
	DocumentID           string  `json:"documentId"`
	Kind                 string  `json:"kind"`
	CapitalExpenditure   bool    `json:"capitalExpenditure"`
	Amount               string  `json:"amount"`
	PredictedPaymentDate *string `json:"predictedPaymentDate,omitempty"`
	DueDate              *string `json:"dueDate,omitempty"`
	InvoiceNumber        *string `json:"invoiceNumber,omitempty"`
	Supplier             *string `json:"supplier,omitempty"`
	PaymentMethod        *string `json:"paymentMethod,omitempty"`
	IBAN                 *string `json:"iban,omitempty"`
}

func (r ForecastDocumentRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.DocumentID) == "" {
		errs = append(errs, "documentId is required")
	}

	kind := domain.ForecastEventType(strings.ToUpper(strings.TrimSpace(r.Kind)))
	if kind != domain.ForecastEventTypeIncome && kind != domain.ForecastEventTypeExpense {
		errs = append(errs, "kind must be INCOME or EXPENSE")
	}

	if strings.TrimSpace(r.Amount) == "" {
		errs = append(errs, "amount is required")
	} else if _, err := decimal.NewFromString(strings.TrimSpace(r.Amount)); err != nil {
		errs = append(errs, "amount must be numeric")
	}

	for _, date := range []*string{r.PredictedPaymentDate, r.DueDate} {
		if date == nil {
			continue
		}
		if _, err := time.Parse("2006-01-02", strings.TrimSpace(*date)); err != nil {
			errs = append(errs, "dates must be formatted as YYYY-MM-DD")
			break
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (r ForecastDocumentRequest) ToDocumentFinancials() domain.DocumentFinancials {
	amount, _ := decimal.NewFromString(strings.TrimSpace(r.Amount))
	doc := domain.DocumentFinancials{
		DocumentID:         strings.TrimSpace(r.DocumentID),
		Kind:               domain.ForecastEventType(strings.ToUpper(strings.TrimSpace(r.Kind))),
		CapitalExpenditure: r.CapitalExpenditure,
		Amount:             amount,
		InvoiceNumber:      r.InvoiceNumber,
		Supplier:           r.Supplier,
		PaymentMethod:      r.PaymentMethod,
		IBAN:               r.IBAN,
	}
	if r.PredictedPaymentDate != nil {
		if parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*r.PredictedPaymentDate)); err == nil {
			doc.PredictedPaymentDate = &parsed
		}
	}
	if r.DueDate != nil {
		if parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*r.DueDate)); err == nil {
			doc.DueDate = &parsed
		}
	}
	return doc
}

type ForecastEventResponse struct {
	ID            string  `json:"id"`
	SourceID      string  `json:"sourceId"`
	Type          string  `json:"type"`
	Amount        string  `json:"amount"`
	PredictedDate string  `json:"predictedDate"`
	Description   string  `json:"description"`
	AccountID     *string `json:"accountId,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	Status        string  `json:"status"`
	MovementID    *string `json:"movementId,omitempty"`
	ActualDate    *string `json:"actualDate,omitempty"`
	ActualAmount  *string `json:"actualAmount,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

func MapForecastEventToResponse(event domain.ForecastEvent) ForecastEventResponse {
	response := ForecastEventResponse{
		ID:            event.ID,
		SourceID:      event.SourceID,
		Type:          string(event.Type),
		Amount:        event.Amount.StringFixed(2),
		PredictedDate: event.PredictedDate.Format("2006-01-02"),
		Description:   event.Description,
		AccountID:     event.AccountID,
		PaymentMethod: event.PaymentMethod,
		Status:        string(event.Status),
		MovementID:    event.MovementID,
		CreatedAt:     event.CreatedAt.Format(time.RFC3339),
	}
	if event.ActualDate != nil {
		actualDate := event.ActualDate.Format("2006-01-02")
		response.ActualDate = &actualDate
	}
	if event.ActualAmount != nil {
		actualAmount := event.ActualAmount.StringFixed(2)
		response.ActualAmount = &actualAmount
	}
	return response
}
