package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ForecastEventType string

const (
	ForecastEventTypeIncome  ForecastEventType = "INCOME"
	ForecastEventTypeExpense ForecastEventType = "EXPENSE"
)

type ForecastEventStatus string

const (
	ForecastEventStatusPredicted ForecastEventStatus = "PREDICTED"
	ForecastEventStatusExecuted  ForecastEventStatus = "EXECUTED"
)

// ForecastEvent is a predicted future cash movement derived from a source
// document. Amount is always a positive magnitude; Type carries direction.
// Events are never deleted, only transitioned to EXECUTED.
type ForecastEvent struct {
	ID            string
	SourceID      string
	Type          ForecastEventType
	Amount        decimal.Decimal
	PredictedDate time.Time
	Description   string
	AccountID     *string
	PaymentMethod *string
	Status        ForecastEventStatus
	MovementID    *string
	ActualDate    *time.Time
	ActualAmount  *decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SignedAmount is the cash-flow impact of the event: positive for income,
// negative for expenses.
func (e ForecastEvent) SignedAmount() decimal.Decimal {
	if e.Type == ForecastEventTypeExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}
