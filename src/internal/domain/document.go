package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentFinancials is the structured output of document classification,
// fed into the forecast factory. Capital-expenditure documents affect asset
// value rather than cash flow and never produce a forecast event.
type DocumentFinancials struct {
	DocumentID           string
	Kind                 ForecastEventType
	CapitalExpenditure   bool
	Amount               decimal.Decimal
	PredictedPaymentDate *time.Time
	DueDate              *time.Time
	InvoiceNumber        *string
	Supplier             *string
	PaymentMethod        *string
	IBAN                 *string
}
