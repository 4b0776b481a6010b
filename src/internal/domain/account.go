package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID             string
	Name           string
	BankName       string
	IBAN           string
	Currency       string
	OpeningBalance decimal.Decimal
	OpeningDate    time.Time
	Balance        decimal.Decimal
	MinimumBalance decimal.Decimal
	IsActive       bool
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
