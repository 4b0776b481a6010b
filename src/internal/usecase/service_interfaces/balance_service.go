package service_interfaces

import (
	"context"

	"github.com/shopspring/decimal"
)

type BalanceService interface {
	Recalculate(ctx context.Context, accountID string) (decimal.Decimal, error)
}
