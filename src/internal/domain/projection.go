package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountProjection is an account's balance pushed to a future horizon by
// applying the net of its predicted forecast events.
type AccountProjection struct {
	AccountID        string
	Name             string
	CurrentBalance   decimal.Decimal
	ProjectedBalance decimal.Decimal
	MinimumBalance   decimal.Decimal
	BelowMinimum     bool
}

// Projection is the horizon view served to dashboards: the contributing
// events, per-account balances and the aggregate flows. Events without a
// resolved account contribute to the totals but to no account balance.
type Projection struct {
	Days         int
	From         time.Time
	To           time.Time
	Events       []ForecastEvent
	Accounts     []AccountProjection
	TotalInflow  decimal.Decimal
	TotalOutflow decimal.Decimal
	NetFlow      decimal.Decimal
}
