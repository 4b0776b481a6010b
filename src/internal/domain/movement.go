package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementStatus string

const (
	MovementStatusPending   MovementStatus = "PENDING"
	MovementStatusProcessed MovementStatus = "PROCESSED"
)

type ReconciliationState string

const (
	ReconciliationStateUnreconciled ReconciliationState = "UNRECONCILED"
	ReconciliationStateReconciled   ReconciliationState = "RECONCILED"
)

// Movement is one ledger line. Immutable once created, except for the
// reconciliation-state transition and document attachment.
type Movement struct {
	ID                  string
	AccountID           string
	OperationDate       time.Time
	ValueDate           *time.Time
	Amount              decimal.Decimal
	Description         string
	Counterparty        *string
	Reference           *string
	Category            *string
	BalanceSnapshot     *decimal.Decimal
	Status              MovementStatus
	ReconciliationState ReconciliationState
	DocumentIDs         []string
	BatchID             *string
	RowIndex            int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EffectiveDate is the date used when replaying the ledger: value date when
// the bank provided one, operation date otherwise.
func (m Movement) EffectiveDate() time.Time {
	if m.ValueDate != nil {
		return *m.ValueDate
	}
	return m.OperationDate
}
