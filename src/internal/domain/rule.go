package domain

import "time"

// Rule is an automation rule applied to movements as they are imported:
// when the movement description contains Pattern (case-insensitive), the
// rule's category and counterparty are stamped onto the movement. Rules
// live in the same store as the ledger so they share its lifecycle.
type Rule struct {
	ID              string
	Name            string
	Pattern         string
	AccountID       *string
	SetCategory     *string
	SetCounterparty *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
