package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecommendationSeverity string

const (
	RecommendationSeverityInfo     RecommendationSeverity = "INFO"
	RecommendationSeverityWarning  RecommendationSeverity = "WARNING"
	RecommendationSeverityCritical RecommendationSeverity = "CRITICAL"
)

type RecommendationType string

const (
	RecommendationTypeTransfer RecommendationType = "TRANSFER"
	RecommendationTypeAlert    RecommendationType = "ALERT"
)

type RecommendationStatus string

const (
	RecommendationStatusActive    RecommendationStatus = "ACTIVE"
	RecommendationStatusDismissed RecommendationStatus = "DISMISSED"
)

// Recommendation is a derived, ephemeral suggestion. The active set is
// replaced wholesale on every regeneration; ids do not survive across runs.
type Recommendation struct {
	ID              string
	Severity        RecommendationSeverity
	Type            RecommendationType
	SourceAccountID *string
	TargetAccountID string
	Amount          decimal.Decimal
	SuggestedDate   time.Time
	Description     string
	Status          RecommendationStatus
	CreatedAt       time.Time
}
