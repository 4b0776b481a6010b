package domain

// MatchCandidate pairs a predicted forecast event with an unreconciled
// movement that passed all matching gates, scored by similarity.
type MatchCandidate struct {
	Event    ForecastEvent
	Movement Movement
	Score    float64
	Reason   string
}
