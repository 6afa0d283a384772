package models

import "time"

// EVResult is one evaluated comparison price against the reference fair
// probability. Recomputed every cycle; a view over current market state,
// not a durable entity.
type EVResult struct {
	Sport       string     `json:"sport"`
	EventKey    string     `json:"event_key"`
	HomeTeam    string     `json:"home_team"` // reference-source display names
	AwayTeam    string     `json:"away_team"`
	MarketType  MarketType `json:"market_type"`
	Period      Period     `json:"period"`
	Side        Side       `json:"side"`
	Line        *float64   `json:"line,omitempty"`

	FairProbability   float64 `json:"fair_probability"`
	ComparisonPrice   int     `json:"comparison_price"` // American
	ComparisonDecimal float64 `json:"comparison_decimal"`
	EVPercent         float64 `json:"ev_percent"`

	// Suspect marks EV outside the plausible band (likely a matching or
	// stale-data error). Callers decide whether to display or suppress;
	// the engine never drops these silently.
	Suspect bool `json:"suspect"`

	Description string    `json:"description"` // e.g. "ML - Boston Celtics", "Over 210.5"
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// EVAlert is an EVResult that cleared the alert filter and was assigned an
// identity for dedup, persistence, and broadcast.
type EVAlert struct {
	ID string `json:"id"` // uuid
	EVResult

	DataAgeSeconds int       `json:"data_age_seconds"`
	EmittedAt      time.Time `json:"emitted_at"`
}
