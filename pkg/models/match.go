package models

// MatchedMarket pairs one reference market with the comparison quotes that
// line up with it. Lines are stored home-side for spreads.
type MatchedMarket struct {
	MarketType MarketType `json:"market_type"`
	Period     Period     `json:"period"`
	RefLine    *float64   `json:"ref_line,omitempty"`
	CmpLine    *float64   `json:"cmp_line,omitempty"`
	RefQuotes  []Quote    `json:"ref_quotes"`
	CmpQuotes  []Quote    `json:"cmp_quotes"`
}

// MatchedPair is one contest found on both sources
type MatchedPair struct {
	Reference  NormalizedEvent `json:"-"`
	Comparison NormalizedEvent `json:"-"`

	// Swapped is true when the comparison source labeled home/away
	// opposite to the reference; comparison sides have already been
	// flipped to the reference orientation when set.
	Swapped bool            `json:"swapped"`
	Markets []MatchedMarket `json:"markets"`
}

// UnmatchedReason explains why a reference item produced no pair this cycle
type UnmatchedReason string

const (
	ReasonTeamNotRecognized UnmatchedReason = "team_not_recognized"
	ReasonNoOpponentEvent   UnmatchedReason = "no_comparison_event"
	ReasonLineTolerance     UnmatchedReason = "line_tolerance_exceeded"
)

// Unmatched records a reference event or market that found no counterpart.
// This is the expected steady state for much of the board, not an error.
type Unmatched struct {
	Sport       string          `json:"sport"`
	HomeTeamRaw string          `json:"home_team_raw"`
	AwayTeamRaw string          `json:"away_team_raw"`
	Reason      UnmatchedReason `json:"reason"`
	Detail      string          `json:"detail,omitempty"`
}
