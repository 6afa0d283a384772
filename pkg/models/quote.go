package models

import "time"

// Source identifies which side of the comparison a quote came from
type Source string

const (
	SourceReference  Source = "reference"  // sharp exchange-like feed (Pinnacle-derived)
	SourceComparison Source = "comparison" // retail book being shopped (BetBCK)
)

// MarketType defines the type of betting market
type MarketType string

const (
	MarketMoneyline MarketType = "moneyline"
	MarketSpread    MarketType = "spread"
	MarketTotal     MarketType = "total"
)

// Side identifies the outcome a quote prices
type Side string

const (
	SideHome  Side = "home"
	SideAway  Side = "away"
	SideDraw  Side = "draw" // soccer moneylines, full game only
	SideOver  Side = "over"
	SideUnder Side = "under"
)

// Period identifies the game segment a market covers
type Period string

const (
	PeriodFullGame  Period = "full_game"
	PeriodFirstHalf Period = "first_half"
)

// Quote is one price for one outcome of one market from one source.
// Price is American odds; spreads carry the line for the quoted side
// (home +3.5 and away -3.5 are the same market), totals carry the total line.
type Quote struct {
	MarketType MarketType `json:"market_type"`
	Period     Period     `json:"period"`
	Side       Side       `json:"side"`
	Line       *float64   `json:"line,omitempty"` // required for spread/total

	// LineRaw carries the line as the book printed it ("2½", "2.5/3")
	// when the scraper couldn't parse it numerically. Ingestion resolves
	// it into Line; quotes where neither resolves are unusable for
	// spread/total markets.
	LineRaw string `json:"line_raw,omitempty"`

	Price      int       `json:"price"` // American odds
	ObservedAt time.Time `json:"observed_at"`
}

// RawEvent is one contest as scraped from a single source, before team
// names have been normalized.
type RawEvent struct {
	HomeTeamRaw string     `json:"home_team_raw"`
	AwayTeamRaw string     `json:"away_team_raw"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	Quotes      []Quote    `json:"quotes"`
}

// Snapshot is an internally-consistent capture of one source's board for
// one sport. Scrapers publish whole snapshots so an evaluation pass never
// sees a half-updated board.
type Snapshot struct {
	Source     Source     `json:"source"`
	Sport      string     `json:"sport"`
	Events     []RawEvent `json:"events"`
	CapturedAt time.Time  `json:"captured_at"`
}

// NormalizedEvent is a RawEvent whose team names resolved to canonical keys
type NormalizedEvent struct {
	Sport       string
	HomeKey     string
	AwayKey     string
	HomeTeamRaw string
	AwayTeamRaw string
	StartTime   *time.Time
	Period      Period // from name suffix ("1H" etc.), defaults to full game
	Quotes      []Quote
}

// EventKey is the canonical cross-source identity for a matched contest
func (e NormalizedEvent) EventKey() string {
	return e.HomeKey + "@" + e.AwayKey
}
