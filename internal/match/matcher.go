// Package match pairs events and markets across the reference and
// comparison sources. Matching failure is the expected steady state for
// much of the board (the comparison book doesn't carry every market), so
// unmatched items are aggregated results, never errors.
package match

import (
	"fmt"
	"math"

	"github.com/mgreco/oddsedge/pkg/models"
)

// Config holds line-matching tolerances. Spreads must agree exactly to be
// comparable; totals tolerate a small gap.
type Config struct {
	SpreadTolerance float64
	TotalTolerance  float64
}

// DefaultConfig returns the documented default tolerances
func DefaultConfig() Config {
	return Config{
		SpreadTolerance: 0,
		TotalTolerance:  0.5,
	}
}

// Matcher pairs normalized event snapshots
type Matcher struct {
	config Config
}

// New creates a matcher
func New(config Config) *Matcher {
	return &Matcher{config: config}
}

// Match pairs each reference event with at most one comparison event by
// canonical team keys, trying (home,home)(away,away) first and the swapped
// orientation second. Each comparison event is consumed at most once.
// Matching is stateless across cycles; every call works from fresh
// snapshots.
func (m *Matcher) Match(reference, comparison []models.NormalizedEvent) ([]models.MatchedPair, []models.Unmatched) {
	var pairs []models.MatchedPair
	var unmatched []models.Unmatched

	used := make(map[int]bool, len(comparison))

	for _, ref := range reference {
		idx, swapped := m.findCounterpart(ref, comparison, used)
		if idx < 0 {
			unmatched = append(unmatched, models.Unmatched{
				Sport:       ref.Sport,
				HomeTeamRaw: ref.HomeTeamRaw,
				AwayTeamRaw: ref.AwayTeamRaw,
				Reason:      models.ReasonNoOpponentEvent,
			})
			continue
		}

		used[idx] = true
		cmp := comparison[idx]
		if swapped {
			cmp = swapEvent(cmp)
		}

		markets, marketMisses := m.matchMarkets(ref, cmp)
		unmatched = append(unmatched, marketMisses...)

		pairs = append(pairs, models.MatchedPair{
			Reference:  ref,
			Comparison: cmp,
			Swapped:    swapped,
			Markets:    markets,
		})
	}

	return pairs, unmatched
}

func (m *Matcher) findCounterpart(ref models.NormalizedEvent, comparison []models.NormalizedEvent, used map[int]bool) (int, bool) {
	for idx, cmp := range comparison {
		if used[idx] || cmp.Sport != ref.Sport {
			continue
		}
		if cmp.HomeKey == ref.HomeKey && cmp.AwayKey == ref.AwayKey {
			return idx, false
		}
	}

	// Cross-source home/away labeling can disagree; retry swapped
	for idx, cmp := range comparison {
		if used[idx] || cmp.Sport != ref.Sport {
			continue
		}
		if cmp.HomeKey == ref.AwayKey && cmp.AwayKey == ref.HomeKey {
			return idx, true
		}
	}

	return -1, false
}

// swapEvent reorients a comparison event whose home/away labels disagree
// with the reference. Only side labels flip; each quote's line stays with
// its own team, and market grouping canonicalizes spread lines to the home
// side afterward.
func swapEvent(e models.NormalizedEvent) models.NormalizedEvent {
	swapped := e
	swapped.HomeKey, swapped.AwayKey = e.AwayKey, e.HomeKey
	swapped.HomeTeamRaw, swapped.AwayTeamRaw = e.AwayTeamRaw, e.HomeTeamRaw

	swapped.Quotes = make([]models.Quote, len(e.Quotes))
	for i, q := range e.Quotes {
		sq := q
		switch q.Side {
		case models.SideHome:
			sq.Side = models.SideAway
		case models.SideAway:
			sq.Side = models.SideHome
		}
		swapped.Quotes[i] = sq
	}

	return swapped
}

// marketKey identifies one market within an event. Spread lines are
// home-side; totals carry the total line; moneylines have no line.
type marketKey struct {
	Type   models.MarketType
	Period models.Period
	Line   float64
	HasLn  bool
}

// matchMarkets groups each event's quotes into markets and pairs them
// under the configured line tolerances.
func (m *Matcher) matchMarkets(ref, cmp models.NormalizedEvent) ([]models.MatchedMarket, []models.Unmatched) {
	refMarkets := groupMarkets(ref)
	cmpMarkets := groupMarkets(cmp)

	var matched []models.MatchedMarket
	var misses []models.Unmatched

	usedCmp := make(map[marketKey]bool, len(cmpMarkets.order))

	for _, refKey := range refMarkets.order {
		cmpKey, ok := m.closestMarket(refKey, cmpMarkets, usedCmp)
		if !ok {
			// Tolerance miss is worth reporting; a plain absence is the
			// normal case and stays quiet at market granularity
			if nearKey, near := nearestLine(refKey, cmpMarkets, usedCmp); near {
				misses = append(misses, models.Unmatched{
					Sport:       ref.Sport,
					HomeTeamRaw: ref.HomeTeamRaw,
					AwayTeamRaw: ref.AwayTeamRaw,
					Reason:      models.ReasonLineTolerance,
					Detail: fmt.Sprintf("%s %s ref line %.1f vs cmp line %.1f",
						refKey.Type, refKey.Period, refKey.Line, nearKey.Line),
				})
			}
			continue
		}

		usedCmp[cmpKey] = true

		market := models.MatchedMarket{
			MarketType: refKey.Type,
			Period:     refKey.Period,
			RefQuotes:  refMarkets.quotes[refKey],
			CmpQuotes:  cmpMarkets.quotes[cmpKey],
		}
		if refKey.HasLn {
			refLine, cmpLine := refKey.Line, cmpKey.Line
			market.RefLine = &refLine
			market.CmpLine = &cmpLine
		}

		matched = append(matched, market)
	}

	return matched, misses
}

// closestMarket finds the unused comparison market of the same type and
// period whose line falls within tolerance, preferring the smallest gap
func (m *Matcher) closestMarket(refKey marketKey, cmp groupedMarkets, used map[marketKey]bool) (marketKey, bool) {
	tolerance := 0.0
	switch refKey.Type {
	case models.MarketSpread:
		tolerance = m.config.SpreadTolerance
	case models.MarketTotal:
		tolerance = m.config.TotalTolerance
	}

	best := marketKey{}
	bestGap := math.Inf(1)
	found := false

	for _, key := range cmp.order {
		if used[key] || key.Type != refKey.Type || key.Period != refKey.Period {
			continue
		}

		if !refKey.HasLn {
			return key, true // moneyline: type+period is the whole identity
		}

		gap := math.Abs(key.Line - refKey.Line)
		if gap <= tolerance+1e-9 && gap < bestGap {
			best = key
			bestGap = gap
			found = true
		}
	}

	return best, found
}

// nearestLine reports the same-type same-period market closest in line,
// regardless of tolerance, for diagnostics
func nearestLine(refKey marketKey, cmp groupedMarkets, used map[marketKey]bool) (marketKey, bool) {
	best := marketKey{}
	bestGap := math.Inf(1)
	found := false

	for _, key := range cmp.order {
		if used[key] || key.Type != refKey.Type || key.Period != refKey.Period || !key.HasLn {
			continue
		}
		if gap := math.Abs(key.Line - refKey.Line); gap < bestGap {
			best = key
			bestGap = gap
			found = true
		}
	}

	return best, found
}

type groupedMarkets struct {
	order  []marketKey
	quotes map[marketKey][]models.Quote
}

func groupMarkets(e models.NormalizedEvent) groupedMarkets {
	g := groupedMarkets{quotes: make(map[marketKey][]models.Quote)}

	for _, q := range e.Quotes {
		key := marketKey{Type: q.MarketType, Period: q.Period}
		if key.Period == "" {
			key.Period = e.Period
		}
		if key.Period == "" {
			key.Period = models.PeriodFullGame
		}

		if q.MarketType != models.MarketMoneyline {
			if q.Line == nil {
				continue // spread/total without a line is unusable
			}
			key.HasLn = true
			key.Line = *q.Line
			// Spreads are asymmetric: home +3.5 and away -3.5 are one
			// market keyed by the home-side line
			if q.MarketType == models.MarketSpread && q.Side == models.SideAway {
				key.Line = -key.Line
			}
		}

		if _, seen := g.quotes[key]; !seen {
			g.order = append(g.order, key)
		}
		g.quotes[key] = append(g.quotes[key], q)
	}

	return g
}
