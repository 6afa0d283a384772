// Package engine runs the match-and-EV evaluation pass: normalize both
// snapshots, pair events and markets, derive no-vig fair probabilities from
// the reference side, and price every comparison quote against them.
package engine

import (
	"fmt"
	"time"

	"github.com/mgreco/oddsedge/internal/match"
	"github.com/mgreco/oddsedge/internal/normalize"
	"github.com/mgreco/oddsedge/pkg/models"
	"github.com/mgreco/oddsedge/pkg/oddsmath"
)

// FairProbabilitySet holds one no-vig probability per outcome of a
// reference market. Ephemeral: recomputed whenever reference quotes
// refresh, never persisted across cycles.
type FairProbabilitySet map[models.Side]float64

// Report is the output of one evaluation pass over a snapshot pair
type Report struct {
	Results   []models.EVResult
	Pairs     []models.MatchedPair
	Unmatched []models.Unmatched

	// SkippedQuotes counts comparison quotes dropped for local input
	// failures (malformed prices). A bad quote never aborts the pass.
	SkippedQuotes int
}

// Evaluator is a stateless pass runner. Safe for concurrent passes over
// different snapshot pairs; the caller serializes passes for the same
// event set.
type Evaluator struct {
	normalizer *normalize.Normalizer
	matcher    *match.Matcher
	band       oddsmath.EVBand
}

// New creates an evaluator
func New(normalizer *normalize.Normalizer, matcher *match.Matcher, band oddsmath.EVBand) *Evaluator {
	return &Evaluator{
		normalizer: normalizer,
		matcher:    matcher,
		band:       band,
	}
}

// Evaluate runs a full pass over one reference and one comparison
// snapshot. Both snapshots must be internally consistent; the caller must
// not mutate them mid-pass.
func (e *Evaluator) Evaluate(ref, cmp models.Snapshot) Report {
	report := Report{}

	refEvents := e.normalizeSnapshot(ref, &report)
	cmpEvents := e.normalizeSnapshot(cmp, &report)

	pairs, unmatched := e.matcher.Match(refEvents, cmpEvents)
	report.Pairs = pairs
	report.Unmatched = append(report.Unmatched, unmatched...)

	now := time.Now()

	for _, pair := range pairs {
		for _, market := range pair.Markets {
			fair, err := ComputeFairProbabilities(market.RefQuotes)
			if err != nil {
				// One-sided reference market; nothing to price against
				continue
			}

			for _, q := range market.CmpQuotes {
				fairProb, ok := fair[q.Side]
				if !ok {
					continue
				}

				decimal, err := oddsmath.AmericanToDecimal(q.Price)
				if err != nil {
					report.SkippedQuotes++
					continue
				}

				evPercent := oddsmath.ComputeEV(fairProb, decimal)

				report.Results = append(report.Results, models.EVResult{
					Sport:             pair.Reference.Sport,
					EventKey:          pair.Reference.EventKey(),
					HomeTeam:          pair.Reference.HomeTeamRaw,
					AwayTeam:          pair.Reference.AwayTeamRaw,
					MarketType:        market.MarketType,
					Period:            market.Period,
					Side:              q.Side,
					Line:              q.Line,
					FairProbability:   fairProb,
					ComparisonPrice:   q.Price,
					ComparisonDecimal: decimal,
					EVPercent:         evPercent,
					Suspect:           e.band.Suspect(evPercent),
					Description:       describeBet(pair.Reference, market.MarketType, q.Side, q.Line),
					EvaluatedAt:       now,
				})
			}
		}
	}

	return report
}

// normalizeSnapshot resolves every event's team names, emitting Unmatched
// records for names the table can't place
func (e *Evaluator) normalizeSnapshot(snap models.Snapshot, report *Report) []models.NormalizedEvent {
	events := make([]models.NormalizedEvent, 0, len(snap.Events))

	for _, raw := range snap.Events {
		home := e.normalizer.Normalize(raw.HomeTeamRaw, snap.Sport)
		away := e.normalizer.Normalize(raw.AwayTeamRaw, snap.Sport)

		if !home.Matched || !away.Matched {
			// Only reference misses are reported; comparison-side noise
			// is unactionable and would swamp the list
			if snap.Source == models.SourceReference {
				report.Unmatched = append(report.Unmatched, models.Unmatched{
					Sport:       snap.Sport,
					HomeTeamRaw: raw.HomeTeamRaw,
					AwayTeamRaw: raw.AwayTeamRaw,
					Reason:      models.ReasonTeamNotRecognized,
				})
			}
			continue
		}

		// A period suffix on either team name marks the whole listing as
		// a first-half line
		period := models.PeriodFullGame
		if home.Period == models.PeriodFirstHalf || away.Period == models.PeriodFirstHalf {
			period = models.PeriodFirstHalf
		}

		events = append(events, models.NormalizedEvent{
			Sport:       snap.Sport,
			HomeKey:     home.Key,
			AwayKey:     away.Key,
			HomeTeamRaw: raw.HomeTeamRaw,
			AwayTeamRaw: raw.AwayTeamRaw,
			StartTime:   raw.StartTime,
			Period:      period,
			Quotes:      raw.Quotes,
		})
	}

	return events
}

// ComputeFairProbabilities derives the no-vig probability per outcome of a
// reference market using the power method. Duplicate sides keep the most
// recently observed quote; malformed quotes are skipped. Fails with
// ErrIncompleteMarket when fewer than two sides survive.
func ComputeFairProbabilities(quotes []models.Quote) (FairProbabilitySet, error) {
	latest := make(map[models.Side]models.Quote, len(quotes))
	for _, q := range quotes {
		if prev, seen := latest[q.Side]; !seen || q.ObservedAt.After(prev.ObservedAt) {
			latest[q.Side] = q
		}
	}

	sides := make([]models.Side, 0, len(latest))
	implied := make([]float64, 0, len(latest))

	for _, side := range sideOrder {
		q, ok := latest[side]
		if !ok {
			continue
		}

		prob, err := oddsmath.AmericanToImpliedProbability(q.Price)
		if err != nil {
			continue
		}

		sides = append(sides, side)
		implied = append(implied, prob)
	}

	if len(implied) < 2 {
		return nil, fmt.Errorf("%w: %d priced outcomes", oddsmath.ErrIncompleteMarket, len(implied))
	}

	fair, err := oddsmath.RemoveVigPower(implied)
	if err != nil {
		return nil, err
	}

	set := make(FairProbabilitySet, len(sides))
	for i, side := range sides {
		set[side] = fair[i]
	}
	return set, nil
}

// sideOrder fixes iteration order so fair sets are deterministic
var sideOrder = []models.Side{
	models.SideHome, models.SideDraw, models.SideAway,
	models.SideOver, models.SideUnder,
}

// describeBet renders the human-readable bet line shown in alerts, e.g.
// "ML - Boston Celtics", "Boston Celtics -3.5", "Over 210.5"
func describeBet(ref models.NormalizedEvent, mt models.MarketType, side models.Side, ln *float64) string {
	team := ref.HomeTeamRaw
	if side == models.SideAway {
		team = ref.AwayTeamRaw
	}

	switch mt {
	case models.MarketMoneyline:
		if side == models.SideDraw {
			return "ML - Draw"
		}
		return fmt.Sprintf("ML - %s", team)

	case models.MarketSpread:
		if ln == nil {
			return fmt.Sprintf("%s (spread)", team)
		}
		return fmt.Sprintf("%s %+.1f", team, *ln)

	case models.MarketTotal:
		direction := "Over"
		if side == models.SideUnder {
			direction = "Under"
		}
		if ln == nil {
			return direction
		}
		return fmt.Sprintf("%s %.1f", direction, *ln)
	}

	return fmt.Sprintf("%s - %s", mt, side)
}
