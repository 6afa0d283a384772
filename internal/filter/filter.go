// Package filter decides which EV results become alerts.
package filter

import (
	"time"

	"github.com/mgreco/oddsedge/pkg/models"
)

// Filter applies the alerting criteria to evaluated results
type Filter struct {
	minEVPercent float64
	maxDataAge   time.Duration
}

// New creates a filter with the given thresholds
func New(minEVPercent float64, maxDataAge time.Duration) *Filter {
	return &Filter{
		minEVPercent: minEVPercent,
		maxDataAge:   maxDataAge,
	}
}

// Decision explains why a result was accepted or rejected
type Decision struct {
	Accept bool
	Reason string
}

// Check evaluates a single result against the alert criteria.
// Suspect results are never rejected for being suspect; the flag
// travels with the alert so consumers can decide
func (f *Filter) Check(result models.EVResult, now time.Time) Decision {
	if result.EVPercent < f.minEVPercent {
		return Decision{Accept: false, Reason: "below_min_ev"}
	}

	age := now.Sub(result.EvaluatedAt)
	if f.maxDataAge > 0 && age > f.maxDataAge {
		return Decision{Accept: false, Reason: "stale_data"}
	}

	return Decision{Accept: true}
}

// Apply filters a batch of results, returning the accepted ones
func (f *Filter) Apply(results []models.EVResult, now time.Time) []models.EVResult {
	accepted := make([]models.EVResult, 0, len(results))
	for _, r := range results {
		if f.Check(r, now).Accept {
			accepted = append(accepted, r)
		}
	}
	return accepted
}
