package oddsmath

// ComputeEV returns the bettor's expected value, as a percentage of stake,
// of betting comparisonDecimal odds when the true win probability is
// fairProbability:
//
//	EV% = (fairProbability × comparisonDecimal − 1) × 100
//
// A 1-unit stake at decimal d wins d−1 units with probability p and loses
// 1 unit otherwise, so EV per unit = p·d − 1.
//
// Example: fair 0.50 against +110 (decimal 2.10) → (0.50×2.10−1)×100 = +5.0%
func ComputeEV(fairProbability, comparisonDecimal float64) float64 {
	return (fairProbability*comparisonDecimal - 1.0) * 100.0
}

// EVBand is the plausible EV range. Values outside it usually mean a bad
// match or stale data rather than a real edge, and should be flagged for
// the caller rather than displayed as-is. The defaults (-20%, +20%) are
// empirically chosen and tunable, not load-bearing constants.
type EVBand struct {
	MinPercent float64
	MaxPercent float64
}

// DefaultEVBand returns the standard plausibility band
func DefaultEVBand() EVBand {
	return EVBand{MinPercent: -20.0, MaxPercent: 20.0}
}

// Suspect reports whether an EV percentage falls outside the band
func (b EVBand) Suspect(evPercent float64) bool {
	return evPercent < b.MinPercent || evPercent > b.MaxPercent
}
