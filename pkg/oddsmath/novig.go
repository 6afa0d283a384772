package oddsmath

import (
	"errors"
	"fmt"
	"math"
)

// ErrIncompleteMarket indicates vig removal was attempted with fewer than
// two outcomes. No fair price can be derived from a one-sided market.
var ErrIncompleteMarket = errors.New("incomplete market")

const (
	powerTolerance     = 1e-4
	powerMaxIterations = 100
)

// RemoveVigMultiplicative removes vig by proportional normalization:
// fair_i = implied_i / sum(implied_all). Works for two-way markets
// (spreads, totals, moneylines) and three-way markets with a draw.
// The fair probabilities sum to exactly 1.
//
// Example: -110/-110 → implied 0.5238/0.5238 (4.76% vig) → fair 0.50/0.50
func RemoveVigMultiplicative(implied []float64) ([]float64, error) {
	if len(implied) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 outcomes, got %d", ErrIncompleteMarket, len(implied))
	}

	total := 0.0
	for _, prob := range implied {
		if prob <= 0 || prob >= 1 {
			return nil, fmt.Errorf("%w: implied probability %.4f outside (0, 1)", ErrInvalidOdds, prob)
		}
		total += prob
	}

	fair := make([]float64, len(implied))
	for i, prob := range implied {
		fair[i] = prob / total
	}

	return fair, nil
}

// RemoveVigPower removes vig using the power method: solve for the exponent
// k such that sum(implied_i^k) = 1, via Newton iteration on k. The power
// method shifts more of the margin onto longshots than proportional
// normalization does, which better reflects how sharp books shade favorites.
// Falls back to proportional normalization if the iteration degenerates.
func RemoveVigPower(implied []float64) ([]float64, error) {
	if len(implied) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 outcomes, got %d", ErrIncompleteMarket, len(implied))
	}

	for _, prob := range implied {
		if prob <= 0 || prob >= 1 {
			return nil, fmt.Errorf("%w: implied probability %.4f outside (0, 1)", ErrInvalidOdds, prob)
		}
	}

	k := 1.0
	for i := 0; i < powerMaxIterations; i++ {
		sum := 0.0
		derivative := 0.0
		for _, prob := range implied {
			powered := math.Pow(prob, k)
			sum += powered
			derivative += powered * math.Log(prob)
		}

		overround := sum - 1.0
		if math.Abs(overround) < powerTolerance {
			break
		}

		if math.Abs(derivative) < 1e-9 {
			// Flat derivative; the iteration can't make progress
			return RemoveVigMultiplicative(implied)
		}

		k -= overround / derivative
	}

	fair := make([]float64, len(implied))
	total := 0.0
	for i, prob := range implied {
		fair[i] = math.Pow(prob, k)
		total += fair[i]
	}
	if total == 0 {
		return RemoveVigMultiplicative(implied)
	}

	// Re-normalize so the set sums to exactly 1 regardless of where the
	// iteration stopped
	for i := range fair {
		fair[i] /= total
	}

	return fair, nil
}

// NoVigPrices converts a market's decimal odds into no-vig decimal prices
// (1 / fair probability), preserving slot positions. Slots holding nil or a
// decimal at or below 1.0 stay nil in the output. When fewer than two slots
// are valid the whole output is nil and ErrIncompleteMarket is returned.
// When the implied probabilities already sum to <= 1 there is no vig to
// remove and the input prices pass through unchanged.
func NoVigPrices(decimals []*float64) ([]*float64, error) {
	validIdx := make([]int, 0, len(decimals))
	for i, d := range decimals {
		if d != nil && *d > 1.0001 {
			validIdx = append(validIdx, i)
		}
	}

	if len(validIdx) < 2 {
		return nil, fmt.Errorf("%w: %d valid prices", ErrIncompleteMarket, len(validIdx))
	}

	implied := make([]float64, len(validIdx))
	total := 0.0
	for i, idx := range validIdx {
		implied[i] = 1.0 / *decimals[idx]
		total += implied[i]
	}

	out := make([]*float64, len(decimals))

	if total <= 1.0001 {
		// No vig detected; pass prices through
		for _, idx := range validIdx {
			price := *decimals[idx]
			out[idx] = &price
		}
		return out, nil
	}

	fair, err := RemoveVigPower(implied)
	if err != nil {
		return nil, err
	}

	for i, idx := range validIdx {
		if fair[i] > 1e-9 {
			price := 1.0 / fair[i]
			out[idx] = &price
		}
	}

	return out, nil
}

// CalculateVigPercentage returns the overround in a market as a percentage:
// (sum of implied probabilities - 1) * 100. Zero when no vig is present.
func CalculateVigPercentage(implied []float64) (float64, error) {
	if len(implied) == 0 {
		return 0, fmt.Errorf("%w: no probabilities provided", ErrIncompleteMarket)
	}

	total := 0.0
	for _, prob := range implied {
		if prob <= 0 || prob >= 1 {
			return 0, fmt.Errorf("%w: implied probability %.4f outside (0, 1)", ErrInvalidOdds, prob)
		}
		total += prob
	}

	if total <= 1.0 {
		return 0, nil
	}

	return (total - 1.0) * 100.0, nil
}
