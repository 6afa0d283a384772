// Package oddsmath provides pure conversions between American odds, decimal
// odds, and implied probabilities, plus no-vig pricing and EV math.
package oddsmath

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidOdds indicates a malformed price: American odds of 0 or inside
// (-100, 100), or decimal odds below 1.0. Validation failures abort only the
// quote being converted, never a whole evaluation pass.
var ErrInvalidOdds = errors.New("invalid odds")

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -110 → Decimal 1.909
func AmericanToDecimal(american int) (float64, error) {
	if american > -100 && american < 100 {
		return 0, fmt.Errorf("%w: American odds %d in (-100, 100)", ErrInvalidOdds, american)
	}

	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}

	return (100.0 / float64(-american)) + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds
// Decimal 2.50 → American +150
// Decimal 1.909 → American -110
// Even money has two American spellings (+100 and -100) but one decimal
// value (2.0); this canonicalizes decimal 2.0 to +100.
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("%w: decimal odds %.4f must be > 1.0", ErrInvalidOdds, decimal)
	}

	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}

	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// DecimalToImpliedProbability converts decimal odds to implied probability
// Decimal 2.00 → 0.50 (50%)
func DecimalToImpliedProbability(decimal float64) (float64, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("%w: decimal odds %.4f must be > 1.0", ErrInvalidOdds, decimal)
	}

	return 1.0 / decimal, nil
}

// ProbabilityToDecimal converts probability to decimal odds
// 0.50 (50%) → Decimal 2.00
func ProbabilityToDecimal(probability float64) (float64, error) {
	if probability <= 0 || probability >= 1 {
		return 0, fmt.Errorf("%w: probability %.4f must be in (0, 1)", ErrInvalidOdds, probability)
	}

	return 1.0 / probability, nil
}

// AmericanToImpliedProbability converts American odds directly to implied probability
func AmericanToImpliedProbability(american int) (float64, error) {
	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}

	return DecimalToImpliedProbability(decimal)
}

// ProbabilityToAmerican converts probability directly to American odds
func ProbabilityToAmerican(probability float64) (int, error) {
	decimal, err := ProbabilityToDecimal(probability)
	if err != nil {
		return 0, err
	}

	return DecimalToAmerican(decimal)
}
