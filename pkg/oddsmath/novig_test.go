package oddsmath_test

import (
	"errors"
	"math"
	"testing"

	"github.com/mgreco/oddsedge/pkg/oddsmath"
)

func TestRemoveVigMultiplicative(t *testing.T) {
	tests := []struct {
		name     string
		implied  []float64
		wantFair []float64
	}{
		{
			name:     "Standard -110/-110 (4.76% vig)",
			implied:  []float64{0.5238, 0.5238},
			wantFair: []float64{0.50, 0.50},
		},
		{
			name:     "Asymmetric -120/-110",
			implied:  []float64{0.5455, 0.5238},
			wantFair: []float64{0.5102, 0.4898},
		},
		{
			name:     "Heavy favorite -200/+170",
			implied:  []float64{0.6667, 0.3704},
			wantFair: []float64{0.6429, 0.3571},
		},
		{
			name:     "Three-way soccer moneyline",
			implied:  []float64{0.50, 0.30, 0.26},
			wantFair: []float64{0.4717, 0.2830, 0.2453},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fair, err := oddsmath.RemoveVigMultiplicative(tt.implied)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			sum := 0.0
			for i, got := range fair {
				if math.Abs(got-tt.wantFair[i]) > 0.001 {
					t.Errorf("fair[%d] = %f, want %f", i, got, tt.wantFair[i])
				}
				sum += got
			}

			if math.Abs(sum-1.0) > 1e-6 {
				t.Errorf("fair probabilities sum to %f, want 1.0", sum)
			}
		})
	}
}

func TestRemoveVigMultiplicativeErrors(t *testing.T) {
	if _, err := oddsmath.RemoveVigMultiplicative([]float64{0.5238}); !errors.Is(err, oddsmath.ErrIncompleteMarket) {
		t.Errorf("one-sided market error = %v, want ErrIncompleteMarket", err)
	}

	if _, err := oddsmath.RemoveVigMultiplicative([]float64{1.5, 0.5}); !errors.Is(err, oddsmath.ErrInvalidOdds) {
		t.Errorf("probability > 1 error = %v, want ErrInvalidOdds", err)
	}
}

func TestRemoveVigPower(t *testing.T) {
	tests := []struct {
		name    string
		implied []float64
	}{
		{"Symmetric -110/-110", []float64{0.5238, 0.5238}},
		{"Asymmetric -150/+130", []float64{0.60, 0.4348}},
		{"Longshot market -400/+320", []float64{0.80, 0.2381}},
		{"Three-way", []float64{0.48, 0.32, 0.27}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fair, err := oddsmath.RemoveVigPower(tt.implied)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			sum := 0.0
			for i, got := range fair {
				if got <= 0 || got >= 1 {
					t.Errorf("fair[%d] = %f outside (0, 1)", i, got)
				}
				// Power method preserves ordering
				if i > 0 && (tt.implied[i] < tt.implied[i-1]) != (got < fair[i-1]) {
					t.Errorf("fair ordering diverges from implied ordering at %d", i)
				}
				sum += got
			}

			if math.Abs(sum-1.0) > 1e-6 {
				t.Errorf("fair probabilities sum to %f, want 1.0", sum)
			}
		})
	}
}

func TestRemoveVigPowerSymmetric(t *testing.T) {
	// Symmetric inputs must produce exactly equal fair probabilities
	fair, err := oddsmath.RemoveVigPower([]float64{0.5238, 0.5238})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(fair[0]-0.50) > 0.001 || math.Abs(fair[1]-0.50) > 0.001 {
		t.Errorf("symmetric -110/-110 → %v, want [0.50, 0.50]", fair)
	}
}

func TestNoVigPrices(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	t.Run("two-way market", func(t *testing.T) {
		prices, err := oddsmath.NoVigPrices([]*float64{f(1.909), f(1.909)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i, p := range prices {
			if p == nil {
				t.Fatalf("prices[%d] = nil", i)
			}
			if math.Abs(*p-2.0) > 0.01 {
				t.Errorf("prices[%d] = %f, want 2.0", i, *p)
			}
		}
	})

	t.Run("nil slots preserved", func(t *testing.T) {
		prices, err := oddsmath.NoVigPrices([]*float64{f(2.05), nil, f(1.80)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if prices[1] != nil {
			t.Errorf("prices[1] = %v, want nil", *prices[1])
		}
		if prices[0] == nil || prices[2] == nil {
			t.Fatal("valid slots lost")
		}
	})

	t.Run("one-sided market", func(t *testing.T) {
		_, err := oddsmath.NoVigPrices([]*float64{f(1.909), nil})
		if !errors.Is(err, oddsmath.ErrIncompleteMarket) {
			t.Errorf("error = %v, want ErrIncompleteMarket", err)
		}
	})

	t.Run("no vig passes through", func(t *testing.T) {
		prices, err := oddsmath.NoVigPrices([]*float64{f(2.10), f(2.10)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(*prices[0]-2.10) > 1e-9 {
			t.Errorf("prices[0] = %f, want unchanged 2.10", *prices[0])
		}
	})
}

func TestCalculateVigPercentage(t *testing.T) {
	vig, err := oddsmath.CalculateVigPercentage([]float64{0.5238, 0.5238})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(vig-4.76) > 0.01 {
		t.Errorf("vig = %f, want 4.76", vig)
	}
}
