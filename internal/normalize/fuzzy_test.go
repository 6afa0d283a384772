package normalize_test

import (
	"math"
	"testing"

	"github.com/mgreco/oddsedge/internal/normalize"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		min  float64
		max  float64
	}{
		{"identical", "boston celtics", "boston celtics", 1.0, 1.0},
		{"empty left", "", "boston celtics", 0.0, 0.0},
		{"word order", "celtics boston", "boston celtics", 1.0, 1.0},
		{"subset tokens", "lakers", "los angeles lakers", 0.95, 1.0},
		{"one typo", "bostn celtics", "boston celtics", 0.85, 0.99},
		{"unrelated", "real madrid", "boston celtics", 0.0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.Similarity(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("Similarity(%q, %q) = %f, want in [%f, %f]", tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}

// Multi-byte names: the ratio must count runes, not bytes. "münchen" vs
// "munchen" is one substitution over seven characters, exactly 6/7.
func TestSimilarityMultiByte(t *testing.T) {
	got := normalize.Similarity("münchen", "munchen")
	want := 6.0 / 7.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Similarity(münchen, munchen) = %f, want %f", got, want)
	}

	if s := normalize.Similarity("atlético madrid", "atletico madrid"); s < 0.9 {
		t.Errorf("Similarity(atlético madrid, atletico madrid) = %f, want >= 0.9", s)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"la lakers", "los angeles lakers"},
		{"man united", "manchester united"},
		{"inter", "inter milan"},
	}

	for _, p := range pairs {
		ab := normalize.Similarity(p[0], p[1])
		ba := normalize.Similarity(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %f but reversed = %f", p[0], p[1], ab, ba)
		}
	}
}
