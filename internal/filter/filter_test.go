package filter

import (
	"testing"
	"time"

	"github.com/mgreco/oddsedge/pkg/models"
)

func TestCheck(t *testing.T) {
	now := time.Now()
	f := New(1.0, 2*time.Minute)

	tests := []struct {
		name       string
		ev         float64
		suspect    bool
		evaluated  time.Time
		wantAccept bool
		wantReason string
	}{
		{"above threshold", 2.5, false, now, true, ""},
		{"exactly at threshold", 1.0, false, now, true, ""},
		{"below threshold", 0.5, false, now, false, "below_min_ev"},
		{"negative ev", -3.0, false, now, false, "below_min_ev"},
		{"stale data", 5.0, false, now.Add(-3 * time.Minute), false, "stale_data"},
		{"suspect but accepted", 5.0, true, now, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := models.EVResult{
				EVPercent:   tt.ev,
				Suspect:     tt.suspect,
				EvaluatedAt: tt.evaluated,
			}

			d := f.Check(result, now)
			if d.Accept != tt.wantAccept {
				t.Errorf("Accept = %v, want %v", d.Accept, tt.wantAccept)
			}
			if d.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", d.Reason, tt.wantReason)
			}
		})
	}
}

func TestApplyKeepsOrder(t *testing.T) {
	now := time.Now()
	f := New(1.0, 0) // zero max age disables the staleness check

	results := []models.EVResult{
		{Description: "a", EVPercent: 3.0, EvaluatedAt: now},
		{Description: "b", EVPercent: 0.2, EvaluatedAt: now},
		{Description: "c", EVPercent: 1.5, EvaluatedAt: now},
	}

	accepted := f.Apply(results, now)
	if len(accepted) != 2 {
		t.Fatalf("expected 2 accepted, got %d", len(accepted))
	}
	if accepted[0].Description != "a" || accepted[1].Description != "c" {
		t.Errorf("unexpected order: %q, %q", accepted[0].Description, accepted[1].Description)
	}
}
