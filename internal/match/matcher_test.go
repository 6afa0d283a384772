package match_test

import (
	"testing"
	"time"

	"github.com/mgreco/oddsedge/internal/match"
	"github.com/mgreco/oddsedge/pkg/models"
)

func line(v float64) *float64 { return &v }

func event(sport, homeKey, awayKey string, quotes ...models.Quote) models.NormalizedEvent {
	return models.NormalizedEvent{
		Sport:       sport,
		HomeKey:     homeKey,
		AwayKey:     awayKey,
		HomeTeamRaw: homeKey,
		AwayTeamRaw: awayKey,
		Period:      models.PeriodFullGame,
		Quotes:      quotes,
	}
}

func quote(mt models.MarketType, side models.Side, ln *float64, price int) models.Quote {
	return models.Quote{
		MarketType: mt,
		Period:     models.PeriodFullGame,
		Side:       side,
		Line:       ln,
		Price:      price,
		ObservedAt: time.Now(),
	}
}

func TestMatchDirect(t *testing.T) {
	m := match.New(match.DefaultConfig())

	ref := []models.NormalizedEvent{
		event("nba", "boston celtics", "los angeles lakers",
			quote(models.MarketMoneyline, models.SideHome, nil, -150),
			quote(models.MarketMoneyline, models.SideAway, nil, 130),
		),
	}
	cmp := []models.NormalizedEvent{
		event("nba", "boston celtics", "los angeles lakers",
			quote(models.MarketMoneyline, models.SideHome, nil, -140),
			quote(models.MarketMoneyline, models.SideAway, nil, 120),
		),
	}

	pairs, unmatched := m.Match(ref, cmp)

	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
	if len(unmatched) != 0 {
		t.Fatalf("unmatched = %+v, want none", unmatched)
	}
	if pairs[0].Swapped {
		t.Error("direct match reported as swapped")
	}
	if len(pairs[0].Markets) != 1 {
		t.Fatalf("markets = %d, want 1", len(pairs[0].Markets))
	}
}

// Home/away order-insensitive matching: swapping the comparison side yields
// the same pair with sides flipped back and spread lines negated.
func TestMatchSwapped(t *testing.T) {
	m := match.New(match.DefaultConfig())

	ref := []models.NormalizedEvent{
		event("nba", "boston celtics", "los angeles lakers",
			quote(models.MarketSpread, models.SideHome, line(-3.5), -110),
			quote(models.MarketSpread, models.SideAway, line(3.5), -110),
		),
	}
	cmp := []models.NormalizedEvent{
		event("nba", "los angeles lakers", "boston celtics",
			quote(models.MarketSpread, models.SideHome, line(3.5), -105),
			quote(models.MarketSpread, models.SideAway, line(-3.5), -115),
		),
	}

	pairs, _ := m.Match(ref, cmp)

	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
	if !pairs[0].Swapped {
		t.Error("swapped match not flagged")
	}
	if pairs[0].Comparison.HomeKey != "boston celtics" {
		t.Errorf("comparison home after swap = %q", pairs[0].Comparison.HomeKey)
	}
	if len(pairs[0].Markets) != 1 {
		t.Fatalf("markets = %d, want 1", len(pairs[0].Markets))
	}

	// After reorientation the comparison's home-side quote is the -3.5
	for _, q := range pairs[0].Markets[0].CmpQuotes {
		if q.Side == models.SideHome && (q.Line == nil || *q.Line != -3.5) {
			t.Errorf("swapped home quote line = %v, want -3.5", q.Line)
		}
	}
}

// Spread lines must match exactly under tolerance 0: ref +3.0 vs cmp +3.5
// is reported unmatched.
func TestMatchSpreadToleranceExceeded(t *testing.T) {
	m := match.New(match.DefaultConfig())

	ref := []models.NormalizedEvent{
		event("nba", "boston celtics", "los angeles lakers",
			quote(models.MarketSpread, models.SideHome, line(3.0), -110),
			quote(models.MarketSpread, models.SideAway, line(-3.0), -110),
		),
	}
	cmp := []models.NormalizedEvent{
		event("nba", "boston celtics", "los angeles lakers",
			quote(models.MarketSpread, models.SideHome, line(3.5), -110),
			quote(models.MarketSpread, models.SideAway, line(-3.5), -110),
		),
	}

	pairs, unmatched := m.Match(ref, cmp)

	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1 (event still pairs)", len(pairs))
	}
	if len(pairs[0].Markets) != 0 {
		t.Errorf("markets = %d, want 0", len(pairs[0].Markets))
	}

	found := false
	for _, u := range unmatched {
		if u.Reason == models.ReasonLineTolerance {
			found = true
		}
	}
	if !found {
		t.Errorf("no line-tolerance miss reported: %+v", unmatched)
	}
}

func TestMatchTotalWithinTolerance(t *testing.T) {
	m := match.New(match.DefaultConfig())

	ref := []models.NormalizedEvent{
		event("nba", "boston celtics", "los angeles lakers",
			quote(models.MarketTotal, models.SideOver, line(210.5), -110),
			quote(models.MarketTotal, models.SideUnder, line(210.5), -110),
		),
	}
	cmp := []models.NormalizedEvent{
		event("nba", "boston celtics", "los angeles lakers",
			quote(models.MarketTotal, models.SideOver, line(211.0), -105),
			quote(models.MarketTotal, models.SideUnder, line(211.0), -115),
		),
	}

	pairs, _ := m.Match(ref, cmp)

	if len(pairs) != 1 || len(pairs[0].Markets) != 1 {
		t.Fatalf("expected 1 pair with 1 market, got %+v", pairs)
	}

	mk := pairs[0].Markets[0]
	if mk.RefLine == nil || *mk.RefLine != 210.5 || mk.CmpLine == nil || *mk.CmpLine != 211.0 {
		t.Errorf("lines = %v / %v, want 210.5 / 211.0", mk.RefLine, mk.CmpLine)
	}
}

func TestMatchNoCounterpart(t *testing.T) {
	m := match.New(match.DefaultConfig())

	ref := []models.NormalizedEvent{
		event("nba", "boston celtics", "los angeles lakers"),
	}
	cmp := []models.NormalizedEvent{
		event("nba", "golden state warriors", "phoenix suns"),
	}

	pairs, unmatched := m.Match(ref, cmp)

	if len(pairs) != 0 {
		t.Fatalf("pairs = %d, want 0", len(pairs))
	}
	if len(unmatched) != 1 || unmatched[0].Reason != models.ReasonNoOpponentEvent {
		t.Fatalf("unmatched = %+v", unmatched)
	}
}

// Each comparison event pairs with at most one reference event
func TestMatchComparisonConsumedOnce(t *testing.T) {
	m := match.New(match.DefaultConfig())

	ref := []models.NormalizedEvent{
		event("nba", "boston celtics", "los angeles lakers"),
		event("nba", "boston celtics", "los angeles lakers"),
	}
	cmp := []models.NormalizedEvent{
		event("nba", "boston celtics", "los angeles lakers"),
	}

	pairs, unmatched := m.Match(ref, cmp)

	if len(pairs) != 1 {
		t.Errorf("pairs = %d, want 1", len(pairs))
	}
	if len(unmatched) != 1 {
		t.Errorf("unmatched = %d, want 1", len(unmatched))
	}
}

func TestMatchSportSeparation(t *testing.T) {
	m := match.New(match.DefaultConfig())

	ref := []models.NormalizedEvent{
		event("nba", "boston celtics", "los angeles lakers"),
	}
	cmp := []models.NormalizedEvent{
		event("wnba", "boston celtics", "los angeles lakers"),
	}

	pairs, _ := m.Match(ref, cmp)
	if len(pairs) != 0 {
		t.Errorf("events from different sports paired")
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"2.5", 2.5, true},
		{"2½", 2.5, true},
		{"2.5/3", 2.75, true},
		{"2.5,3", 2.75, true},
		{"2,5", 2.5, true},
		{"210.5", 210.5, true},
		{"-3.5", -3.5, true},
		{"+3.5", 3.5, true},
		{"-2.5/3", -2.75, true},
		{"", 0, false},
		{"-", 0, false},
		{"PK", 0, false},
	}

	for _, tt := range tests {
		got, ok := match.ParseLine(tt.raw)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseLine(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
