// Package normalize resolves heterogeneous team name strings to canonical
// keys. Normalization is a pure function of (raw name, alias table, sport
// hint); the matcher depends on two identical calls always agreeing.
package normalize

import (
	"regexp"
	"strings"

	"github.com/mgreco/oddsedge/internal/alias"
	"github.com/mgreco/oddsedge/pkg/models"
)

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy fallback
// match. Empirically chosen; tunable per deployment.
const DefaultFuzzyThreshold = 0.82

// Result is the outcome of normalizing one raw name. A failed resolution
// (Matched false) is a normal outcome for names the table doesn't know,
// not an error.
type Result struct {
	Key     string        // canonical key, empty when Matched is false
	Period  models.Period // first_half when a period suffix was stripped
	Matched bool
	Score   float64 // 1.0 for alias hits, best similarity for fuzzy hits
}

// Normalizer resolves raw names against an immutable alias table
type Normalizer struct {
	table     *alias.Table
	threshold float64
}

// New creates a normalizer with the given fuzzy-match threshold
func New(table *alias.Table, threshold float64) *Normalizer {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}
	return &Normalizer{table: table, threshold: threshold}
}

var (
	leadingDigits  = regexp.MustCompile(`^\d+\s*`)
	parenQualifier = regexp.MustCompile(`\s*\([^)]*\)`)
	propPhrase     = regexp.MustCompile(`(?i)^(.+?)\s*(?:to lift the trophy|lift the trophy|to win.*|wins.*|series price|to win series)$`)
	periodSuffix   = regexp.MustCompile(`(?i)[\s\-]*(?:1h|1st half|first half)$`)
	punctuation    = regexp.MustCompile(`[^\w\s]`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// League and country tags some books append after team names
var leagueSuffixes = []string{
	"mlb", "nba", "nfl", "nhl", "ncaaf", "ncaab", "wnba", "mls", "epl",
	"serie a", "bundesliga", "la liga", "ligue 1", "premier league", "liga 1",
}

// Club prefixes that differ between sources ("FC Porto" vs "Porto").
// Stripped twice to handle stacked prefixes ("AFC FC ...").
var clubPrefixes = []string{
	"if ", "fc ", "sc ", "bk ", "sk ", "ac ", "as ", "fk ", "cd ", "ca ",
	"afc ", "cfr ", "scr ",
}

// Normalize resolves a raw team name to a canonical key for the hinted
// sport. Pipeline: clean → period detection → alias lookup → fuzzy
// fallback over the sport's canonical keys.
func (n *Normalizer) Normalize(raw, sportHint string) Result {
	cleaned, period := Clean(raw)
	if cleaned == "" {
		return Result{Period: period}
	}

	if key, ok := n.table.Lookup(sportHint, cleaned); ok {
		return Result{Key: key, Period: period, Matched: true, Score: 1.0}
	}

	// Fuzzy fallback: best canonical key for the hinted sport above the
	// threshold. Ties break to the earlier table entry so results stay
	// deterministic.
	bestKey := ""
	bestScore := 0.0
	for _, candidate := range n.candidates(sportHint) {
		score := Similarity(cleaned, candidate)
		if score > bestScore {
			bestScore = score
			bestKey = candidate
		}
	}

	if bestScore >= n.threshold {
		return Result{Key: bestKey, Period: period, Matched: true, Score: bestScore}
	}

	return Result{Period: period, Score: bestScore}
}

func (n *Normalizer) candidates(sportHint string) []string {
	if sportHint != "" {
		return n.table.Canonical(sportHint)
	}

	var all []string
	for _, sport := range n.table.SportKeys() {
		all = append(all, n.table.Canonical(sport)...)
	}
	return all
}

// Clean lowercases and scrubs a raw name, returning the cleaned string and
// the period detected from a stripped suffix ("Celtics 1H" → first half).
func Clean(raw string) (string, models.Period) {
	period := models.PeriodFullGame

	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", period
	}

	name = strings.ReplaceAll(name, " ", " ")
	name = leadingDigits.ReplaceAllString(name, "")

	if m := propPhrase.FindStringSubmatch(name); m != nil {
		name = strings.TrimSpace(m[1])
	}
	name = parenQualifier.ReplaceAllString(name, "")

	if periodSuffix.MatchString(name) {
		name = periodSuffix.ReplaceAllString(name, "")
		period = models.PeriodFirstHalf
	}

	name = strings.ReplaceAll(name, "st.", "st")
	name = punctuation.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), " ")

	for _, suffix := range leagueSuffixes {
		if trimmed, ok := strings.CutSuffix(name, " "+suffix); ok {
			name = trimmed
			break
		}
	}

	for i := 0; i < 2; i++ {
		for _, prefix := range clubPrefixes {
			if trimmed, ok := strings.CutPrefix(name, prefix); ok {
				name = strings.TrimSpace(trimmed)
				break
			}
		}
	}

	return strings.TrimSpace(name), period
}
