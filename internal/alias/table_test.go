package alias

import "testing"

const testTable = `
version = "test"

[[sport]]
key = "nba"

[[sport.team]]
key = "boston celtics"
aliases = ["celtics", "boston"]

[[sport.team]]
key = "los angeles lakers"
aliases = ["lakers"]

[[sport]]
key = "soccer"

[[sport.team]]
key = "inter milan"
aliases = ["inter"]
`

func TestLookup(t *testing.T) {
	table, err := Parse(testTable)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		sport string
		name  string
		want  string
		found bool
	}{
		{"nba", "celtics", "boston celtics", true},
		{"nba", "boston celtics", "boston celtics", true}, // canonical resolves to itself
		{"nba", "lakers", "los angeles lakers", true},
		{"soccer", "inter", "inter milan", true},
		{"nba", "inter", "", false}, // wrong sport
		{"nba", "unknown team", "", false},
		{"nhl", "celtics", "", false}, // unknown sport
	}

	for _, tt := range tests {
		got, found := table.Lookup(tt.sport, tt.name)
		if found != tt.found || got != tt.want {
			t.Errorf("Lookup(%q, %q) = %q, %v; want %q, %v",
				tt.sport, tt.name, got, found, tt.want, tt.found)
		}
	}
}

func TestCanonicalIsACopy(t *testing.T) {
	table, err := Parse(testTable)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	keys := table.Canonical("nba")
	if len(keys) != 2 {
		t.Fatalf("expected 2 canonical keys, got %d", len(keys))
	}

	keys[0] = "mutated"
	if again := table.Canonical("nba"); again[0] == "mutated" {
		t.Error("Canonical returned a shared slice")
	}
}

func TestSportKeysSorted(t *testing.T) {
	table, err := Parse(testTable)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	keys := table.SportKeys()
	if len(keys) != 2 || keys[0] != "nba" || keys[1] != "soccer" {
		t.Errorf("SportKeys = %v", keys)
	}
}

func TestParseRejectsConflictingAlias(t *testing.T) {
	conflicting := `
[[sport]]
key = "nba"

[[sport.team]]
key = "boston celtics"
aliases = ["boston"]

[[sport.team]]
key = "brooklyn nets"
aliases = ["boston"]
`
	if _, err := Parse(conflicting); err == nil {
		t.Fatal("expected error for alias mapped to two teams")
	}
}
