// Package alias provides the immutable team alias table the normalizer
// resolves raw names against. Tables are loaded once per process from a
// versioned TOML document and never mutated afterward, so normalization
// stays a pure function of its inputs.
package alias

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Table maps raw team names to canonical keys, per sport
type Table struct {
	version string
	sports  map[string]*sportTable
}

type sportTable struct {
	canonical []string          // insertion order, for deterministic fuzzy scans
	aliases   map[string]string // alias (and canonical key itself) -> canonical key
}

type tableDoc struct {
	Version string     `toml:"version"`
	Sports  []sportDoc `toml:"sport"`
}

type sportDoc struct {
	Key   string    `toml:"key"`
	Teams []teamDoc `toml:"team"`
}

type teamDoc struct {
	Key     string   `toml:"key"`
	Aliases []string `toml:"aliases"`
}

// Load reads a table from a TOML file
func Load(path string) (*Table, error) {
	var doc tableDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("error loading alias table %s: %w", path, err)
	}

	return build(doc)
}

// Parse builds a table from TOML source
func Parse(data string) (*Table, error) {
	var doc tableDoc
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing alias table: %w", err)
	}

	return build(doc)
}

func build(doc tableDoc) (*Table, error) {
	t := &Table{
		version: doc.Version,
		sports:  make(map[string]*sportTable),
	}

	for _, sport := range doc.Sports {
		sportKey := strings.ToLower(strings.TrimSpace(sport.Key))
		if sportKey == "" {
			return nil, fmt.Errorf("alias table: sport with empty key")
		}
		if _, exists := t.sports[sportKey]; exists {
			return nil, fmt.Errorf("alias table: duplicate sport %s", sportKey)
		}

		st := &sportTable{aliases: make(map[string]string)}

		for _, team := range sport.Teams {
			canonical := strings.ToLower(strings.TrimSpace(team.Key))
			if canonical == "" {
				return nil, fmt.Errorf("alias table: empty team key in sport %s", sportKey)
			}
			if _, dup := st.aliases[canonical]; dup {
				return nil, fmt.Errorf("alias table: duplicate team %s in sport %s", canonical, sportKey)
			}

			st.canonical = append(st.canonical, canonical)
			st.aliases[canonical] = canonical

			for _, a := range team.Aliases {
				a = strings.ToLower(strings.TrimSpace(a))
				if a == "" || a == canonical {
					continue
				}
				if existing, dup := st.aliases[a]; dup && existing != canonical {
					return nil, fmt.Errorf("alias table: alias %q maps to both %s and %s", a, existing, canonical)
				}
				st.aliases[a] = canonical
			}
		}

		t.sports[sportKey] = st
	}

	return t, nil
}

// Version returns the table's version string
func (t *Table) Version() string {
	return t.version
}

// Lookup resolves a cleaned name to its canonical key for a sport.
// The empty sport hint searches every sport, first hit wins in sport
// key order.
func (t *Table) Lookup(sport, name string) (string, bool) {
	if sport != "" {
		st, ok := t.sports[strings.ToLower(sport)]
		if !ok {
			return "", false
		}
		key, ok := st.aliases[name]
		return key, ok
	}

	for _, sportKey := range t.SportKeys() {
		if key, ok := t.sports[sportKey].aliases[name]; ok {
			return key, ok
		}
	}
	return "", false
}

// Canonical returns the canonical keys for a sport, in table order
func (t *Table) Canonical(sport string) []string {
	st, ok := t.sports[strings.ToLower(sport)]
	if !ok {
		return nil
	}

	keys := make([]string, len(st.canonical))
	copy(keys, st.canonical)
	return keys
}

// SportKeys returns the registered sport keys in sorted order
func (t *Table) SportKeys() []string {
	keys := make([]string, 0, len(t.sports))
	for k := range t.sports {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
