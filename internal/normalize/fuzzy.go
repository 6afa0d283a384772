package normalize

import (
	"sort"
	"strings"
)

// Similarity scores two already-cleaned names on a 0-1 scale as the max of
// token-sort ratio and token-set ratio, both built on Levenshtein ratio.
// Token-sort handles word-order differences ("lakers la" vs "la lakers");
// token-set additionally forgives tokens present on only one side
// ("los angeles lakers" vs "lakers").
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	return max2(tokenSortRatio(a, b), tokenSetRatio(a, b))
}

func tokenSortRatio(a, b string) float64 {
	return levenshteinRatio(sortedTokens(a), sortedTokens(b))
}

// tokenSetRatio compares the shared token set against each side's full
// token set and takes the best pairing, the rapidfuzz formulation.
func tokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	var common, onlyA, onlyB []string
	for tok := range tokensA {
		if tokensB[tok] {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tokensB {
		if !tokensA[tok] {
			onlyB = append(onlyB, tok)
		}
	}

	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(common, " ")
	full1 := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	full2 := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := levenshteinRatio(full1, full2)
	if sect != "" {
		best = max2(best, levenshteinRatio(sect, full1))
		best = max2(best, levenshteinRatio(sect, full2))
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// levenshteinRatio is 1 - editDistance/maxLen on a 0-1 scale
func levenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	// Distance counts runes, so the length must too
	dist := levenshtein(a, b)
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	return 1.0 - float64(dist)/float64(maxLen)
}

// levenshtein computes edit distance with a two-row rolling buffer
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max2(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}
