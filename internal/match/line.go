package match

import (
	"regexp"
	"strconv"
	"strings"
)

var asianLine = regexp.MustCompile(`^([0-9]+\.?[0-9]*)[,/]([0-9]+\.?[0-9]*)$`)

// ParseLine normalizes a scraped line string to a numeric value. Handles
// the half glyph ("2½" → 2.5), comma decimals, signed lines ("-2.5/3"),
// and Asian split lines ("2.5/3", "2.5,3" → 2.75). Returns false for
// anything non-numeric.
func ParseLine(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, "½", ".5")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	sign := 1.0
	switch s[0] {
	case '-':
		sign = -1.0
		s = s[1:]
	case '+':
		s = s[1:]
	}

	// Asian split lines are two quarter-line halves 0.5 apart ("2.5/3").
	// A comma pair any other distance apart is a decimal comma instead.
	if m := asianLine.FindStringSubmatch(s); m != nil {
		lo, err1 := strconv.ParseFloat(m[1], 64)
		hi, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil && hi-lo == 0.5 {
			return sign * (lo + hi) / 2, true
		}
	}

	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return sign * v, true
}
