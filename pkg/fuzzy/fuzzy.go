// Package fuzzy provides simple string similarity scoring for matching
// guest names that were typed by different people at different times.
package fuzzy

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ratio returns a 0-100 similarity score between two strings. 100 means
// identical, 0 means nothing in common. Comparison is case-insensitive
// and ignores surrounding whitespace.
func Ratio(a, b string) int {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	total := len(a) + len(b)
	if total == 0 {
		return 100
	}

	dist := levenshtein.ComputeDistance(a, b)
	return (total - dist) * 100 / total
}
