// Package dedup detects duplicate articles through fuzzy title matching
// and author/year heuristics.
package dedup

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// normalizeTitle case-folds and trims a title for comparison.
func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// TitleSimilarity computes 1 - (editDistance / max(len(a), len(b))) over
// case-folded, whitespace-trimmed titles using Levenshtein edit distance.
// An empty or missing title on either side never matches: the result is 0.
func TitleSimilarity(a, b string) float64 {
	na := normalizeTitle(a)
	nb := normalizeTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	dist := levenshtein.ComputeDistance(na, nb)
	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}
	return 1 - float64(dist)/float64(maxLen)
}

// titlesFoldEqual reports whether two titles are exactly equal after
// case-folding and trimming, the title-equality clause of the author/year
// rule. Empty titles never compare equal.
func titlesFoldEqual(a, b string) bool {
	na := normalizeTitle(a)
	nb := normalizeTitle(b)
	return na != "" && na == nb
}

// authorsFoldEqual compares two first-author names after case-folding and
// trimming. Empty names never compare equal.
func authorsFoldEqual(a, b string) bool {
	na := strings.ToLower(strings.TrimSpace(a))
	nb := strings.ToLower(strings.TrimSpace(b))
	return na != "" && na == nb
}
