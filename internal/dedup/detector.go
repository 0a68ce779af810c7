package dedup

import "github.com/metapiqma/review-service/internal/domain"

// DefaultSimilarityThreshold is the title similarity above which two
// articles are considered duplicates.
const DefaultSimilarityThreshold = 0.95

// Match records one detected duplicate: the later-arriving article and the
// earlier article it duplicates, with the title similarity of the match.
type Match struct {
	// ID is the article marked as the duplicate.
	ID string

	// DuplicateOf is the earlier article it matched against.
	DuplicateOf string

	// Score is the title similarity of the match. For matches made by the
	// author/year rule the titles are fold-equal, so Score is 1.0.
	Score float64
}

// Detector scans an ordered article collection pairwise and decides which
// later-arriving articles duplicate earlier ones. Detection is pure: the
// detector returns matches and the store applies the status mutations.
type Detector struct {
	threshold float64
}

// NewDetector creates a detector with the given title similarity threshold.
// A zero threshold selects DefaultSimilarityThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold == 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Detector{threshold: threshold}
}

// Detect iterates articles in arrival order and, for each article, compares
// it against every earlier article's original data. An article is a
// duplicate of an earlier one if either:
//
//  1. title similarity >= the threshold (Levenshtein over case-folded,
//     trimmed titles), or
//  2. same first author (case-folded, trimmed), same non-zero publication
//     year, and fold-equal titles.
//
// Comparisons run against original data regardless of the earlier article's
// own duplicate status; this preserves transitive chains. The first earlier
// article that satisfies either rule wins and scanning stops for that
// article. Articles already past unscreened (screened, removed, or already
// marked duplicate) are not re-marked, which together with the pure
// comparison makes repeated runs over an unmodified collection yield
// identical marks.
func (d *Detector) Detect(articles []domain.Article) []Match {
	var matches []Match

	for i := 1; i < len(articles); i++ {
		later := &articles[i]
		if later.Status != domain.StatusUnscreened {
			continue
		}

		for j := 0; j < i; j++ {
			earlier := &articles[j]
			if match, score := d.isDuplicatePair(later, earlier); match {
				matches = append(matches, Match{
					ID:          later.ID,
					DuplicateOf: earlier.ID,
					Score:       score,
				})
				break
			}
		}
	}

	return matches
}

// isDuplicatePair applies the two duplicate rules to one ordered pair.
func (d *Detector) isDuplicatePair(later, earlier *domain.Article) (bool, float64) {
	if sim := TitleSimilarity(later.Title, earlier.Title); sim >= d.threshold {
		return true, sim
	}

	// Author/year rule: requires both years present and equal, both first
	// authors present and fold-equal, and exactly fold-equal titles.
	if later.Year != 0 && later.Year == earlier.Year &&
		authorsFoldEqual(later.FirstAuthor(), earlier.FirstAuthor()) &&
		titlesFoldEqual(later.Title, earlier.Title) {
		return true, 1
	}

	return false, 0
}

// IDs extracts the article ids from a match list, in detection order.
func IDs(matches []Match) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}
