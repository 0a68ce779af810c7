package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metapiqma/review-service/internal/domain"
)

func article(id, title string, authors []string, year int) domain.Article {
	return domain.Article{
		ID:      id,
		Title:   title,
		Authors: authors,
		Year:    year,
		Status:  domain.StatusUnscreened,
	}
}

func TestDetectTrailingSpaceDuplicate(t *testing.T) {
	t.Parallel()

	d := NewDetector(0)
	matches := d.Detect([]domain.Article{
		article("a", "Study of X", []string{"Smith A"}, 2024),
		article("b", "Study of X ", []string{"Smith A"}, 2024),
	})

	require.Len(t, matches, 1)
	assert.Equal(t, "b", matches[0].ID)
	assert.Equal(t, "a", matches[0].DuplicateOf)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestDetectLaterArticleIsAlwaysTheDuplicate(t *testing.T) {
	t.Parallel()

	d := NewDetector(0)
	first := article("first", "Deep Learning for Protein Folding", nil, 0)
	second := article("second", "Deep Learning for Protein Folding", nil, 0)

	matches := d.Detect([]domain.Article{first, second})
	require.Len(t, matches, 1)
	assert.Equal(t, "second", matches[0].ID)

	// Reversed insertion order flips which article is marked: the marking
	// is order-dependent by design.
	matches = d.Detect([]domain.Article{second, first})
	require.Len(t, matches, 1)
	assert.Equal(t, "first", matches[0].ID)
}

func TestDetectAuthorYearRule(t *testing.T) {
	t.Parallel()

	d := NewDetector(0)

	t.Run("fires on same first author, year, and fold-equal title", func(t *testing.T) {
		t.Parallel()
		matches := d.Detect([]domain.Article{
			article("a", "Study of X", []string{"Smith A", "Lee B"}, 2023),
			article("b", "STUDY OF X", []string{"smith a", "Different C"}, 2023),
		})
		require.Len(t, matches, 1)
		assert.Equal(t, "b", matches[0].ID)
	})

	t.Run("missing year blocks the rule", func(t *testing.T) {
		t.Parallel()
		matches := d.Detect([]domain.Article{
			article("a", "Short", []string{"Smith A"}, 0),
			article("b", "Short", []string{"Smith A"}, 0),
		})
		// "short" vs "short" still matches via rule 1 (similarity 1.0);
		// use dissimilar-enough titles to isolate rule 2.
		require.Len(t, matches, 1)

		matches = d.Detect([]domain.Article{
			article("a", "Completely unrelated title one", []string{"Smith A"}, 0),
			article("b", "Another title about something else", []string{"Smith A"}, 0),
		})
		assert.Empty(t, matches)
	})

	t.Run("missing author blocks the rule", func(t *testing.T) {
		t.Parallel()
		matches := d.Detect([]domain.Article{
			article("a", "Completely unrelated title one", nil, 2023),
			article("b", "Another title about something else", nil, 2023),
		})
		assert.Empty(t, matches)
	})

	t.Run("near-equal titles do not satisfy the equality clause", func(t *testing.T) {
		t.Parallel()
		// Similarity below threshold and titles not fold-equal: no match
		// even with matching author and year.
		matches := NewDetector(0.999).Detect([]domain.Article{
			article("a", "Study of X in mice", []string{"Smith A"}, 2023),
			article("b", "Study of Y in rats", []string{"Smith A"}, 2023),
		})
		assert.Empty(t, matches)
	})
}

func TestDetectEmptyTitleNeverMatches(t *testing.T) {
	t.Parallel()

	d := NewDetector(0)
	matches := d.Detect([]domain.Article{
		article("a", "", []string{"Smith A"}, 2023),
		article("b", "", []string{"Smith A"}, 2023),
	})
	assert.Empty(t, matches)
}

func TestDetectTransitiveChain(t *testing.T) {
	t.Parallel()

	// b duplicates a; c still matches against b's original data even
	// though b is itself a duplicate.
	d := NewDetector(0)
	articles := []domain.Article{
		article("a", "Study of X", nil, 0),
		article("b", "Study of X", nil, 0),
		article("c", "study of x ", nil, 0),
	}
	matches := d.Detect(articles)
	require.Len(t, matches, 2)
	assert.Equal(t, "b", matches[0].ID)
	assert.Equal(t, "a", matches[0].DuplicateOf)
	assert.Equal(t, "c", matches[1].ID)
	// First match wins: c matched the earliest qualifying article.
	assert.Equal(t, "a", matches[1].DuplicateOf)
}

func TestDetectFirstMatchWins(t *testing.T) {
	t.Parallel()

	d := NewDetector(0)
	articles := []domain.Article{
		article("x", "Alpha beta gamma delta", nil, 0),
		article("y", "Alpha beta gamma delta", nil, 0),
		article("z", "Alpha beta gamma delta", nil, 0),
	}
	matches := d.Detect(articles)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, "x", m.DuplicateOf)
	}
}

func TestDetectIsIdempotent(t *testing.T) {
	t.Parallel()

	d := NewDetector(0)
	articles := []domain.Article{
		article("a", "Study of X", []string{"Smith A"}, 2024),
		article("b", "Study of X ", []string{"Smith A"}, 2024),
		article("c", "Unrelated research topic entirely", []string{"Lee B"}, 2020),
	}

	first := d.Detect(articles)
	require.Len(t, first, 1)

	// Apply the marks as the store would, then run again: the marked
	// article is skipped and no new marks appear.
	articles[1].Status = domain.StatusDuplicate
	second := d.Detect(articles)
	assert.Empty(t, second)

	// Without applying the marks, repeated runs return identical output.
	articles[1].Status = domain.StatusUnscreened
	assert.Equal(t, first, d.Detect(articles))
}

func TestDetectSkipsAlreadyScreenedArticles(t *testing.T) {
	t.Parallel()

	d := NewDetector(0)
	a := article("a", "Study of X", nil, 0)
	b := article("b", "Study of X", nil, 0)
	b.Status = domain.StatusIncludedTitle

	// b has already been screened; marking it duplicate now would violate
	// the state machine, so the detector leaves it alone.
	assert.Empty(t, d.Detect([]domain.Article{a, b}))
}

func TestIDs(t *testing.T) {
	t.Parallel()

	matches := []Match{{ID: "b"}, {ID: "c"}}
	assert.Equal(t, []string{"b", "c"}, IDs(matches))
	assert.Empty(t, IDs(nil))
}
