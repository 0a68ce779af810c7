package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{
			name:     "identical titles",
			a:        "Study of X",
			b:        "Study of X",
			expected: 1.0,
		},
		{
			name:     "trailing whitespace trimmed",
			a:        "Study of X",
			b:        "Study of X ",
			expected: 1.0,
		},
		{
			name:     "case folded",
			a:        "STUDY OF X",
			b:        "study of x",
			expected: 1.0,
		},
		{
			name:     "empty title never matches",
			a:        "",
			b:        "Study of X",
			expected: 0,
		},
		{
			name:     "both empty never match",
			a:        "",
			b:        "",
			expected: 0,
		},
		{
			name:     "whitespace-only title never matches",
			a:        "   ",
			b:        "Study of X",
			expected: 0,
		},
		{
			name:     "single substitution in ten chars",
			a:        "study of x",
			b:        "study of y",
			expected: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expected, TitleSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestTitleSimilaritySymmetric(t *testing.T) {
	t.Parallel()

	a := "Metformin and Glycemic Control in Type 2 Diabetes"
	b := "Metformin and Glycaemic Control in Type 2 Diabetes"
	assert.Equal(t, TitleSimilarity(a, b), TitleSimilarity(b, a))
	assert.Greater(t, TitleSimilarity(a, b), 0.95)
}

func TestAuthorsFoldEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, authorsFoldEqual("Smith A", "smith a"))
	assert.True(t, authorsFoldEqual("  Smith A ", "Smith A"))
	assert.False(t, authorsFoldEqual("", ""))
	assert.False(t, authorsFoldEqual("Smith A", "Smith B"))
}
