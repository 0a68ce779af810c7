package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAuthors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "comma separated",
			input:    "Dr. Smith, Dr. Lee",
			expected: []string{"Dr. Smith", "Dr. Lee"},
		},
		{
			name:     "extra whitespace",
			input:    "  Smith A ,  Johnson B  ",
			expected: []string{"Smith A", "Johnson B"},
		},
		{
			name:     "single author",
			input:    "Garcia F",
			expected: []string{"Garcia F"},
		},
		{
			name:     "empty segments dropped",
			input:    "Chen X,, ,Wang Y",
			expected: []string{"Chen X", "Wang Y"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ParseAuthors(tt.input))
		})
	}
}

func TestArticleFirstAuthor(t *testing.T) {
	t.Parallel()

	a := Article{Authors: []string{"  Smith A ", "Johnson B"}}
	assert.Equal(t, "Smith A", a.FirstAuthor())
	assert.Equal(t, "Smith A, Johnson B", a.AuthorsString())

	empty := Article{}
	assert.Equal(t, "", empty.FirstAuthor())

	blank := Article{Authors: []string{"  ", ""}}
	assert.Equal(t, "", blank.FirstAuthor())
}

func TestArticleHasField(t *testing.T) {
	t.Parallel()

	a := Article{
		Title:    "Study of X",
		Authors:  []string{"Smith A"},
		Year:     2024,
		URL:      "https://example.org/x",
		Abstract: "An abstract.",
	}
	for _, f := range []CompletenessField{FieldTitle, FieldAuthors, FieldYear, FieldURL, FieldAbstract} {
		assert.True(t, a.HasField(f), "field %s", f)
	}

	empty := Article{Title: "   "}
	for _, f := range []CompletenessField{FieldTitle, FieldAuthors, FieldYear, FieldURL, FieldAbstract} {
		assert.False(t, empty.HasField(f), "field %s", f)
	}
}

func TestNewPlaceholder(t *testing.T) {
	t.Parallel()

	p := NewPlaceholder("pubmed_42")
	assert.True(t, p.Placeholder)
	assert.Equal(t, "pubmed_42", p.ID)
	assert.Empty(t, p.Title)
}
