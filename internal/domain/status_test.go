package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"unscreened to duplicate", StatusUnscreened, StatusDuplicate, true},
		{"unscreened to removed without title", StatusUnscreened, StatusRemovedWithoutTitle, true},
		{"unscreened to removed without abstract", StatusUnscreened, StatusRemovedWithoutAbstract, true},
		{"unscreened to included title", StatusUnscreened, StatusIncludedTitle, true},
		{"unscreened to excluded title", StatusUnscreened, StatusExcludedTitle, true},
		{"unscreened skips eligibility", StatusUnscreened, StatusIncludedFinal, false},
		{"unscreened skips to fulltext exclusion", StatusUnscreened, StatusExcludedFulltext, false},
		{"included title to final", StatusIncludedTitle, StatusIncludedFinal, true},
		{"included title to fulltext exclusion", StatusIncludedTitle, StatusExcludedFulltext, true},
		{"included title back to unscreened", StatusIncludedTitle, StatusUnscreened, false},
		{"included title to duplicate", StatusIncludedTitle, StatusDuplicate, false},
		{"duplicate is terminal", StatusDuplicate, StatusIncludedTitle, false},
		{"removed is terminal", StatusRemovedWithoutYear, StatusIncludedTitle, false},
		{"removed cannot become another removed", StatusRemovedWithoutTitle, StatusRemovedWithoutAbstract, false},
		{"excluded title is terminal", StatusExcludedTitle, StatusIncludedTitle, false},
		{"excluded fulltext is terminal", StatusExcludedFulltext, StatusIncludedFinal, false},
		{"included final is terminal", StatusIncludedFinal, StatusExcludedFulltext, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminalStatesAdmitNoTransitions(t *testing.T) {
	t.Parallel()

	for _, from := range AllStatuses() {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range AllStatuses() {
			assert.False(t, CanTransition(from, to),
				"terminal state %q must not transition to %q", from, to)
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	t.Parallel()

	assert.False(t, StatusUnscreened.IsTerminal())
	assert.False(t, StatusIncludedTitle.IsTerminal())
	assert.True(t, StatusIncludedFinal.IsTerminal())

	assert.True(t, StatusRemovedWithoutURL.IsRemoved())
	assert.False(t, StatusDuplicate.IsRemoved())
	assert.False(t, StatusExcludedTitle.IsRemoved())

	assert.True(t, StatusUnscreened.IsValid())
	assert.False(t, Status("removed_").IsValid())
}

func TestCompletenessFieldRemovalStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field  CompletenessField
		status Status
	}{
		{FieldTitle, StatusRemovedWithoutTitle},
		{FieldAuthors, StatusRemovedWithoutAuthors},
		{FieldYear, StatusRemovedWithoutYear},
		{FieldURL, StatusRemovedWithoutURL},
		{FieldAbstract, StatusRemovedWithoutAbstract},
	}
	for _, tt := range tests {
		status, ok := tt.field.RemovalStatus()
		assert.True(t, ok)
		assert.Equal(t, tt.status, status)
	}

	_, ok := CompletenessField("doi").RemovalStatus()
	assert.False(t, ok)
}
