package domain

// Status represents the lifecycle state of an article within a review.
// These values must match the database enum article_status.
type Status string

const (
	// StatusUnscreened is the only initial state for newly ingested articles.
	StatusUnscreened Status = "unscreened"

	// StatusDuplicate marks an article detected as a duplicate of an
	// earlier-arriving article. Terminal.
	StatusDuplicate Status = "duplicate"

	// Removal states for articles filtered out before screening because a
	// required bibliographic field is missing. All terminal.
	StatusRemovedWithoutTitle    Status = "removed_without_title"
	StatusRemovedWithoutAuthors  Status = "removed_without_authors"
	StatusRemovedWithoutYear     Status = "removed_without_year"
	StatusRemovedWithoutURL      Status = "removed_without_url"
	StatusRemovedWithoutAbstract Status = "removed_without_abstract"

	// StatusIncludedTitle marks an article that passed title/abstract
	// screening and awaits a full-text eligibility decision.
	StatusIncludedTitle Status = "included_title"

	// StatusExcludedTitle marks an article rejected at title/abstract
	// screening. Terminal.
	StatusExcludedTitle Status = "excluded_title"

	// StatusIncludedFinal marks an article included after full-text review.
	// Terminal.
	StatusIncludedFinal Status = "included_final"

	// StatusExcludedFulltext marks an article rejected at full-text review.
	// Always carries a non-empty exclusion reason. Terminal.
	StatusExcludedFulltext Status = "excluded_fulltext"
)

// AllStatuses lists every valid status value.
func AllStatuses() []Status {
	return []Status{
		StatusUnscreened,
		StatusDuplicate,
		StatusRemovedWithoutTitle,
		StatusRemovedWithoutAuthors,
		StatusRemovedWithoutYear,
		StatusRemovedWithoutURL,
		StatusRemovedWithoutAbstract,
		StatusIncludedTitle,
		StatusExcludedTitle,
		StatusIncludedFinal,
		StatusExcludedFulltext,
	}
}

// IsValid returns true if the status is one of the defined values.
func (s Status) IsValid() bool {
	switch s {
	case StatusUnscreened, StatusDuplicate,
		StatusRemovedWithoutTitle, StatusRemovedWithoutAuthors,
		StatusRemovedWithoutYear, StatusRemovedWithoutURL,
		StatusRemovedWithoutAbstract,
		StatusIncludedTitle, StatusExcludedTitle,
		StatusIncludedFinal, StatusExcludedFulltext:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status represents a final state from which
// no further transition is permitted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDuplicate,
		StatusRemovedWithoutTitle, StatusRemovedWithoutAuthors,
		StatusRemovedWithoutYear, StatusRemovedWithoutURL,
		StatusRemovedWithoutAbstract,
		StatusExcludedTitle, StatusExcludedFulltext, StatusIncludedFinal:
		return true
	default:
		return false
	}
}

// IsRemoved returns true for the five removal states applied by the
// completeness filters.
func (s Status) IsRemoved() bool {
	switch s {
	case StatusRemovedWithoutTitle, StatusRemovedWithoutAuthors,
		StatusRemovedWithoutYear, StatusRemovedWithoutURL,
		StatusRemovedWithoutAbstract:
		return true
	default:
		return false
	}
}

// CanTransition reports whether the state machine permits moving an article
// from one status to another. The legal transitions are:
//
//	unscreened      -> duplicate | removed_without_* | included_title | excluded_title
//	included_title  -> included_final | excluded_fulltext
//
// Terminal states permit no outgoing transitions.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusUnscreened:
		switch to {
		case StatusDuplicate,
			StatusRemovedWithoutTitle, StatusRemovedWithoutAuthors,
			StatusRemovedWithoutYear, StatusRemovedWithoutURL,
			StatusRemovedWithoutAbstract,
			StatusIncludedTitle, StatusExcludedTitle:
			return true
		}
		return false
	case StatusIncludedTitle:
		switch to {
		case StatusIncludedFinal, StatusExcludedFulltext:
			return true
		}
		return false
	default:
		// duplicate, removed_without_*, excluded_title, excluded_fulltext,
		// included_final: all terminal.
		return false
	}
}

// CompletenessField identifies the bibliographic field checked by a batch
// removal filter, together with the removal status it applies.
type CompletenessField string

const (
	FieldTitle    CompletenessField = "title"
	FieldAuthors  CompletenessField = "authors"
	FieldYear     CompletenessField = "year"
	FieldURL      CompletenessField = "url"
	FieldAbstract CompletenessField = "abstract"
)

// RemovalStatus returns the removal status a completeness filter applies
// when the field is missing.
func (f CompletenessField) RemovalStatus() (Status, bool) {
	switch f {
	case FieldTitle:
		return StatusRemovedWithoutTitle, true
	case FieldAuthors:
		return StatusRemovedWithoutAuthors, true
	case FieldYear:
		return StatusRemovedWithoutYear, true
	case FieldURL:
		return StatusRemovedWithoutURL, true
	case FieldAbstract:
		return StatusRemovedWithoutAbstract, true
	default:
		return "", false
	}
}
