// Package domain provides domain models and business logic for the
// systematic review service.
package domain

import "strings"

// SourceType identifies the literature database that provided an article.
// These values must match the database enum source_type.
type SourceType string

const (
	SourcePubMed          SourceType = "pubmed"
	SourceSemanticScholar SourceType = "semantic_scholar"
	SourceArXiv           SourceType = "arxiv"
	// SourceManual tags records entered by hand or loaded from an import
	// that carries no provider attribution.
	SourceManual SourceType = "manual"
)

// AllSourceTypes lists every recognized provider tag.
func AllSourceTypes() []SourceType {
	return []SourceType{SourcePubMed, SourceSemanticScholar, SourceArXiv, SourceManual}
}

// Article represents one bibliographic record within a review project.
type Article struct {
	// ID is unique within a project's article collection. Assigned by the
	// originating search provider or generated locally.
	ID string

	// Title is free text and may be empty.
	Title string

	// Authors is the ordered list of trimmed author names. Records arriving
	// with a single comma-separated author string must be normalized via
	// ParseAuthors before any algorithm consumes them.
	Authors []string

	// Year is the publication year, 0 when unknown.
	Year int

	// Source is the provider tag of the originating literature database.
	Source SourceType

	Abstract string
	URL      string

	// Status is the article's position in the screening state machine.
	Status Status

	// ExclusionReason is present only when Status is an exclusion state.
	ExclusionReason string

	// Placeholder marks a record fabricated for extraction data that
	// references an article no longer present in the live collection.
	// Placeholder articles never participate in screening or counting.
	Placeholder bool
}

// NewPlaceholder creates an explicitly tagged placeholder article for an
// orphaned reference. Only the identifier is meaningful.
func NewPlaceholder(id string) Article {
	return Article{ID: id, Placeholder: true}
}

// ParseAuthors normalizes a raw comma-separated author string into an
// ordered list of trimmed names. Empty segments are dropped.
func ParseAuthors(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// NormalizedAuthors returns the article's author list with each name
// trimmed and empty entries dropped, preserving order.
func (a *Article) NormalizedAuthors() []string {
	if len(a.Authors) == 0 {
		return nil
	}
	authors := make([]string, 0, len(a.Authors))
	for _, name := range a.Authors {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			authors = append(authors, trimmed)
		}
	}
	return authors
}

// FirstAuthor returns the first normalized author name, or "" when the
// article has no authors.
func (a *Article) FirstAuthor() string {
	authors := a.NormalizedAuthors()
	if len(authors) == 0 {
		return ""
	}
	return authors[0]
}

// AuthorsString joins the normalized author list with ", " for display and
// export.
func (a *Article) AuthorsString() string {
	return strings.Join(a.NormalizedAuthors(), ", ")
}

// HasField reports whether the article carries a non-empty value for the
// given completeness field.
func (a *Article) HasField(f CompletenessField) bool {
	switch f {
	case FieldTitle:
		return strings.TrimSpace(a.Title) != ""
	case FieldAuthors:
		return len(a.NormalizedAuthors()) > 0
	case FieldYear:
		return a.Year != 0
	case FieldURL:
		return strings.TrimSpace(a.URL) != ""
	case FieldAbstract:
		return strings.TrimSpace(a.Abstract) != ""
	default:
		return false
	}
}
