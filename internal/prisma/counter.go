// Package prisma derives PRISMA 2020 flow-diagram counts from an article
// store snapshot.
//
// Every count is a pure function of the status tags in the snapshot plus
// the originally-identified scalar captured at ingestion time; counts are
// recomputed fully on every derivation rather than accumulated
// incrementally, so they can never drift from the store.
package prisma

import (
	"fmt"

	"github.com/metapiqma/review-service/internal/domain"
)

// Counts is the structured PRISMA 2020 count record.
type Counts struct {
	// PreviouslyIdentified is the count of articles originally identified,
	// captured before any filtering. Already-removed articles still count.
	PreviouslyIdentified int `json:"previously_identified_total"`

	// IdentifiedPerSource counts articles per provider whose status is not
	// a removed_without_* state.
	IdentifiedPerSource map[domain.SourceType]int `json:"identified_per_source"`

	DuplicatesRemoved int `json:"duplicates_removed"`

	WithoutTitle    int `json:"without_title"`
	WithoutAuthors  int `json:"without_authors"`
	WithoutYear     int `json:"without_year"`
	WithoutURL      int `json:"without_url"`
	WithoutAbstract int `json:"without_abstract"`

	// EliminatedBeforeScreening is the sum of duplicates and the five
	// removal counts.
	EliminatedBeforeScreening int `json:"eliminated_before_screening"`

	// RecordsScreened is the identified total minus everything eliminated
	// before screening.
	RecordsScreened int `json:"records_screened"`

	ExcludedAtTitle int `json:"excluded_at_title"`

	// AssessedFulltext counts articles currently at included_title: the
	// ones that proceeded to eligibility and await a decision.
	AssessedFulltext int `json:"assessed_fulltext"`

	// IncludedTitlePending equals AssessedFulltext; it is named separately
	// because the sum invariant is stated over the pending count.
	IncludedTitlePending int `json:"included_title_pending"`

	// ExcludedFulltextByReason partitions full-text exclusions into the
	// fixed predefined reasons (always present, possibly zero) plus a
	// dynamic bucket per distinct custom reason actually observed.
	ExcludedFulltextByReason map[string]int `json:"excluded_fulltext_by_reason"`

	ExcludedFulltext int `json:"excluded_fulltext"`

	IncludedFinal int `json:"included_final"`
}

// Derive computes the full count record from a store snapshot.
// identifiedTotal is the originally-identified scalar; predefinedReasons
// seeds the exclusion-reason partition with zero-valued fixed buckets.
func Derive(articles []domain.Article, identifiedTotal int, predefinedReasons []string) Counts {
	c := Counts{
		PreviouslyIdentified:     identifiedTotal,
		IdentifiedPerSource:      make(map[domain.SourceType]int),
		ExcludedFulltextByReason: make(map[string]int, len(predefinedReasons)),
	}
	for _, reason := range predefinedReasons {
		c.ExcludedFulltextByReason[reason] = 0
	}

	for _, a := range articles {
		if a.Placeholder {
			continue
		}

		if !a.Status.IsRemoved() {
			c.IdentifiedPerSource[a.Source]++
		}

		switch a.Status {
		case domain.StatusDuplicate:
			c.DuplicatesRemoved++
		case domain.StatusRemovedWithoutTitle:
			c.WithoutTitle++
		case domain.StatusRemovedWithoutAuthors:
			c.WithoutAuthors++
		case domain.StatusRemovedWithoutYear:
			c.WithoutYear++
		case domain.StatusRemovedWithoutURL:
			c.WithoutURL++
		case domain.StatusRemovedWithoutAbstract:
			c.WithoutAbstract++
		case domain.StatusExcludedTitle:
			c.ExcludedAtTitle++
		case domain.StatusIncludedTitle:
			c.AssessedFulltext++
		case domain.StatusExcludedFulltext:
			c.ExcludedFulltext++
			// Custom reasons are discovered, not predeclared.
			c.ExcludedFulltextByReason[a.ExclusionReason]++
		case domain.StatusIncludedFinal:
			c.IncludedFinal++
		case domain.StatusUnscreened:
			// Identified but not yet screened; contributes to
			// RecordsScreened via the subtraction below, to no stage
			// bucket.
		}
	}

	c.EliminatedBeforeScreening = c.DuplicatesRemoved +
		c.WithoutTitle + c.WithoutAuthors + c.WithoutYear +
		c.WithoutURL + c.WithoutAbstract
	c.RecordsScreened = c.PreviouslyIdentified - c.EliminatedBeforeScreening
	c.IncludedTitlePending = c.AssessedFulltext

	return c
}

// CheckInvariant verifies the standing PRISMA sum equality:
//
//	previously_identified_total == eliminated_before_screening +
//	    excluded_at_title + included_title_pending +
//	    excluded_fulltext + included_final
//
// when every identified article has entered the store (the unscreened count
// closes the gap otherwise). A violation is a programming-contract
// violation, not a recoverable runtime condition.
func (c Counts) CheckInvariant(unscreened int) error {
	sum := c.EliminatedBeforeScreening + c.ExcludedAtTitle +
		c.IncludedTitlePending + c.ExcludedFulltext + c.IncludedFinal + unscreened
	if c.PreviouslyIdentified != sum {
		return fmt.Errorf("prisma sum invariant violated: identified %d != partitioned %d",
			c.PreviouslyIdentified, sum)
	}
	return nil
}
