// Package sources provides the search provider contract and clients for
// the literature databases a review searches.
//
// Each database (PubMed, Semantic Scholar, ArXiv) implements the Source
// interface. The Registry fans a search out across enabled sources
// concurrently and aggregates all-or-nothing: a failure from any provider
// fails the whole operation, so a batch of returned articles is either
// accepted completely or not at all.
package sources

import (
	"context"
	"time"

	"github.com/metapiqma/review-service/internal/domain"
)

// SearchParams defines the parameters for one provider search.
type SearchParams struct {
	// Query is the provider-specific search strategy string (required).
	Query string

	// MaxResults limits the number of articles returned. A value of 0 uses
	// the source's default limit.
	MaxResults int
}

// SearchResult contains the results from one provider search.
type SearchResult struct {
	// Articles contains the article-shaped records returned by the search,
	// already mapped to the domain model with status left unset; the store
	// assigns unscreened on ingestion.
	Articles []domain.Article

	// TotalResults is the total number of records matching the query as
	// reported by the provider, which may exceed len(Articles).
	TotalResults int

	// Source identifies which provider produced these results.
	Source domain.SourceType

	// SearchDuration is the time taken to execute the search, including
	// network latency and response parsing.
	SearchDuration time.Duration
}

// Source is the contract every literature database client implements.
type Source interface {
	// Search queries the provider for articles matching the given
	// parameters. Implementations must respect context cancellation and
	// deadlines, apply their own rate limiting, and map provider records
	// to domain.Article.
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)

	// SourceType returns the provider tag for attribution and routing.
	SourceType() domain.SourceType

	// Name returns a human-readable provider name for logging and errors.
	Name() string

	// IsEnabled reports whether the source is available for searches. A
	// source may be disabled by configuration or a missing API key.
	IsEnabled() bool
}
