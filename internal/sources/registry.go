package sources

import (
	"context"
	"fmt"
	"sync"

	"github.com/metapiqma/review-service/internal/domain"
)

// SourceResult holds the outcome of one provider search within a fan-out.
type SourceResult struct {
	Source domain.SourceType
	Result *SearchResult
	Error  error
}

// Query carries per-provider strategy strings plus enable flags, the shape
// the search API accepts. A provider participates when its flag is set and
// its strategy is non-empty.
type Query struct {
	PubMed          string
	SemanticScholar string
	ArXiv           string

	PubMedEnabled          bool
	SemanticScholarEnabled bool
	ArXivEnabled           bool

	MaxResultsPerSource int
}

// strategyFor returns the strategy string for a source type and whether the
// provider is requested.
func (q Query) strategyFor(st domain.SourceType) (string, bool) {
	switch st {
	case domain.SourcePubMed:
		return q.PubMed, q.PubMedEnabled && q.PubMed != ""
	case domain.SourceSemanticScholar:
		return q.SemanticScholar, q.SemanticScholarEnabled && q.SemanticScholar != ""
	case domain.SourceArXiv:
		return q.ArXiv, q.ArXivEnabled && q.ArXiv != ""
	default:
		return "", false
	}
}

// IsEmpty reports whether no provider is both enabled and given a strategy.
func (q Query) IsEmpty() bool {
	for _, st := range domain.AllSourceTypes() {
		if _, ok := q.strategyFor(st); ok {
			return false
		}
	}
	return true
}

// Registry manages sources and coordinates concurrent searches. Safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	sources map[domain.SourceType]Source
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[domain.SourceType]Source)}
}

// Register adds a source, replacing any existing source of the same type.
func (r *Registry) Register(source Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.SourceType()] = source
}

// Get returns a source by type, or nil if not registered.
func (r *Registry) Get(st domain.SourceType) Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources[st]
}

// EnabledSources returns a snapshot of the sources whose IsEnabled reports
// true.
func (r *Registry) EnabledSources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		if s.IsEnabled() {
			out = append(out, s)
		}
	}
	return out
}

// SearchAll fans the query out across the requested, enabled, registered
// sources concurrently and returns one result per participating source.
// Errors are included, not filtered; Aggregate applies the all-or-nothing
// rule.
func (r *Registry) SearchAll(ctx context.Context, query Query) []SourceResult {
	type job struct {
		source   Source
		strategy string
	}

	r.mu.RLock()
	var jobs []job
	for st, source := range r.sources {
		strategy, requested := query.strategyFor(st)
		if !requested || !source.IsEnabled() {
			continue
		}
		jobs = append(jobs, job{source: source, strategy: strategy})
	}
	r.mu.RUnlock()

	if len(jobs) == 0 {
		return nil
	}

	resultChan := make(chan SourceResult, len(jobs))
	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			result, err := j.source.Search(ctx, SearchParams{
				Query:      j.strategy,
				MaxResults: query.MaxResultsPerSource,
			})
			resultChan <- SourceResult{
				Source: j.source.SourceType(),
				Result: result,
				Error:  err,
			}
		}(j)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]SourceResult, 0, len(jobs))
	for result := range resultChan {
		results = append(results, result)
	}
	return results
}

// Aggregate applies the all-or-nothing rule to fan-out results: if any
// provider failed, the whole operation fails with a single aggregated
// error and no articles are returned; otherwise the article batches are
// concatenated in a stable provider order.
func Aggregate(results []SourceResult) ([]domain.Article, error) {
	for _, r := range results {
		if r.Error != nil {
			return nil, fmt.Errorf("search failed for %s: %w", r.Source, r.Error)
		}
	}

	// Stable order: pubmed, semantic scholar, arxiv, then anything else.
	order := map[domain.SourceType]int{
		domain.SourcePubMed:          0,
		domain.SourceSemanticScholar: 1,
		domain.SourceArXiv:           2,
	}
	sorted := make([]SourceResult, len(results))
	copy(sorted, results)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && order[sorted[j].Source] < order[sorted[j-1].Source]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	var articles []domain.Article
	for _, r := range sorted {
		if r.Result != nil {
			articles = append(articles, r.Result.Articles...)
		}
	}
	return articles, nil
}
