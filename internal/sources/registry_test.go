package sources

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metapiqma/review-service/internal/domain"
)

type fakeSource struct {
	sourceType domain.SourceType
	name       string
	enabled    bool
	articles   []domain.Article
	err        error
	delay      time.Duration

	mu      sync.Mutex
	queries []string
}

var _ Source = (*fakeSource)(nil)

func (f *fakeSource) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, params.Query)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &SearchResult{
		Articles:     f.articles,
		TotalResults: len(f.articles),
		Source:       f.sourceType,
	}, nil
}

func (f *fakeSource) SourceType() domain.SourceType { return f.sourceType }
func (f *fakeSource) Name() string                  { return f.name }
func (f *fakeSource) IsEnabled() bool               { return f.enabled }

func (f *fakeSource) receivedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.queries))
	copy(out, f.queries)
	return out
}

func article(id, title string, source domain.SourceType) domain.Article {
	return domain.Article{ID: id, Title: title, Source: source}
}

func TestQueryIsEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query Query
		empty bool
	}{
		{
			name:  "zero value",
			query: Query{},
			empty: true,
		},
		{
			name:  "strategy without enable flag",
			query: Query{PubMed: "cancer[tiab]"},
			empty: true,
		},
		{
			name:  "enable flag without strategy",
			query: Query{PubMedEnabled: true},
			empty: true,
		},
		{
			name:  "one enabled provider with strategy",
			query: Query{ArXiv: "all:cancer", ArXivEnabled: true},
			empty: false,
		},
		{
			name: "all providers enabled",
			query: Query{
				PubMed: "a", PubMedEnabled: true,
				SemanticScholar: "b", SemanticScholarEnabled: true,
				ArXiv: "c", ArXivEnabled: true,
			},
			empty: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.empty, tc.query.IsEmpty())
		})
	}
}

func TestRegistrySearchAllFansOutToRequestedSources(t *testing.T) {
	t.Parallel()

	pubmed := &fakeSource{
		sourceType: domain.SourcePubMed,
		name:       "PubMed",
		enabled:    true,
		articles:   []domain.Article{article("pubmed_1", "A", domain.SourcePubMed)},
	}
	semantic := &fakeSource{
		sourceType: domain.SourceSemanticScholar,
		name:       "Semantic Scholar",
		enabled:    true,
		articles:   []domain.Article{article("semantic_x", "B", domain.SourceSemanticScholar)},
	}
	arxiv := &fakeSource{
		sourceType: domain.SourceArXiv,
		name:       "ArXiv",
		enabled:    true,
		articles:   []domain.Article{article("arxiv_1", "C", domain.SourceArXiv)},
	}

	registry := NewRegistry()
	registry.Register(pubmed)
	registry.Register(semantic)
	registry.Register(arxiv)

	results := registry.SearchAll(context.Background(), Query{
		PubMed:                 "cancer[tiab]",
		PubMedEnabled:          true,
		SemanticScholarEnabled: true,
		SemanticScholar:        "cancer treatment",
	})

	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Error)
	}

	assert.Equal(t, []string{"cancer[tiab]"}, pubmed.receivedQueries())
	assert.Equal(t, []string{"cancer treatment"}, semantic.receivedQueries())
	assert.Empty(t, arxiv.receivedQueries(), "arxiv was not requested")
}

func TestRegistrySearchAllSkipsDisabledSources(t *testing.T) {
	t.Parallel()

	disabled := &fakeSource{sourceType: domain.SourcePubMed, name: "PubMed", enabled: false}

	registry := NewRegistry()
	registry.Register(disabled)

	results := registry.SearchAll(context.Background(), Query{
		PubMed:        "cancer",
		PubMedEnabled: true,
	})

	assert.Nil(t, results)
	assert.Empty(t, disabled.receivedQueries())
}

func TestRegistrySearchAllRunsConcurrently(t *testing.T) {
	t.Parallel()

	delay := 100 * time.Millisecond
	registry := NewRegistry()
	registry.Register(&fakeSource{sourceType: domain.SourcePubMed, name: "PubMed", enabled: true, delay: delay})
	registry.Register(&fakeSource{sourceType: domain.SourceArXiv, name: "ArXiv", enabled: true, delay: delay})

	start := time.Now()
	results := registry.SearchAll(context.Background(), Query{
		PubMed: "a", PubMedEnabled: true,
		ArXiv: "b", ArXivEnabled: true,
	})
	elapsed := time.Since(start)

	require.Len(t, results, 2)
	assert.Less(t, elapsed, 2*delay, "sources should be searched in parallel")
}

func TestAggregateConcatenatesInStableProviderOrder(t *testing.T) {
	t.Parallel()

	// Results arrive in channel order, which is nondeterministic; feed them
	// deliberately reversed.
	results := []SourceResult{
		{
			Source: domain.SourceArXiv,
			Result: &SearchResult{Articles: []domain.Article{article("arxiv_1", "C", domain.SourceArXiv)}},
		},
		{
			Source: domain.SourceSemanticScholar,
			Result: &SearchResult{Articles: []domain.Article{article("semantic_x", "B", domain.SourceSemanticScholar)}},
		},
		{
			Source: domain.SourcePubMed,
			Result: &SearchResult{Articles: []domain.Article{article("pubmed_1", "A", domain.SourcePubMed)}},
		},
	}

	articles, err := Aggregate(results)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "pubmed_1", articles[0].ID)
	assert.Equal(t, "semantic_x", articles[1].ID)
	assert.Equal(t, "arxiv_1", articles[2].ID)
}

func TestAggregateFailsWhenAnyProviderFails(t *testing.T) {
	t.Parallel()

	providerErr := errors.New("rate limited")
	results := []SourceResult{
		{
			Source: domain.SourcePubMed,
			Result: &SearchResult{Articles: []domain.Article{article("pubmed_1", "A", domain.SourcePubMed)}},
		},
		{Source: domain.SourceArXiv, Error: providerErr},
	}

	articles, err := Aggregate(results)
	require.Error(t, err)
	assert.ErrorIs(t, err, providerErr)
	assert.Nil(t, articles, "no partial batches on failure")
}

func TestAggregateEndToEnd(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(&fakeSource{
		sourceType: domain.SourcePubMed,
		name:       "PubMed",
		enabled:    true,
		articles: []domain.Article{
			article("pubmed_1", "A", domain.SourcePubMed),
			article("pubmed_2", "B", domain.SourcePubMed),
		},
	})
	registry.Register(&fakeSource{
		sourceType: domain.SourceArXiv,
		name:       "ArXiv",
		enabled:    true,
		err:        errors.New("service unavailable"),
	})

	t.Run("failing provider poisons the batch", func(t *testing.T) {
		t.Parallel()
		results := registry.SearchAll(context.Background(), Query{
			PubMed: "a", PubMedEnabled: true,
			ArXiv: "b", ArXivEnabled: true,
		})
		articles, err := Aggregate(results)
		require.Error(t, err)
		assert.Nil(t, articles)
	})

	t.Run("excluding the failing provider succeeds", func(t *testing.T) {
		t.Parallel()
		results := registry.SearchAll(context.Background(), Query{
			PubMed: "a", PubMedEnabled: true,
		})
		articles, err := Aggregate(results)
		require.NoError(t, err)
		assert.Len(t, articles, 2)
	})
}

func TestRegistryGetAndEnabledSources(t *testing.T) {
	t.Parallel()

	enabled := &fakeSource{sourceType: domain.SourcePubMed, name: "PubMed", enabled: true}
	disabled := &fakeSource{sourceType: domain.SourceArXiv, name: "ArXiv", enabled: false}

	registry := NewRegistry()
	registry.Register(enabled)
	registry.Register(disabled)

	assert.Same(t, Source(enabled), registry.Get(domain.SourcePubMed))
	assert.Nil(t, registry.Get(domain.SourceSemanticScholar))

	active := registry.EnabledSources()
	require.Len(t, active, 1)
	assert.Equal(t, domain.SourcePubMed, active[0].SourceType())
}
