package semanticscholar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/metapiqma/review-service/internal/domain"
	"github.com/metapiqma/review-service/internal/sources"
)

const (
	// DefaultBaseURL is the Academic Graph API base URL.
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultRateLimit is conservative for unauthenticated access; an API
	// key raises the allowance.
	DefaultRateLimit = 1.0

	DefaultBurstSize  = 1
	DefaultTimeout    = 30 * time.Second
	DefaultMaxResults = 20

	// searchFields lists the record fields requested from the API.
	searchFields = "title,abstract,year,authors,url"

	sourceName = "Semantic Scholar"
)

// Config holds the configuration for the Semantic Scholar client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RateLimit  float64
	BurstSize  int
	MaxResults int
	Enabled    bool
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
}

// Client implements the sources.Source interface for Semantic Scholar.
type Client struct {
	config     Config
	httpClient *sources.HTTPClient
}

var _ sources.Source = (*Client)(nil)

// New creates a Semantic Scholar client.
func New(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{
		config: cfg,
		httpClient: sources.NewHTTPClient(sources.HTTPClientConfig{
			Timeout:      cfg.Timeout,
			RateLimit:    cfg.RateLimit,
			BurstSize:    cfg.BurstSize,
			APIKey:       cfg.APIKey,
			APIKeyHeader: "x-api-key",
		}),
	}
}

// SourceType returns the provider tag.
func (c *Client) SourceType() domain.SourceType { return domain.SourceSemanticScholar }

// Name returns the human-readable provider name.
func (c *Client) Name() string { return sourceName }

// IsEnabled reports whether the source is enabled.
func (c *Client) IsEnabled() bool { return c.config.Enabled }

// Search queries /paper/search and maps the records to domain articles
// with ids of the form "semantic_<paperId>".
func (c *Client) Search(ctx context.Context, params sources.SearchParams) (*sources.SearchResult, error) {
	if !c.config.Enabled {
		return nil, errors.New("semantic scholar source is disabled")
	}
	if strings.TrimSpace(params.Query) == "" {
		return &sources.SearchResult{Source: domain.SourceSemanticScholar}, nil
	}

	start := time.Now()

	maxResults := params.MaxResults
	if maxResults <= 0 || maxResults > c.config.MaxResults {
		maxResults = c.config.MaxResults
	}

	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("limit", strconv.Itoa(maxResults))
	q.Set("fields", searchFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"/paper/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, "unexpected status", nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	articles := make([]domain.Article, 0, len(parsed.Data))
	for _, rec := range parsed.Data {
		articles = append(articles, mapRecord(rec))
	}

	return &sources.SearchResult{
		Articles:       articles,
		TotalResults:   parsed.Total,
		Source:         domain.SourceSemanticScholar,
		SearchDuration: time.Since(start),
	}, nil
}

func mapRecord(rec paperRecord) domain.Article {
	authors := make([]string, 0, len(rec.Authors))
	for _, a := range rec.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	return domain.Article{
		ID:       "semantic_" + rec.PaperID,
		Title:    strings.TrimSpace(rec.Title),
		Authors:  authors,
		Year:     rec.Year,
		Source:   domain.SourceSemanticScholar,
		Abstract: strings.TrimSpace(rec.Abstract),
		URL:      rec.URL,
	}
}
