package arxiv

import (
	"context"
	"encoding/xml"
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
	// DefaultBaseURL is the ArXiv export API base URL.
	DefaultBaseURL = "http://export.arxiv.org/api/query"

	// DefaultRateLimit follows the ArXiv API terms of use, which ask
	// clients to wait three seconds between requests.
	DefaultRateLimit = 0.3

	DefaultBurstSize  = 1
	DefaultTimeout    = 30 * time.Second
	DefaultMaxResults = 20

	sourceName = "ArXiv"
)

// Config holds the configuration for the ArXiv client.
type Config struct {
	BaseURL    string
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

// Client implements the sources.Source interface for ArXiv.
type Client struct {
	config     Config
	httpClient *sources.HTTPClient
}

var _ sources.Source = (*Client)(nil)

// New creates an ArXiv client.
func New(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{
		config: cfg,
		httpClient: sources.NewHTTPClient(sources.HTTPClientConfig{
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
			BurstSize: cfg.BurstSize,
		}),
	}
}

// SourceType returns the provider tag.
func (c *Client) SourceType() domain.SourceType { return domain.SourceArXiv }

// Name returns the human-readable provider name.
func (c *Client) Name() string { return sourceName }

// IsEnabled reports whether the source is enabled.
func (c *Client) IsEnabled() bool { return c.config.Enabled }

// Search queries the Atom feed endpoint and maps the entries to domain
// articles with ids of the form "arxiv_<id>".
func (c *Client) Search(ctx context.Context, params sources.SearchParams) (*sources.SearchResult, error) {
	if !c.config.Enabled {
		return nil, errors.New("arxiv source is disabled")
	}
	if strings.TrimSpace(params.Query) == "" {
		return &sources.SearchResult{Source: domain.SourceArXiv}, nil
	}

	start := time.Now()

	maxResults := params.MaxResults
	if maxResults <= 0 || maxResults > c.config.MaxResults {
		maxResults = c.config.MaxResults
	}

	q := url.Values{}
	q.Set("search_query", "all:"+params.Query)
	q.Set("start", "0")
	q.Set("max_results", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"?"+q.Encode(), nil)
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

	var parsed feed
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	articles := make([]domain.Article, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		articles = append(articles, mapEntry(e))
	}

	total := parsed.TotalResults
	if total == 0 {
		total = len(articles)
	}

	return &sources.SearchResult{
		Articles:       articles,
		TotalResults:   total,
		Source:         domain.SourceArXiv,
		SearchDuration: time.Since(start),
	}, nil
}

func mapEntry(e entry) domain.Article {
	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	return domain.Article{
		ID:       "arxiv_" + shortID(e.ID),
		Title:    collapseWhitespace(e.Title),
		Authors:  authors,
		Year:     parseYear(e.Published),
		Source:   domain.SourceArXiv,
		Abstract: collapseWhitespace(e.Summary),
		URL:      e.ID,
	}
}

// shortID extracts the bare identifier from an entry id such as
// "http://arxiv.org/abs/2101.00001v2".
func shortID(id string) string {
	id = strings.TrimSpace(id)
	if idx := strings.LastIndex(id, "/abs/"); idx >= 0 {
		return id[idx+len("/abs/"):]
	}
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		return id[idx+1:]
	}
	return id
}

// parseYear reads the year from an RFC 3339 published timestamp.
func parseYear(published string) int {
	published = strings.TrimSpace(published)
	if len(published) < 4 {
		return 0
	}
	year, err := strconv.Atoi(published[:4])
	if err != nil {
		return 0
	}
	return year
}

// collapseWhitespace joins the hard-wrapped lines Atom feeds use for
// titles and summaries into a single-spaced string.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
