package pubmed

import (
	"context"
	"encoding/json"
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
	// DefaultBaseURL is the base URL for NCBI E-utilities.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultRateLimit is the rate limit without an API key. With a key
	// NCBI allows 10 requests per second.
	DefaultRateLimit = 3.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 3

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResults is the default maximum results per search.
	DefaultMaxResults = 20

	sourceName = "PubMed"
)

// Config holds the configuration for the PubMed client.
type Config struct {
	// BaseURL overrides DefaultBaseURL; used by tests.
	BaseURL string

	// APIKey is the optional NCBI API key for higher rate limits.
	APIKey string

	Timeout    time.Duration
	RateLimit  float64
	BurstSize  int
	MaxResults int

	// Enabled gates the source; when false, Search returns an error and
	// IsEnabled reports false.
	Enabled bool
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

// Client implements the sources.Source interface for PubMed.
type Client struct {
	config     Config
	httpClient *sources.HTTPClient
}

// Compile-time check that Client implements Source.
var _ sources.Source = (*Client)(nil)

// New creates a PubMed client.
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
func (c *Client) SourceType() domain.SourceType { return domain.SourcePubMed }

// Name returns the human-readable provider name.
func (c *Client) Name() string { return sourceName }

// IsEnabled reports whether the source is enabled.
func (c *Client) IsEnabled() bool { return c.config.Enabled }

// Search runs the two-step esearch/efetch query and maps the records to
// domain articles with ids of the form "pubmed_<pmid>".
func (c *Client) Search(ctx context.Context, params sources.SearchParams) (*sources.SearchResult, error) {
	if !c.config.Enabled {
		return nil, errors.New("pubmed source is disabled")
	}
	if strings.TrimSpace(params.Query) == "" {
		return &sources.SearchResult{Source: domain.SourcePubMed}, nil
	}

	start := time.Now()

	pmids, total, err := c.esearch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("esearch failed: %w", err)
	}
	if len(pmids) == 0 {
		return &sources.SearchResult{
			Source:         domain.SourcePubMed,
			TotalResults:   total,
			SearchDuration: time.Since(start),
		}, nil
	}

	articles, err := c.efetch(ctx, pmids)
	if err != nil {
		return nil, fmt.Errorf("efetch failed: %w", err)
	}

	return &sources.SearchResult{
		Articles:       articles,
		TotalResults:   total,
		Source:         domain.SourcePubMed,
		SearchDuration: time.Since(start),
	}, nil
}

func (c *Client) esearch(ctx context.Context, params sources.SearchParams) ([]string, int, error) {
	maxResults := params.MaxResults
	if maxResults <= 0 || maxResults > c.config.MaxResults {
		maxResults = c.config.MaxResults
	}

	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("term", params.Query)
	q.Set("retmax", strconv.Itoa(maxResults))
	q.Set("retmode", "json")
	if c.config.APIKey != "" {
		q.Set("api_key", c.config.APIKey)
	}

	body, err := c.get(ctx, c.config.BaseURL+"/esearch.fcgi?"+q.Encode())
	if err != nil {
		return nil, 0, err
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, fmt.Errorf("decoding esearch response: %w", err)
	}

	total, _ := strconv.Atoi(resp.ESearchResult.Count)
	return resp.ESearchResult.IDList, total, nil
}

func (c *Client) efetch(ctx context.Context, pmids []string) ([]domain.Article, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", strings.Join(pmids, ","))
	q.Set("rettype", "xml")
	q.Set("retmode", "xml")
	if c.config.APIKey != "" {
		q.Set("api_key", c.config.APIKey)
	}

	body, err := c.get(ctx, c.config.BaseURL+"/efetch.fcgi?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var set articleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("decoding efetch response: %w", err)
	}

	articles := make([]domain.Article, 0, len(set.Articles))
	for _, rec := range set.Articles {
		articles = append(articles, mapRecord(rec))
	}
	return articles, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
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
	return io.ReadAll(resp.Body)
}

// mapRecord maps one efetch record to a domain article.
func mapRecord(rec pubmedRecord) domain.Article {
	art := rec.MedlineCitation.Article

	var authors []string
	if art.AuthorList != nil {
		for _, a := range art.AuthorList.Authors {
			switch {
			case a.LastName != "" && a.Initials != "":
				authors = append(authors, a.LastName+" "+a.Initials)
			case a.LastName != "":
				authors = append(authors, a.LastName)
			case a.CollectiveName != "":
				authors = append(authors, a.CollectiveName)
			}
		}
	}

	var abstractText string
	if art.Abstract != nil {
		abstractText = strings.TrimSpace(strings.Join(art.Abstract.Texts, " "))
	}

	pmid := strings.TrimSpace(rec.MedlineCitation.PMID)
	return domain.Article{
		ID:       "pubmed_" + pmid,
		Title:    strings.TrimSpace(art.ArticleTitle),
		Authors:  authors,
		Year:     parseYear(art.Journal.JournalIssue.PubDate),
		Source:   domain.SourcePubMed,
		Abstract: abstractText,
		URL:      "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/",
	}
}

// parseYear reads the numeric year, falling back to the leading token of a
// free-form MedlineDate such as "2023 Nov-Dec".
func parseYear(pd pubDate) int {
	if y, err := strconv.Atoi(strings.TrimSpace(pd.Year)); err == nil {
		return y
	}
	fields := strings.Fields(pd.MedlineDate)
	if len(fields) > 0 {
		if y, err := strconv.Atoi(fields[0]); err == nil {
			return y
		}
	}
	return 0
}
