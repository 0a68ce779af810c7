package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/metapiqma/review-service/internal/domain"
	"github.com/metapiqma/review-service/internal/netgraph"
)

const maxRequestBodySize = 1 << 20 // 1 MB limit for request bodies

// Response types for JSON serialization.

type projectResponse struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	Population              string    `json:"population,omitempty"`
	Intervention            string    `json:"intervention,omitempty"`
	Comparison              string    `json:"comparison,omitempty"`
	Outcome                 string    `json:"outcome,omitempty"`
	PubMedStrategy          string    `json:"pubmed_strategy,omitempty"`
	SemanticScholarStrategy string    `json:"semantic_scholar_strategy,omitempty"`
	ArXivStrategy           string    `json:"arxiv_strategy,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

type listProjectsResponse struct {
	Projects   []projectResponse `json:"projects"`
	TotalCount int               `json:"total_count"`
}

type articleResponse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors,omitempty"`
	Year            int      `json:"year,omitempty"`
	Source          string   `json:"source"`
	Abstract        string   `json:"abstract,omitempty"`
	URL             string   `json:"url,omitempty"`
	Status          string   `json:"status"`
	ExclusionReason string   `json:"exclusion_reason,omitempty"`
}

type listArticlesResponse struct {
	Articles        []articleResponse `json:"articles"`
	TotalCount      int               `json:"total_count"`
	IdentifiedTotal int               `json:"identified_total"`
}

type searchResponse struct {
	Success    bool              `json:"success"`
	Articles   []articleResponse `json:"articles"`
	TotalCount int               `json:"total_count"`
	Message    string            `json:"message"`
}

type dedupMatchResponse struct {
	ID          string  `json:"id"`
	DuplicateOf string  `json:"duplicate_of"`
	Score       float64 `json:"score"`
}

type dedupResponse struct {
	Success          bool                 `json:"success"`
	DuplicatesMarked int                  `json:"duplicates_marked"`
	Matches          []dedupMatchResponse `json:"matches"`
	Message          string               `json:"message"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	Updated int    `json:"updated"`
	Message string `json:"message"`
}

type networkAnalysisResponse struct {
	Success  bool               `json:"success"`
	Elements []netgraph.Element `json:"elements"`
	Message  string             `json:"message"`
}

// Converter functions

func domainProjectToResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:                      p.ID.String(),
		Name:                    p.Name,
		Population:              p.Population,
		Intervention:            p.Intervention,
		Comparison:              p.Comparison,
		Outcome:                 p.Outcome,
		PubMedStrategy:          p.PubMedStrategy,
		SemanticScholarStrategy: p.SemanticScholarStrategy,
		ArXivStrategy:           p.ArXivStrategy,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
}

func domainArticleToResponse(a domain.Article) articleResponse {
	return articleResponse{
		ID:              a.ID,
		Title:           a.Title,
		Authors:         a.Authors,
		Year:            a.Year,
		Source:          string(a.Source),
		Abstract:        a.Abstract,
		URL:             a.URL,
		Status:          string(a.Status),
		ExclusionReason: a.ExclusionReason,
	}
}

func domainArticlesToResponse(articles []domain.Article) []articleResponse {
	out := make([]articleResponse, len(articles))
	for i, a := range articles {
		out[i] = domainArticleToResponse(a)
	}
	return out
}

// decodeAndValidate reads a JSON request body into dst and runs struct
// validation on it. Violations come back as domain validation errors so
// writeDomainError maps them to 400.
func (s *Server) decodeAndValidate(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		return domain.NewValidationError("body", "failed to read request body")
	}
	if len(body) == 0 {
		return domain.NewValidationError("body", "request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.NewValidationError("body", "invalid JSON request body")
	}

	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.ToLower(fe.Field())
			return domain.NewValidationError(field, "failed validation on '"+fe.Tag()+"'")
		}
		return domain.NewValidationError("body", "invalid request")
	}
	return nil
}
