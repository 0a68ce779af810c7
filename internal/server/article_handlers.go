package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/metapiqma/review-service/internal/dedup"
	"github.com/metapiqma/review-service/internal/domain"
	"github.com/metapiqma/review-service/internal/prisma"
	"github.com/metapiqma/review-service/internal/sources"
)

// searchRequest is the JSON request body for a multi-provider search. A
// query left empty for an enabled provider falls back to the project's
// stored search strategy.
type searchRequest struct {
	PubMedQuery          string `json:"pubmed_query" validate:"max=10000"`
	SemanticScholarQuery string `json:"semantic_scholar_query" validate:"max=10000"`
	ArXivQuery           string `json:"arxiv_query" validate:"max=10000"`

	PubMedEnabled          bool `json:"pubmed_enabled"`
	SemanticScholarEnabled bool `json:"semantic_scholar_enabled"`
	ArXivEnabled           bool `json:"arxiv_enabled"`

	MaxResultsPerSource int `json:"max_results_per_source" validate:"omitempty,min=1,max=500"`
}

type screeningRequest struct {
	IDs      []string `json:"ids" validate:"required,min=1,dive,required"`
	Decision string   `json:"decision" validate:"required,oneof=include exclude"`
}

type eligibilityRequest struct {
	IDs             []string `json:"ids" validate:"required,min=1,dive,required"`
	Decision        string   `json:"decision" validate:"required,oneof=include exclude"`
	ExclusionReason string   `json:"exclusion_reason" validate:"required_if=Decision exclude,max=500"`
}

type filterRequest struct {
	Field string `json:"field" validate:"required,oneof=title authors year url abstract"`
}

// searchArticles handles POST /api/v1/projects/{projectID}/search. It fans
// the query out across enabled providers, aggregates all-or-nothing, and
// ingests the new records as unscreened. Records whose id is already in
// the session are skipped so a repeated search does not reject the batch.
func (s *Server) searchArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := projectIDFromContext(ctx)

	var req searchRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	sess, err := s.session(ctx, projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	query := sources.Query{
		PubMed:                 fallback(req.PubMedQuery, project.PubMedStrategy),
		SemanticScholar:        fallback(req.SemanticScholarQuery, project.SemanticScholarStrategy),
		ArXiv:                  fallback(req.ArXivQuery, project.ArXivStrategy),
		PubMedEnabled:          req.PubMedEnabled,
		SemanticScholarEnabled: req.SemanticScholarEnabled,
		ArXivEnabled:           req.ArXivEnabled,
		MaxResultsPerSource:    req.MaxResultsPerSource,
	}
	if query.MaxResultsPerSource == 0 {
		query.MaxResultsPerSource = s.cfg.MaxResultsPerSource
	}
	if query.IsEmpty() {
		writeError(w, http.StatusBadRequest, "at least one enabled provider with a non-empty search strategy is required")
		return
	}

	results := s.registry.SearchAll(ctx, query)
	s.recordSearchResults(results)

	articles, err := sources.Aggregate(results)
	if err != nil {
		s.logger.Error().Err(err).Str("project_id", projectID.String()).Msg("search failed")
		writeJSON(w, http.StatusBadGateway, searchResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	fresh := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if _, err := sess.Get(a.ID); err != nil {
			fresh = append(fresh, a)
		}
	}
	if err := sess.Add(fresh); err != nil {
		writeDomainError(w, err)
		return
	}
	s.persist(ctx, projectID, sess)

	s.logger.Info().
		Str("project_id", projectID.String()).
		Int("returned", len(articles)).
		Int("ingested", len(fresh)).
		Msg("search completed")

	writeJSON(w, http.StatusOK, searchResponse{
		Success:    true,
		Articles:   domainArticlesToResponse(fresh),
		TotalCount: sess.Len(),
		Message:    fmt.Sprintf("identified %d new articles", len(fresh)),
	})
}

func (s *Server) recordSearchResults(results []sources.SourceResult) {
	if s.metrics == nil {
		return
	}
	for _, res := range results {
		if res.Error != nil {
			s.metrics.RecordSearchFailed(string(res.Source), 0)
			continue
		}
		duration := float64(0)
		count := 0
		if res.Result != nil {
			duration = res.Result.SearchDuration.Seconds()
			count = len(res.Result.Articles)
		}
		s.metrics.RecordSearchCompleted(string(res.Source), count, duration)
		s.metrics.RecordArticlesIdentified(string(res.Source), count)
	}
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

// listArticles handles GET /api/v1/projects/{projectID}/articles.
func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := s.session(ctx, projectIDFromContext(ctx))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	articles := sess.Articles()
	writeJSON(w, http.StatusOK, listArticlesResponse{
		Articles:        domainArticlesToResponse(articles),
		TotalCount:      len(articles),
		IdentifiedTotal: sess.IdentifiedTotal(),
	})
}

// clearArticles handles DELETE /api/v1/projects/{projectID}/articles, the
// only operation that physically discards records.
func (s *Server) clearArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := projectIDFromContext(ctx)

	sess, err := s.session(ctx, projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sess.ClearAll()
	if err := s.articleRepo.DeleteByProject(ctx, projectID); err != nil {
		s.logger.Warn().Err(err).
			Str("project_id", projectID.String()).
			Msg("clearing persisted articles failed; in-memory state remains authoritative")
	}

	writeJSON(w, http.StatusOK, actionResponse{
		Success: true,
		Message: "all articles cleared",
	})
}

// detectDuplicates handles POST /api/v1/projects/{projectID}/articles/dedup.
// Detection is pure; the store applies the marks, so running it twice
// without intervening changes yields the same assignments.
func (s *Server) detectDuplicates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := projectIDFromContext(ctx)

	sess, err := s.session(ctx, projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	start := time.Now()
	matches := s.detector.Detect(sess.Articles())
	if err := sess.TransitionBatch(dedup.IDs(matches), domain.StatusDuplicate, ""); err != nil {
		writeDomainError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordDedupRun(len(matches), time.Since(start).Seconds())
	}
	s.persist(ctx, projectID, sess)

	resp := dedupResponse{
		Success:          true,
		DuplicatesMarked: len(matches),
		Matches:          make([]dedupMatchResponse, 0, len(matches)),
		Message:          fmt.Sprintf("marked %d duplicates", len(matches)),
	}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, dedupMatchResponse{
			ID:          m.ID,
			DuplicateOf: m.DuplicateOf,
			Score:       m.Score,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// screenArticles handles POST /api/v1/projects/{projectID}/articles/screening,
// the title/abstract screening decision for a batch of unscreened articles.
func (s *Server) screenArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := projectIDFromContext(ctx)

	var req screeningRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	target := domain.StatusIncludedTitle
	if req.Decision == "exclude" {
		target = domain.StatusExcludedTitle
	}

	s.transitionBatch(w, r, projectID, req.IDs, target, "")
}

// assessEligibility handles POST /api/v1/projects/{projectID}/articles/eligibility,
// the full-text decision for articles sitting at included_title. Excluding
// requires a reason.
func (s *Server) assessEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := projectIDFromContext(ctx)

	var req eligibilityRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	target := domain.StatusIncludedFinal
	reason := ""
	if req.Decision == "exclude" {
		target = domain.StatusExcludedFulltext
		reason = req.ExclusionReason
	}

	s.transitionBatch(w, r, projectID, req.IDs, target, reason)
}

// transitionBatch validates and applies one status change to a batch of
// ids atomically, persists the snapshot, and reports the count updated.
func (s *Server) transitionBatch(w http.ResponseWriter, r *http.Request, projectID uuid.UUID, ids []string, target domain.Status, reason string) {
	ctx := r.Context()

	sess, err := s.session(ctx, projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := sess.TransitionBatch(ids, target, reason); err != nil {
		writeDomainError(w, err)
		return
	}
	if s.metrics != nil {
		for range ids {
			s.metrics.RecordScreeningDecision(string(target))
		}
	}
	s.persist(ctx, projectID, sess)

	writeJSON(w, http.StatusOK, actionResponse{
		Success: true,
		Updated: len(ids),
		Message: fmt.Sprintf("%d articles moved to %s", len(ids), target),
	})
}

// filterIncomplete handles POST /api/v1/projects/{projectID}/articles/filter,
// marking every unscreened article missing the given bibliographic field as
// removed. The qualifying set is computed from one snapshot of the store.
func (s *Server) filterIncomplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := projectIDFromContext(ctx)

	var req filterRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	sess, err := s.session(ctx, projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	removed, err := sess.RemoveIncomplete(domain.CompletenessField(req.Field))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordArticlesRemoved(req.Field, removed)
	}
	s.persist(ctx, projectID, sess)

	writeJSON(w, http.StatusOK, actionResponse{
		Success: true,
		Updated: removed,
		Message: fmt.Sprintf("%d articles removed without %s", removed, req.Field),
	})
}

// prismaCounts handles GET /api/v1/projects/{projectID}/prisma. Counts are
// derived fully from the current status distribution on every request.
func (s *Server) prismaCounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := s.session(ctx, projectIDFromContext(ctx))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	counts := prisma.Derive(sess.Articles(), sess.IdentifiedTotal(), domain.PredefinedExclusionReasons())
	if s.metrics != nil {
		s.metrics.RecordPrismaDerivation()
	}
	writeJSON(w, http.StatusOK, counts)
}
