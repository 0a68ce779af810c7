package server

import (
	"net/http"

	"github.com/metapiqma/review-service/internal/domain"
	"github.com/metapiqma/review-service/internal/export"
	"github.com/metapiqma/review-service/internal/prisma"
)

// exportStatistics handles GET /api/v1/projects/{projectID}/export/statistics,
// a JSON snapshot of the flow counts and status distribution.
func (s *Server) exportStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := projectIDFromContext(ctx)

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

	counts := prisma.Derive(sess.Articles(), sess.IdentifiedTotal(), domain.PredefinedExclusionReasons())
	stats := export.NewStatistics(projectID.String(), project.Name, counts, sess.StatusCounts())

	if s.metrics != nil {
		s.metrics.RecordExport("statistics_json")
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="statistics.json"`)
	if err := export.WriteStatisticsJSON(w, stats); err != nil {
		s.logger.Error().Err(err).Str("project_id", projectID.String()).Msg("writing statistics export failed")
	}
}

// exportIncludedCSV handles GET /api/v1/projects/{projectID}/export/included.csv,
// the bibliographic fields of every finally included article.
func (s *Server) exportIncludedCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := projectIDFromContext(ctx)

	sess, err := s.session(ctx, projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordExport("included_csv")
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="included.csv"`)
	if err := export.WriteIncludedCSV(w, sess.IncludedFinal()); err != nil {
		s.logger.Error().Err(err).Str("project_id", projectID.String()).Msg("writing CSV export failed")
	}
}
