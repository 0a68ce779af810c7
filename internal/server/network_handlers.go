package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/metapiqma/review-service/internal/netgraph"
)

// networkAnalysisRequest is the JSON request body for building the
// bibliometric network of a project.
type networkAnalysisRequest struct {
	ProjectID string `json:"project_id" validate:"required,uuid"`
}

// networkAnalysis handles POST /api/v1/network-analysis. A project with no
// articles yields a successful response with zero elements; only a failed
// article fetch is an error.
func (s *Server) networkAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req networkAnalysisRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	sess, err := s.session(ctx, projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	start := time.Now()
	elements, err := s.builder.BuildForProject(ctx, sessionProvider{sess: sess}, projectID.String())
	if err != nil {
		s.logger.Error().Err(err).Str("project_id", projectID.String()).Msg("network build failed")
		writeJSON(w, http.StatusBadGateway, networkAnalysisResponse{
			Success:  false,
			Elements: []netgraph.Element{},
			Message:  err.Error(),
		})
		return
	}
	if s.metrics != nil {
		s.metrics.RecordNetworkBuild(len(elements), time.Since(start).Seconds())
	}

	if elements == nil {
		elements = []netgraph.Element{}
	}
	writeJSON(w, http.StatusOK, networkAnalysisResponse{
		Success:  true,
		Elements: elements,
		Message:  fmt.Sprintf("generated network with %d elements", len(elements)),
	})
}
