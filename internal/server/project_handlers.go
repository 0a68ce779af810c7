package server

import (
	"net/http"
	"strings"

	"github.com/metapiqma/review-service/internal/domain"
)

// domainProject builds a new project from a create request.
func domainProject(req projectRequest) *domain.Project {
	project := domain.NewProject(req.Name)
	project.Population = req.Population
	project.Intervention = req.Intervention
	project.Comparison = req.Comparison
	project.Outcome = req.Outcome
	project.PubMedStrategy = req.PubMedStrategy
	project.SemanticScholarStrategy = req.SemanticScholarStrategy
	project.ArXivStrategy = req.ArXivStrategy
	return project
}

// projectRequest is the JSON request body for creating or updating a
// review project.
type projectRequest struct {
	Name                    string `json:"name" validate:"required,max=500"`
	Population              string `json:"population" validate:"max=2000"`
	Intervention            string `json:"intervention" validate:"max=2000"`
	Comparison              string `json:"comparison" validate:"max=2000"`
	Outcome                 string `json:"outcome" validate:"max=2000"`
	PubMedStrategy          string `json:"pubmed_strategy" validate:"max=10000"`
	SemanticScholarStrategy string `json:"semantic_scholar_strategy" validate:"max=10000"`
	ArXivStrategy           string `json:"arxiv_strategy" validate:"max=10000"`
}

// createProject handles POST /api/v1/projects.
func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req projectRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	project := domainProject(req)
	if err := s.projectRepo.Create(ctx, project); err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Info().Str("project_id", project.ID.String()).Str("name", project.Name).Msg("project created")
	writeJSON(w, http.StatusCreated, domainProjectToResponse(project))
}

// listProjects handles GET /api/v1/projects.
func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projectRepo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := listProjectsResponse{
		Projects:   make([]projectResponse, 0, len(projects)),
		TotalCount: len(projects),
	}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, domainProjectToResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// getProject handles GET /api/v1/projects/{projectID}.
func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	projectID := projectIDFromContext(r.Context())

	project, err := s.projectRepo.Get(r.Context(), projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domainProjectToResponse(project))
}

// updateProject handles PUT /api/v1/projects/{projectID}.
func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := projectIDFromContext(ctx)

	var req projectRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	project.Name = req.Name
	project.Population = req.Population
	project.Intervention = req.Intervention
	project.Comparison = req.Comparison
	project.Outcome = req.Outcome
	project.PubMedStrategy = req.PubMedStrategy
	project.SemanticScholarStrategy = req.SemanticScholarStrategy
	project.ArXivStrategy = req.ArXivStrategy

	if err := s.projectRepo.Update(ctx, project); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domainProjectToResponse(project))
}

// deleteProject handles DELETE /api/v1/projects/{projectID}. The project's
// persisted articles go with it via cascade, and the in-memory session is
// discarded.
func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := projectIDFromContext(ctx)

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		writeDomainError(w, err)
		return
	}
	s.dropSession(projectID)

	s.logger.Info().Str("project_id", projectID.String()).Msg("project deleted")
	w.WriteHeader(http.StatusNoContent)
}
