package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestCreateProject_Success(t *testing.T) {
	projects := newMemProjectRepo()
	srv := newTestServer(projects, newMemArticleRepo(), nil)

	body := `{
		"name": "Metformin in Type 2 Diabetes",
		"population": "adults with type 2 diabetes",
		"intervention": "metformin",
		"comparison": "placebo",
		"outcome": "HbA1c reduction",
		"pubmed_strategy": "metformin AND diabetes"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader(body))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp projectResponse
	decodeJSON(t, rr, &resp)
	if resp.Name != "Metformin in Type 2 Diabetes" {
		t.Errorf("unexpected name %q", resp.Name)
	}
	if resp.Population != "adults with type 2 diabetes" {
		t.Errorf("unexpected population %q", resp.Population)
	}
	if resp.PubMedStrategy != "metformin AND diabetes" {
		t.Errorf("unexpected strategy %q", resp.PubMedStrategy)
	}

	id, err := uuid.Parse(resp.ID)
	if err != nil {
		t.Fatalf("response id is not a UUID: %v", err)
	}
	if _, ok := projects.projects[id]; !ok {
		t.Error("project was not stored in the repository")
	}
}

func TestCreateProject_Validation(t *testing.T) {
	srv := newTestServer(newMemProjectRepo(), newMemArticleRepo(), nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "invalid JSON", body: `{"name":`},
		{name: "missing name", body: `{"population":"adults"}`},
		{name: "blank name", body: `{"name":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader(tt.body))
			rr := serveHTTP(srv, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestListProjects(t *testing.T) {
	projects := newMemProjectRepo()
	createTestProject(projects, "First Review")
	createTestProject(projects, "Second Review")
	srv := newTestServer(projects, newMemArticleRepo(), nil)

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp listProjectsResponse
	decodeJSON(t, rr, &resp)
	if resp.TotalCount != 2 {
		t.Errorf("expected 2 projects, got %d", resp.TotalCount)
	}
	if len(resp.Projects) != 2 {
		t.Errorf("expected 2 entries, got %d", len(resp.Projects))
	}
}

func TestGetProject(t *testing.T) {
	projects := newMemProjectRepo()
	p := createTestProject(projects, "Statin Review")
	srv := newTestServer(projects, newMemArticleRepo(), nil)

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/projects/"+p.ID.String(), nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp projectResponse
	decodeJSON(t, rr, &resp)
	if resp.ID != p.ID.String() {
		t.Errorf("expected id %s, got %s", p.ID, resp.ID)
	}

	rr = serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/projects/"+uuid.NewString(), nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown project, got %d", rr.Code)
	}
}

func TestUpdateProject(t *testing.T) {
	projects := newMemProjectRepo()
	p := createTestProject(projects, "Old Name")
	srv := newTestServer(projects, newMemArticleRepo(), nil)

	body := `{"name": "New Name", "arxiv_strategy": "all:screening"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/projects/"+p.ID.String(), strings.NewReader(body))
	rr := serveHTTP(srv, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp projectResponse
	decodeJSON(t, rr, &resp)
	if resp.Name != "New Name" {
		t.Errorf("expected updated name, got %q", resp.Name)
	}
	if resp.ArXivStrategy != "all:screening" {
		t.Errorf("expected updated strategy, got %q", resp.ArXivStrategy)
	}

	stored := projects.projects[p.ID]
	if stored.Name != "New Name" {
		t.Errorf("repository was not updated, name is %q", stored.Name)
	}
}

func TestDeleteProject(t *testing.T) {
	projects := newMemProjectRepo()
	p := createTestProject(projects, "Doomed Review")
	srv := newTestServer(projects, newMemArticleRepo(), nil)

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodDelete, "/api/v1/projects/"+p.ID.String(), nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if _, ok := projects.projects[p.ID]; ok {
		t.Error("project still present after delete")
	}

	rr = serveHTTP(srv, httptest.NewRequest(http.MethodDelete, "/api/v1/projects/"+p.ID.String(), nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rr.Code)
	}
}
