package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/metapiqma/review-service/internal/domain"
	"github.com/metapiqma/review-service/internal/netgraph"
)

func TestNetworkAnalysis_Success(t *testing.T) {
	projects := newMemProjectRepo()
	articleRepo := newMemArticleRepo()
	p := createTestProject(projects, "Diabetes Review")

	a1 := unscreened("a1", "Neural models for screening")
	a1.Authors = []string{"Dr. Smith", "Dr. Lee"}
	a2 := unscreened("a2", "Diabetes and Metformin Effects")
	a2.Authors = []string{"Dr. Smith"}
	seedArticles(articleRepo, p, []domain.Article{a1, a2})
	srv := newTestServer(projects, articleRepo, nil)

	body := `{"project_id": "` + p.ID.String() + `"}`
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/network-analysis", strings.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp networkAnalysisResponse
	decodeJSON(t, rr, &resp)
	if !resp.Success {
		t.Fatal("expected success")
	}
	if len(resp.Elements) == 0 {
		t.Fatal("expected a non-empty element list")
	}

	nodes := make(map[string]netgraph.NodeType)
	edges := make(map[string]struct{})
	for _, el := range resp.Elements {
		if el.IsEdge() {
			edges[el.Data.ID] = struct{}{}
		} else {
			nodes[el.Data.ID] = el.Data.Type
		}
	}

	if nodes["a1"] != netgraph.NodePaper || nodes["a2"] != netgraph.NodePaper {
		t.Error("expected one paper node per article")
	}
	if nodes["author_Dr. Smith"] != netgraph.NodeAuthor {
		t.Error("expected an author node for Dr. Smith")
	}
	if _, ok := edges["author_Dr. Smith_authored_a1"]; !ok {
		t.Error("expected an authored edge from Dr. Smith to a1")
	}
	if _, ok := edges["author_Dr. Smith_coauthored_author_Dr. Lee"]; !ok {
		t.Error("expected a coauthored edge between the a1 authors")
	}
}

func TestNetworkAnalysis_ExcludesDuplicates(t *testing.T) {
	projects := newMemProjectRepo()
	articleRepo := newMemArticleRepo()
	p := createTestProject(projects, "Diabetes Review")

	dup := unscreened("a2", "Study of X")
	dup.Status = domain.StatusDuplicate
	seedArticles(articleRepo, p, []domain.Article{unscreened("a1", "Study of X"), dup})
	srv := newTestServer(projects, articleRepo, nil)

	body := `{"project_id": "` + p.ID.String() + `"}`
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/network-analysis", strings.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp networkAnalysisResponse
	decodeJSON(t, rr, &resp)
	for _, el := range resp.Elements {
		if el.Data.ID == "a2" {
			t.Error("duplicate article must not appear as a paper node")
		}
	}
}

func TestNetworkAnalysis_EmptyProjectIsValid(t *testing.T) {
	projects := newMemProjectRepo()
	p := createTestProject(projects, "Fresh Review")
	srv := newTestServer(projects, newMemArticleRepo(), nil)

	body := `{"project_id": "` + p.ID.String() + `"}`
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/network-analysis", strings.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for an empty project, got %d", rr.Code)
	}

	var resp networkAnalysisResponse
	decodeJSON(t, rr, &resp)
	if !resp.Success {
		t.Error("an empty graph is a valid outcome, not a failure")
	}
	if len(resp.Elements) != 0 {
		t.Errorf("expected 0 elements, got %d", len(resp.Elements))
	}
}

func TestNetworkAnalysis_Validation(t *testing.T) {
	srv := newTestServer(newMemProjectRepo(), newMemArticleRepo(), nil)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "missing project_id", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "malformed id", body: `{"project_id": "not-a-uuid"}`, wantCode: http.StatusBadRequest},
		{name: "unknown project", body: `{"project_id": "` + uuid.NewString() + `"}`, wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/network-analysis", strings.NewReader(tt.body)))
			if rr.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, rr.Code, rr.Body.String())
			}
		})
	}
}
