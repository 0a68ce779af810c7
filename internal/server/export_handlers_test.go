package server

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/metapiqma/review-service/internal/domain"
	"github.com/metapiqma/review-service/internal/export"
)

func TestExportStatistics(t *testing.T) {
	projects := newMemProjectRepo()
	articleRepo := newMemArticleRepo()
	p := createTestProject(projects, "Diabetes Review")

	included := unscreened("a1", "Study of X")
	included.Status = domain.StatusIncludedFinal
	dup := unscreened("a2", "Study of X ")
	dup.Status = domain.StatusDuplicate
	seedArticles(articleRepo, p, []domain.Article{included, dup, unscreened("a3", "Study of Z")})
	srv := newTestServer(projects, articleRepo, nil)

	path := "/api/v1/projects/" + p.ID.String() + "/export/statistics"
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, path, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Disposition"); !strings.Contains(got, "statistics.json") {
		t.Errorf("expected attachment disposition, got %q", got)
	}

	var stats export.Statistics
	decodeJSON(t, rr, &stats)
	if stats.ProjectID != p.ID.String() {
		t.Errorf("expected project id %s, got %s", p.ID, stats.ProjectID)
	}
	if stats.ProjectName != "Diabetes Review" {
		t.Errorf("expected project name, got %q", stats.ProjectName)
	}
	if stats.Prisma.PreviouslyIdentified != 3 {
		t.Errorf("expected 3 identified, got %d", stats.Prisma.PreviouslyIdentified)
	}
	if stats.Prisma.DuplicatesRemoved != 1 {
		t.Errorf("expected 1 duplicate, got %d", stats.Prisma.DuplicatesRemoved)
	}
	if stats.StatusCounts[domain.StatusIncludedFinal] != 1 {
		t.Errorf("expected 1 included_final, got %d", stats.StatusCounts[domain.StatusIncludedFinal])
	}
	if _, ok := stats.StatusCounts[domain.StatusExcludedTitle]; !ok {
		t.Error("expected zero-count statuses to be present in the snapshot")
	}
}

func TestExportIncludedCSV(t *testing.T) {
	projects := newMemProjectRepo()
	articleRepo := newMemArticleRepo()
	p := createTestProject(projects, "Diabetes Review")

	included := unscreened("a1", "Study of X")
	included.Status = domain.StatusIncludedFinal
	included.Authors = []string{"Dr. Smith", "Dr. Lee"}
	seedArticles(articleRepo, p, []domain.Article{included, unscreened("a2", "Not included")})
	srv := newTestServer(projects, articleRepo, nil)

	path := "/api/v1/projects/" + p.ID.String() + "/export/included.csv"
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, path, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("expected text/csv, got %q", got)
	}

	records, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("parsing CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}
	if records[0][0] != "id" || records[0][5] != "url" {
		t.Errorf("unexpected header %v", records[0])
	}
	row := records[1]
	if row[0] != "a1" || row[2] != "Dr. Smith; Dr. Lee" || row[3] != "2021" {
		t.Errorf("unexpected row %v", row)
	}
}
