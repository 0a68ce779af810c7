// Package export writes review artifacts: a statistics snapshot in JSON
// and the included-article list as CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/metapiqma/review-service/internal/domain"
	"github.com/metapiqma/review-service/internal/prisma"
)

// Statistics is the exported JSON snapshot of a project's screening state.
type Statistics struct {
	ProjectID   string        `json:"project_id"`
	ProjectName string        `json:"project_name"`
	GeneratedAt time.Time     `json:"generated_at"`
	Prisma      prisma.Counts `json:"prisma"`

	// StatusCounts maps every reachable status to its current article
	// count, including zero entries so consumers see the full state space.
	StatusCounts map[domain.Status]int `json:"status_counts"`
}

// NewStatistics assembles a snapshot from the derived PRISMA counts and the
// store's status tallies.
func NewStatistics(projectID, projectName string, counts prisma.Counts, statusCounts map[domain.Status]int) Statistics {
	full := make(map[domain.Status]int, len(domain.AllStatuses()))
	for _, st := range domain.AllStatuses() {
		full[st] = statusCounts[st]
	}
	return Statistics{
		ProjectID:    projectID,
		ProjectName:  projectName,
		GeneratedAt:  time.Now().UTC(),
		Prisma:       counts,
		StatusCounts: full,
	}
}

// WriteStatisticsJSON writes the snapshot as indented JSON.
func WriteStatisticsJSON(w io.Writer, stats Statistics) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		return fmt.Errorf("encoding statistics: %w", err)
	}
	return nil
}

// csvHeader is the fixed column order of the included-article export.
var csvHeader = []string{"id", "title", "authors", "year", "source", "url"}

// WriteIncludedCSV writes the bibliographic fields of the given articles as
// CSV. Callers pass the included_final subset; the writer does not filter.
// Authors are joined with "; " to keep one article per row.
func WriteIncludedCSV(w io.Writer, articles []domain.Article) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, a := range articles {
		year := ""
		if a.Year != 0 {
			year = strconv.Itoa(a.Year)
		}
		record := []string{
			a.ID,
			a.Title,
			strings.Join(a.Authors, "; "),
			year,
			string(a.Source),
			a.URL,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing article %s: %w", a.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
