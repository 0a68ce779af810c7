package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project represents one systematic review project: the PICO research
// question and the per-provider search strategies built from it.
type Project struct {
	ID   uuid.UUID
	Name string

	// PICO research-question fields.
	Population   string
	Intervention string
	Comparison   string
	Outcome      string

	// Per-provider search strategy text.
	PubMedStrategy          string
	SemanticScholarStrategy string
	ArXivStrategy           string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProject creates a project with a generated identifier.
func NewProject(name string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasSearchStrategy reports whether at least one provider strategy is
// non-empty. Searches with no strategy at all are rejected before any
// network call.
func (p *Project) HasSearchStrategy() bool {
	return strings.TrimSpace(p.PubMedStrategy) != "" ||
		strings.TrimSpace(p.SemanticScholarStrategy) != "" ||
		strings.TrimSpace(p.ArXivStrategy) != ""
}

// PredefinedExclusionReasons is the fixed set of full-text exclusion
// reasons offered during eligibility screening. Reviewers may also record a
// free-text reason; those are discovered dynamically by the PRISMA counter.
func PredefinedExclusionReasons() []string {
	return []string{
		"wrong population",
		"wrong intervention",
		"wrong comparator",
		"wrong outcome",
		"wrong study design",
		"full text not available",
		"language",
	}
}
