package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/metapiqma/review-service/internal/domain"
)

// Compile-time interface verification.
var _ ProjectRepository = (*PgProjectRepository)(nil)

// PgProjectRepository is a PostgreSQL implementation of ProjectRepository.
type PgProjectRepository struct {
	db DBTX
}

// NewPgProjectRepository creates a new PostgreSQL project repository.
func NewPgProjectRepository(db DBTX) *PgProjectRepository {
	return &PgProjectRepository{db: db}
}

const projectColumns = `id, name, population, intervention, comparison, outcome,
		pubmed_strategy, semantic_scholar_strategy, arxiv_strategy,
		identified_total, created_at, updated_at`

// Create inserts a new review project.
func (r *PgProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.NewValidationError("project", "project cannot be nil")
	}
	if project.ID == uuid.Nil {
		return domain.NewValidationError("id", "project ID is required")
	}
	if project.Name == "" {
		return domain.NewValidationError("name", "project name is required")
	}

	query := `
		INSERT INTO review_projects (
			id, name, population, intervention, comparison, outcome,
			pubmed_strategy, semantic_scholar_strategy, arxiv_strategy,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		project.ID, project.Name,
		project.Population, project.Intervention, project.Comparison, project.Outcome,
		project.PubMedStrategy, project.SemanticScholarStrategy, project.ArXivStrategy,
		project.CreatedAt, project.UpdatedAt,
	)

	if err != nil {
		if isPgUniqueViolation(err) {
			return domain.NewAlreadyExistsError("project", project.ID.String())
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a review project by its ID.
func (r *PgProjectRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM review_projects
		WHERE id = $1`

	project, _, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("project", id.String())
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// List returns all review projects, newest first.
func (r *PgProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM review_projects
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project, _, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// Update persists changes to an existing project.
func (r *PgProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.NewValidationError("project", "project cannot be nil")
	}

	project.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE review_projects SET
			name = $1,
			population = $2,
			intervention = $3,
			comparison = $4,
			outcome = $5,
			pubmed_strategy = $6,
			semantic_scholar_strategy = $7,
			arxiv_strategy = $8,
			updated_at = $9
		WHERE id = $10`

	tag, err := r.db.Exec(ctx, query,
		project.Name,
		project.Population, project.Intervention, project.Comparison, project.Outcome,
		project.PubMedStrategy, project.SemanticScholarStrategy, project.ArXivStrategy,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("project", project.ID.String())
	}

	return nil
}

// Delete removes a review project. Persisted articles are removed by the
// ON DELETE CASCADE constraint.
func (r *PgProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM review_projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("project", id.String())
	}
	return nil
}

// scanProject scans one project row. The identified_total column rides
// along with the project row; callers that need it get it as the second
// return value.
func scanProject(row pgx.Row) (*domain.Project, int, error) {
	var p domain.Project
	var identifiedTotal int
	err := row.Scan(
		&p.ID, &p.Name,
		&p.Population, &p.Intervention, &p.Comparison, &p.Outcome,
		&p.PubMedStrategy, &p.SemanticScholarStrategy, &p.ArXivStrategy,
		&identifiedTotal, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}
	return &p, identifiedTotal, nil
}
