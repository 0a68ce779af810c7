package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/metapiqma/review-service/internal/domain"
)

// ProjectRepository manages review project persistence.
type ProjectRepository interface {
	// Create inserts a new project.
	// Returns domain.ErrAlreadyExists if a project with the same ID exists.
	Create(ctx context.Context, project *domain.Project) error

	// Get retrieves a project by its ID.
	// Returns domain.ErrNotFound if no matching project exists.
	Get(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// List returns all projects ordered by creation time, newest first.
	List(ctx context.Context) ([]*domain.Project, error)

	// Update persists changes to an existing project's name, PICO fields,
	// and search strategies. Returns domain.ErrNotFound if the project does
	// not exist.
	Update(ctx context.Context, project *domain.Project) error

	// Delete removes a project and, via cascade, its persisted articles.
	// Returns domain.ErrNotFound if the project does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
