package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/metapiqma/review-service/internal/domain"
)

// ArticleRepository persists per-project article collections.
//
// The in-memory store is the authority during a session; persistence is a
// write-through snapshot so a project's collection survives restarts.
// ReplaceProject therefore rewrites the whole collection rather than
// diffing individual rows.
type ArticleRepository interface {
	// ReplaceProject atomically replaces a project's persisted article
	// collection and its identified total. Article order is preserved.
	// Returns domain.ErrNotFound if the project does not exist.
	ReplaceProject(ctx context.Context, projectID uuid.UUID, articles []domain.Article, identifiedTotal int) error

	// ListByProject returns a project's persisted articles in insertion
	// order along with the identified total recorded with them. A project
	// with no persisted articles yields an empty slice and zero.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Article, int, error)

	// DeleteByProject removes all persisted articles for a project and
	// resets its identified total.
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}
