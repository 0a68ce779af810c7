package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/metapiqma/review-service/internal/domain"
)

// Compile-time interface verification.
var _ ArticleRepository = (*PgArticleRepository)(nil)

// PgArticleRepository is a PostgreSQL implementation of ArticleRepository.
//
// ReplaceProject must run atomically; construct the repository from a
// transaction (database.DB.WithTransaction) when calling it against a live
// database.
type PgArticleRepository struct {
	db DBTX
}

// NewPgArticleRepository creates a new PostgreSQL article repository.
func NewPgArticleRepository(db DBTX) *PgArticleRepository {
	return &PgArticleRepository{db: db}
}

// ReplaceProject rewrites a project's persisted article collection.
func (r *PgArticleRepository) ReplaceProject(ctx context.Context, projectID uuid.UUID, articles []domain.Article, identifiedTotal int) error {
	if projectID == uuid.Nil {
		return domain.NewValidationError("project_id", "project ID is required")
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE review_projects SET identified_total = $1 WHERE id = $2`,
		identifiedTotal, projectID)
	if err != nil {
		return fmt.Errorf("failed to update identified total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("project", projectID.String())
	}

	if _, err := r.db.Exec(ctx,
		`DELETE FROM review_articles WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("failed to clear articles: %w", err)
	}

	insert := `
		INSERT INTO review_articles (
			project_id, position, id, title, authors, year, source,
			abstract, url, status, exclusion_reason, placeholder
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	for i, a := range articles {
		_, err := r.db.Exec(ctx, insert,
			projectID, i, a.ID, a.Title, a.Authors, a.Year, a.Source,
			a.Abstract, a.URL, a.Status, a.ExclusionReason, a.Placeholder,
		)
		if err != nil {
			if isPgForeignKeyViolation(err) {
				return domain.NewNotFoundError("project", projectID.String())
			}
			return fmt.Errorf("failed to insert article %s: %w", a.ID, err)
		}
	}

	return nil
}

// ListByProject returns a project's persisted articles in insertion order.
func (r *PgArticleRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Article, int, error) {
	var identifiedTotal int
	err := r.db.QueryRow(ctx,
		`SELECT identified_total FROM review_projects WHERE id = $1`, projectID).
		Scan(&identifiedTotal)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read identified total: %w", err)
	}

	query := `
		SELECT id, title, authors, year, source,
			abstract, url, status, exclusion_reason, placeholder
		FROM review_articles
		WHERE project_id = $1
		ORDER BY position`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		err := rows.Scan(
			&a.ID, &a.Title, &a.Authors, &a.Year, &a.Source,
			&a.Abstract, &a.URL, &a.Status, &a.ExclusionReason, &a.Placeholder,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, identifiedTotal, nil
}

// DeleteByProject removes all persisted articles for a project.
func (r *PgArticleRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM review_articles WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("failed to delete articles: %w", err)
	}

	if _, err := r.db.Exec(ctx,
		`UPDATE review_projects SET identified_total = 0 WHERE id = $1`, projectID); err != nil {
		return fmt.Errorf("failed to reset identified total: %w", err)
	}

	return nil
}
