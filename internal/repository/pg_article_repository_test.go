package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metapiqma/review-service/internal/domain"
)

func testArticles() []domain.Article {
	return []domain.Article{
		{
			ID:      "pubmed_1",
			Title:   "Metformin and Cardiovascular Outcomes",
			Authors: []string{"Smith JA", "Chen W"},
			Year:    2021,
			Source:  domain.SourcePubMed,
			URL:     "https://pubmed.ncbi.nlm.nih.gov/1/",
			Status:  domain.StatusUnscreened,
		},
		{
			ID:              "arxiv_2101.00001v1",
			Title:           "Screening Automation",
			Authors:         []string{"Diaz C"},
			Year:            2021,
			Source:          domain.SourceArXiv,
			Status:          domain.StatusExcludedTitle,
			ExclusionReason: "",
		},
	}
}

func TestPgArticleRepository_ReplaceProject(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces collection", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)
		projectID := uuid.New()
		articles := testArticles()

		mock.ExpectExec("UPDATE review_projects SET identified_total").
			WithArgs(10, projectID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("DELETE FROM review_articles").
			WithArgs(projectID).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		for i, a := range articles {
			mock.ExpectExec("INSERT INTO review_articles").
				WithArgs(
					projectID, i, a.ID, a.Title, a.Authors, a.Year, a.Source,
					a.Abstract, a.URL, a.Status, a.ExclusionReason, a.Placeholder,
				).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
		}

		err = repo.ReplaceProject(ctx, projectID, articles, 10)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects nil project id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)
		err = repo.ReplaceProject(ctx, uuid.Nil, testArticles(), 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns not found for unknown project", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)
		projectID := uuid.New()

		mock.ExpectExec("UPDATE review_projects SET identified_total").
			WithArgs(5, projectID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err = repo.ReplaceProject(ctx, projectID, testArticles(), 5)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("maps foreign key violation to not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)
		projectID := uuid.New()
		articles := testArticles()[:1]

		mock.ExpectExec("UPDATE review_projects SET identified_total").
			WithArgs(1, projectID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("DELETE FROM review_articles").
			WithArgs(projectID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec("INSERT INTO review_articles").
			WithArgs(
				projectID, 0, articles[0].ID, articles[0].Title, articles[0].Authors,
				articles[0].Year, articles[0].Source, articles[0].Abstract,
				articles[0].URL, articles[0].Status, articles[0].ExclusionReason,
				articles[0].Placeholder,
			).
			WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

		err = repo.ReplaceProject(ctx, projectID, articles, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPgArticleRepository_ListByProject(t *testing.T) {
	ctx := context.Background()

	t.Run("returns articles in position order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgArticleRepository(mock)
		projectID := uuid.New()
		articles := testArticles()

		mock.ExpectQuery("SELECT identified_total FROM review_projects").
			WithArgs(projectID).
			WillReturnRows(pgxmock.NewRows([]string{"identified_total"}).AddRow(7))

		rows := pgxmock.NewRows([]string{
			"id", "title", "authors", "year", "source",
			"abstract", "url", "status", "exclusion_reason", "placeholder",
		})
		for _, a := range articles {
			rows.AddRow(a.ID, a.Title, a.Authors, a.Year, a.Source,
				a.Abstract, a.URL, a.Status, a.ExclusionReason, a.Placeholder)
		}
		mock.ExpectQuery("SELECT (.+) FROM review_articles").
			WithArgs(projectID).
			WillReturnRows(rows)

		got, identifiedTotal, err := repo.ListByProject(ctx, projectID)
		require.NoError(t, err)
		assert.Equal(t, 7, identifiedTotal)
		require.Len(t, got, 2)
		assert.Equal(t, "pubmed_1", got[0].ID)
		assert.Equal(t, domain.StatusExcludedTitle, got[1].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPgArticleRepository_DeleteByProject(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgArticleRepository(mock)
	projectID := uuid.New()

	mock.ExpectExec("DELETE FROM review_articles").
		WithArgs(projectID).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec("UPDATE review_projects SET identified_total").
		WithArgs(projectID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.DeleteByProject(ctx, projectID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
