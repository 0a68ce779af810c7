package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/metapiqma/review-service/internal/domain"
	"github.com/metapiqma/review-service/internal/store"
)

// session returns the in-memory article store for a project, loading the
// persisted snapshot on first access. The project must exist. A failed
// load starts the session empty with a warning; the in-memory store is the
// working copy from then on.
func (s *Server) session(ctx context.Context, projectID uuid.UUID) (*store.ArticleStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[projectID]; ok {
		return sess, nil
	}

	if _, err := s.projectRepo.Get(ctx, projectID); err != nil {
		return nil, err
	}

	sess := store.NewArticleStore()
	articles, _, err := s.articleRepo.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("project_id", projectID.String()).
			Msg("loading persisted articles failed; starting session empty")
	} else if len(articles) > 0 {
		if err := sess.Load(articles); err != nil {
			s.logger.Warn().Err(err).
				Str("project_id", projectID.String()).
				Msg("persisted articles rejected by the store; starting session empty")
			sess = store.NewArticleStore()
		}
	}

	s.sessions[projectID] = sess
	return sess, nil
}

// dropSession discards a project's in-memory store, typically after the
// project itself is deleted.
func (s *Server) dropSession(projectID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, projectID)
}

// persist writes the session's current article snapshot through to the
// repository. Failures are warnings: the in-memory store stays
// authoritative for the session and the decision is not lost to the user.
func (s *Server) persist(ctx context.Context, projectID uuid.UUID, sess *store.ArticleStore) {
	err := s.articleRepo.ReplaceProject(ctx, projectID, sess.Articles(), sess.IdentifiedTotal())
	if err != nil {
		s.logger.Warn().Err(err).
			Str("project_id", projectID.String()).
			Msg("persisting article snapshot failed; in-memory state remains authoritative")
	}
}

// sessionProvider adapts a session store to the graph builder's article
// provider contract, feeding it the non-duplicate subset.
type sessionProvider struct {
	sess *store.ArticleStore
}

func (p sessionProvider) ArticlesForProject(ctx context.Context, projectID string) ([]domain.Article, error) {
	return p.sess.NonDuplicates(), nil
}
