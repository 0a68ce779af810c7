// Package store provides the in-memory article collection that is the
// single source of truth for screening, PRISMA counting, and network graph
// construction.
//
// The store owns its articles behind a single-writer API: every mutation is
// serialized by an internal mutex and validated against the status state
// machine, and every read hands out a snapshot copy so that pure
// computations (dedup, PRISMA counts, graph building) never observe a
// half-applied batch.
package store

import (
	"sort"
	"sync"

	"github.com/metapiqma/review-service/internal/domain"
)

// ArticleStore is an ordered in-memory collection of articles for one
// review project. Order is insertion/arrival order. Articles are never
// physically deleted by status-changing operations; status encodes removal.
// Only ClearAll discards records.
type ArticleStore struct {
	mu       sync.Mutex
	articles []domain.Article
	index    map[string]int

	// identifiedTotal is the count of articles originally identified,
	// captured at ingestion time. It is a separate scalar because
	// already-removed articles still count toward "identified" in PRISMA
	// accounting even though later clears of individual state would not
	// reproduce it from the live collection alone.
	identifiedTotal int
}

// NewArticleStore creates an empty store.
func NewArticleStore() *ArticleStore {
	return &ArticleStore{index: make(map[string]int)}
}

// Add ingests a batch of articles with status unscreened and bumps the
// identified total. The batch is rejected wholesale if any id is empty or
// collides with an existing record, so a failed ingest never partially
// applies.
func (s *ArticleStore) Add(articles []domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(articles))
	for _, a := range articles {
		if a.ID == "" {
			return domain.NewValidationError("id", "article id must not be empty")
		}
		if _, dup := seen[a.ID]; dup {
			return domain.NewValidationError("id", "duplicate article id in batch: "+a.ID)
		}
		if _, exists := s.index[a.ID]; exists {
			return domain.NewValidationError("id", "article id already in store: "+a.ID)
		}
		seen[a.ID] = struct{}{}
	}

	for _, a := range articles {
		a.Status = domain.StatusUnscreened
		a.ExclusionReason = ""
		a.Authors = a.NormalizedAuthors()
		s.index[a.ID] = len(s.articles)
		s.articles = append(s.articles, a)
	}
	s.identifiedTotal += len(articles)
	return nil
}

// Load replaces the store contents with previously persisted articles,
// preserving their recorded statuses and exclusion reasons. The identified
// total is restored to the batch size, which includes already-removed
// records.
func (s *ArticleStore) Load(articles []domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int, len(articles))
	loaded := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.ID == "" {
			return domain.NewValidationError("id", "article id must not be empty")
		}
		if _, dup := index[a.ID]; dup {
			return domain.NewValidationError("id", "duplicate article id: "+a.ID)
		}
		if !a.Status.IsValid() {
			return domain.NewValidationError("status", "unknown status: "+string(a.Status))
		}
		a.Authors = a.NormalizedAuthors()
		index[a.ID] = len(loaded)
		loaded = append(loaded, a)
	}

	s.articles = loaded
	s.index = index
	s.identifiedTotal = len(loaded)
	return nil
}

// Articles returns a snapshot copy of the collection in insertion order.
func (s *ArticleStore) Articles() []domain.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]domain.Article, len(s.articles))
	copy(snapshot, s.articles)
	return snapshot
}

// Get returns a copy of the article with the given id.
func (s *ArticleStore) Get(id string) (domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Article{}, domain.NewNotFoundError("article", id)
	}
	return s.articles[i], nil
}

// GetOrPlaceholder returns the article with the given id, or an explicitly
// tagged placeholder when the id references a record no longer present.
// Callers holding extraction data keyed by article id use this instead of
// fabricating blank records.
func (s *ArticleStore) GetOrPlaceholder(id string) domain.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[id]; ok {
		return s.articles[i]
	}
	return domain.NewPlaceholder(id)
}

// Len returns the number of articles in the store.
func (s *ArticleStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.articles)
}

// IdentifiedTotal returns the originally-identified count captured at
// ingestion time.
func (s *ArticleStore) IdentifiedTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identifiedTotal
}

// Transition applies a status change to a single article after validating
// it against the state machine. Transitions into excluded_fulltext require
// a non-empty reason; the reason is cleared on every other target.
func (s *ArticleStore) Transition(id string, target domain.Status, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(id, target, reason)
}

// TransitionBatch applies the same status change to a batch of ids
// atomically: every transition is validated against the current snapshot
// before any is applied, so an illegal id anywhere in the batch leaves the
// store untouched.
func (s *ArticleStore) TransitionBatch(ids []string, target domain.Status, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if err := s.validateLocked(id, target, reason); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if err := s.transitionLocked(id, target, reason); err != nil {
			// validateLocked above makes this unreachable; surface it
			// rather than mask a contract violation.
			return err
		}
	}
	return nil
}

// RemoveIncomplete marks every unscreened article that lacks the given
// field with the corresponding removed_without_* status. The qualifying set
// is computed from a single consistent view of the store before any write
// is applied. Returns the number of articles removed.
//
// Only unscreened articles are considered on every call path; an article
// already removed for one missing field is never re-removed for another,
// keeping each status explicable by exactly one rule.
func (s *ArticleStore) RemoveIncomplete(field domain.CompletenessField) (int, error) {
	target, ok := field.RemovalStatus()
	if !ok {
		return 0, domain.NewValidationError("field", "unknown completeness field: "+string(field))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var qualifying []string
	for _, a := range s.articles {
		if a.Status == domain.StatusUnscreened && !a.HasField(field) {
			qualifying = append(qualifying, a.ID)
		}
	}
	for _, id := range qualifying {
		if err := s.transitionLocked(id, target, ""); err != nil {
			return 0, err
		}
	}
	return len(qualifying), nil
}

// ClearAll discards every article and resets the identified total. This is
// the only operation that physically deletes records.
func (s *ArticleStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.articles = nil
	s.index = make(map[string]int)
	s.identifiedTotal = 0
}

// StatusCounts returns the number of articles per status.
func (s *ArticleStore) StatusCounts() map[domain.Status]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[domain.Status]int)
	for _, a := range s.articles {
		counts[a.Status]++
	}
	return counts
}

// IncludedFinal returns the included-final articles in insertion order,
// the subset exported as the review's bibliography.
func (s *ArticleStore) IncludedFinal() []domain.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	var included []domain.Article
	for _, a := range s.articles {
		if a.Status == domain.StatusIncludedFinal {
			included = append(included, a)
		}
	}
	return included
}

// NonDuplicates returns the articles that are not marked duplicate, the
// subset the network graph builder consumes.
func (s *ArticleStore) NonDuplicates() []domain.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Article
	for _, a := range s.articles {
		if a.Status != domain.StatusDuplicate {
			out = append(out, a)
		}
	}
	return out
}

func (s *ArticleStore) validateLocked(id string, target domain.Status, reason string) error {
	i, ok := s.index[id]
	if !ok {
		return domain.NewNotFoundError("article", id)
	}
	a := s.articles[i]
	if !domain.CanTransition(a.Status, target) {
		return &domain.InvalidTransitionError{ArticleID: id, From: a.Status, To: target}
	}
	if target == domain.StatusExcludedFulltext && reason == "" {
		return domain.NewValidationError("exclusion_reason", "excluded_fulltext requires a reason")
	}
	return nil
}

func (s *ArticleStore) transitionLocked(id string, target domain.Status, reason string) error {
	if err := s.validateLocked(id, target, reason); err != nil {
		return err
	}
	i := s.index[id]
	s.articles[i].Status = target
	if target == domain.StatusExcludedFulltext {
		s.articles[i].ExclusionReason = reason
	} else {
		s.articles[i].ExclusionReason = ""
	}
	return nil
}

// SortedIDs returns all article ids in lexical order. Intended for
// deterministic iteration in diagnostics and tests.
func (s *ArticleStore) SortedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.articles))
	for _, a := range s.articles {
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)
	return ids
}
