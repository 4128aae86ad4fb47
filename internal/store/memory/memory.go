// Package memory holds in-memory store implementations. Safe for
// concurrent access; intended for unit testing and development.
package memory

import (
	"context"
	"sync"

	"gigboard/internal/models"
	"gigboard/internal/store"
)

var (
	_ store.DraftStore = (*Store)(nil)
	_ store.JobStore   = (*Store)(nil)
)

// Store implements both DraftStore and JobStore over mutex-guarded maps.
type Store struct {
	mu       sync.RWMutex
	drafts   map[string]models.JobPostingDraft
	postings map[string]models.JobPosting
}

func New() *Store {
	return &Store{
		drafts:   make(map[string]models.JobPostingDraft),
		postings: make(map[string]models.JobPosting),
	}
}

func (s *Store) Get(ctx context.Context, id string) (*models.JobPostingDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, store.ErrDraftNotFound
	}
	return &d, nil
}

func (s *Store) Save(ctx context.Context, draft *models.JobPostingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[draft.ID] = *draft
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, id)
	return nil
}

func (s *Store) Create(ctx context.Context, posting *models.JobPosting) (*models.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postings[posting.ID] = *posting
	created := *posting
	return &created, nil
}

func (s *Store) Update(ctx context.Context, id string, posting *models.JobPosting) (*models.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.postings[id]
	if !ok {
		return nil, store.ErrJobNotFound
	}

	updated := *posting
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	s.postings[id] = updated

	result := updated
	return &result, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.postings[id]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	return &p, nil
}
