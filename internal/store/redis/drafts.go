// Package redis backs the DraftStore with redis. Drafts are scratch data:
// each lives under its own key with a TTL, so abandoned drafts age out on
// their own instead of needing a reaper.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gigboard/internal/models"
	"gigboard/internal/store"
)

const keyPrefix = "draft:"

var _ store.DraftStore = (*DraftStore)(nil)

type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (s *DraftStore) Get(ctx context.Context, id string) (*models.JobPostingDraft, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if err == redis.Nil {
		return nil, store.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft %s: %w", id, err)
	}

	var draft models.JobPostingDraft
	if err := draft.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return &draft, nil
}

func (s *DraftStore) Save(ctx context.Context, draft *models.JobPostingDraft) error {
	if err := s.client.Set(ctx, key(draft.ID), *draft, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft %s: %w", draft.ID, err)
	}
	return nil
}

func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	return nil
}
