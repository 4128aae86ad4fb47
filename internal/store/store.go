// Package store defines the two persistence contracts the draft workflow
// consumes. Adapters live in subpackages; the coordinator never sees
// anything beyond these interfaces.
package store

import (
	"context"
	"errors"

	"gigboard/internal/models"
)

var (
	ErrDraftNotFound = errors.New("store: draft not found")
	ErrJobNotFound   = errors.New("store: job posting not found")
)

// DraftStore persists mutable drafts keyed by id. Save overwrites;
// concurrent sessions on the same id are last-write-wins.
type DraftStore interface {
	Get(ctx context.Context, id string) (*models.JobPostingDraft, error)
	Save(ctx context.Context, draft *models.JobPostingDraft) error
	Delete(ctx context.Context, id string) error
}

// JobStore persists canonical postings.
type JobStore interface {
	Create(ctx context.Context, posting *models.JobPosting) (*models.JobPosting, error)
	Update(ctx context.Context, id string, posting *models.JobPosting) (*models.JobPosting, error)
	GetByID(ctx context.Context, id string) (*models.JobPosting, error)
}
