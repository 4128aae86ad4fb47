// Package lifecycle coordinates the draft→posting publish saga. Publish is
// deliberately not a transaction: the canonical write and the draft cleanup
// hit independent stores, so the cleanup is best-effort and its failures
// are logged, never surfaced, once the durable write has succeeded.
package lifecycle

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gigboard/internal/errors"
	"gigboard/internal/models"
	"gigboard/internal/store"
	"gigboard/internal/telemetry"
	"gigboard/internal/validation"
)

var tracer = telemetry.GetTracer("gigboard/lifecycle")

// Notifier receives a fire-and-forget signal after a posting goes live.
type Notifier interface {
	PostingPublished(ctx context.Context, posting *models.JobPosting) error
}

type Coordinator struct {
	logger   *zap.Logger
	jobs     store.JobStore
	drafts   store.DraftStore
	notifier Notifier
	now      func() time.Time
	newID    func() string
}

type Option func(*Coordinator)

// WithNotifier attaches a publish-event sink. Notification failures are
// logged and dropped like cleanup failures.
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) { c.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(c *Coordinator) { c.newID = newID }
}

func NewCoordinator(logger *zap.Logger, jobs store.JobStore, drafts store.DraftStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		logger: logger,
		jobs:   jobs,
		drafts: drafts,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PublishDraft converts a stored draft into a live posting:
// fetch → validate candidate → create → best-effort draft cleanup.
// A create failure leaves the draft intact so the caller can retry.
func (c *Coordinator) PublishDraft(ctx context.Context, draftID string) (posting *models.JobPosting, err error) {
	ctx, span := tracer.Start(ctx, "Coordinator.PublishDraft")
	defer span.End()
	defer c.recoverUnexpected("publish draft", &err)

	draft, err := c.fetchDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	candidate := draft.ToPosting(c.newID(), c.now().UTC())
	if outcome := validation.ValidateJob(candidate); !outcome.IsValid() {
		return nil, errors.Validation("draft failed validation", validation.FieldMap(outcome))
	}

	created, err := c.jobs.Create(ctx, candidate)
	if err != nil {
		span.RecordError(err)
		return nil, errors.StoreFailure("creating job posting", err)
	}

	c.cleanupDraft(ctx, draftID, created.ID)
	c.notifyPublished(ctx, created)

	c.logger.Info("published draft",
		zap.String("draft_id", draftID),
		zap.String("job_id", created.ID))
	return created, nil
}

// UpdateJobFromDraft mirrors PublishDraft but overwrites an existing
// posting instead of creating one, preserving its id.
func (c *Coordinator) UpdateJobFromDraft(ctx context.Context, jobID, draftID string) (posting *models.JobPosting, err error) {
	ctx, span := tracer.Start(ctx, "Coordinator.UpdateJobFromDraft")
	defer span.End()
	defer c.recoverUnexpected("update job from draft", &err)

	draft, err := c.fetchDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	candidate := draft.ToPosting(jobID, c.now().UTC())
	if outcome := validation.ValidateJob(candidate); !outcome.IsValid() {
		return nil, errors.Validation("draft failed validation", validation.FieldMap(outcome))
	}

	updated, err := c.jobs.Update(ctx, jobID, candidate)
	if err != nil {
		if stderrors.Is(err, store.ErrJobNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("job posting %s not found", jobID), err)
		}
		span.RecordError(err)
		return nil, errors.StoreFailure("updating job posting", err)
	}

	c.cleanupDraft(ctx, draftID, updated.ID)
	c.notifyPublished(ctx, updated)

	c.logger.Info("updated job posting from draft",
		zap.String("draft_id", draftID),
		zap.String("job_id", updated.ID))
	return updated, nil
}

// CreateDraftFromJob opens an existing posting for editing by deriving a
// draft with the deterministic id "<jobID>_draft". Saving twice overwrites;
// there is nothing to roll back on failure.
func (c *Coordinator) CreateDraftFromJob(ctx context.Context, jobID string) (draft *models.JobPostingDraft, err error) {
	ctx, span := tracer.Start(ctx, "Coordinator.CreateDraftFromJob")
	defer span.End()
	defer c.recoverUnexpected("create draft from job", &err)

	posting, err := c.jobs.GetByID(ctx, jobID)
	if err != nil {
		if stderrors.Is(err, store.ErrJobNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("job posting %s not found", jobID), err)
		}
		span.RecordError(err)
		return nil, errors.StoreFailure("fetching job posting", err)
	}

	d := models.DraftFromPosting(posting, c.now().UTC())
	if err := c.drafts.Save(ctx, d); err != nil {
		span.RecordError(err)
		return nil, errors.StoreFailure("saving draft", err)
	}
	return d, nil
}

// SaveDraft persists the scratch draft, stamping its modification time.
// This is the autosave path; it never publishes.
func (c *Coordinator) SaveDraft(ctx context.Context, draft *models.JobPostingDraft) error {
	ctx, span := tracer.Start(ctx, "Coordinator.SaveDraft")
	defer span.End()

	draft.LastModified = c.now().UTC()
	if err := c.drafts.Save(ctx, draft); err != nil {
		span.RecordError(err)
		return errors.StoreFailure("saving draft", err)
	}
	return nil
}

// DiscardDraft removes an abandoned draft. A draft that was never saved is
// not an error.
func (c *Coordinator) DiscardDraft(ctx context.Context, draftID string) error {
	ctx, span := tracer.Start(ctx, "Coordinator.DiscardDraft")
	defer span.End()

	if err := c.drafts.Delete(ctx, draftID); err != nil && !stderrors.Is(err, store.ErrDraftNotFound) {
		span.RecordError(err)
		return errors.StoreFailure("deleting draft", err)
	}
	return nil
}

func (c *Coordinator) fetchDraft(ctx context.Context, draftID string) (*models.JobPostingDraft, error) {
	draft, err := c.drafts.Get(ctx, draftID)
	if err != nil {
		if stderrors.Is(err, store.ErrDraftNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("draft %s not found", draftID), err)
		}
		return nil, errors.StoreFailure("fetching draft", err)
	}
	return draft, nil
}

// cleanupDraft is the best-effort second step of the saga. By the time it
// runs the durable write has succeeded, so a failure here must not fail
// the operation; the orphaned draft is logged and left behind.
func (c *Coordinator) cleanupDraft(ctx context.Context, draftID, jobID string) {
	if err := c.drafts.Delete(ctx, draftID); err != nil {
		c.logger.Warn("failed to delete draft after publish",
			zap.String("draft_id", draftID),
			zap.String("job_id", jobID),
			zap.Error(err))
	}
}

func (c *Coordinator) notifyPublished(ctx context.Context, posting *models.JobPosting) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.PostingPublished(ctx, posting); err != nil {
		c.logger.Warn("failed to emit published event",
			zap.String("job_id", posting.ID),
			zap.Error(err))
	}
}

// recoverUnexpected converts a panic in any step into an UNEXPECTED error
// with the original cause preserved, instead of taking the host down.
func (c *Coordinator) recoverUnexpected(op string, err *error) {
	if r := recover(); r != nil {
		cause, ok := r.(error)
		if !ok {
			cause = fmt.Errorf("%v", r)
		}
		c.logger.Error("panic during draft lifecycle operation",
			zap.String("operation", op),
			zap.Error(cause))
		*err = errors.Unexpected(op+" panicked", cause)
	}
}
