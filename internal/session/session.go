// Package session holds per-form editing state: field values, the
// field→error map, the derived cost figure, and opportunistic autosave.
// One session is driven by one caller at a time; the only internal
// concurrency is the background autosave worker.
package session

import (
	"context"

	"go.uber.org/zap"

	"gigboard/internal/errors"
	"gigboard/internal/lifecycle"
	"gigboard/internal/models"
	"gigboard/internal/pricing"
	"gigboard/internal/validation"
)

// Controller owns a draft for the duration of an editing session.
type Controller struct {
	logger      *zap.Logger
	coordinator *lifecycle.Coordinator

	draft     models.JobPostingDraft
	fieldErrs map[string]validation.Error
	dirty     bool
	published bool
	cost      pricing.CostBreakdown

	ctx    context.Context
	cancel context.CancelFunc
	saves  chan models.JobPostingDraft
	done   chan struct{}
}

// New starts a session over the given draft. The draft's EmployerID is set
// by the host from its auth context, never by form input.
func New(logger *zap.Logger, coordinator *lifecycle.Coordinator, draft models.JobPostingDraft) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		logger:      logger,
		coordinator: coordinator,
		draft:       draft,
		fieldErrs:   make(map[string]validation.Error),
		cost:        pricing.Breakdown(draft.SalaryAmount, draft.SalaryUnit, draft.DurationAmount, draft.DurationUnit),
		ctx:         ctx,
		cancel:      cancel,
		saves:       make(chan models.JobPostingDraft, 1),
		done:        make(chan struct{}),
	}
	go c.autosaveLoop()
	return c
}

// autosaveLoop drains queued draft snapshots and persists them. Failures
// are logged and dropped so a flaky store never blocks editing; the next
// mutation queues a fresh snapshot anyway.
func (c *Controller) autosaveLoop() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			return
		case snapshot := <-c.saves:
			if err := c.coordinator.SaveDraft(c.ctx, &snapshot); err != nil {
				c.logger.Warn("autosave failed",
					zap.String("draft_id", snapshot.ID),
					zap.Error(err))
				continue
			}
			c.logger.Debug("autosaved draft", zap.String("draft_id", snapshot.ID))
		}
	}
}

func (c *Controller) SetTitle(title string) {
	c.draft.Title = title
	c.afterMutation(validation.FieldTitle, validation.ValidateField(validation.FieldTitle, title), false)
}

func (c *Controller) SetDescription(description string) {
	c.draft.Description = description
	c.afterMutation(validation.FieldDescription, validation.ValidateField(validation.FieldDescription, description), false)
}

func (c *Controller) SetSalaryAmount(amount float64) {
	c.draft.SalaryAmount = amount
	c.afterMutation(validation.FieldSalaryAmount, validation.ValidateField(validation.FieldSalaryAmount, amount), true)
}

func (c *Controller) SetSalaryUnit(unit models.SalaryUnit) {
	c.draft.SalaryUnit = unit
	c.afterMutation(validation.FieldSalaryUnit, validation.ValidateField(validation.FieldSalaryUnit, unit), true)
}

func (c *Controller) SetDurationAmount(amount int) {
	c.draft.DurationAmount = amount
	c.afterMutation(validation.FieldDurationAmount, validation.ValidateField(validation.FieldDurationAmount, amount), true)
}

func (c *Controller) SetDurationUnit(unit models.DurationUnit) {
	c.draft.DurationUnit = unit
	c.afterMutation(validation.FieldDurationUnit, validation.ValidateField(validation.FieldDurationUnit, unit), true)
}

func (c *Controller) SetLocation(loc models.Location) {
	c.draft.Location = loc
	c.afterMutation(validation.FieldLocation, validation.ValidateField(validation.FieldLocation, loc), false)
}

// afterMutation is the per-field contract: refresh that field's entry in
// the error map, recompute the cost figure when relevant, and queue an
// autosave when the whole form is valid and dirty.
func (c *Controller) afterMutation(field string, outcome validation.Outcome, costRelevant bool) {
	if err, ok := outcome.First(); ok {
		c.fieldErrs[field] = err
	} else {
		delete(c.fieldErrs, field)
	}

	c.dirty = true
	if costRelevant {
		c.cost = pricing.Breakdown(c.draft.SalaryAmount, c.draft.SalaryUnit, c.draft.DurationAmount, c.draft.DurationUnit)
	}

	if c.dirty && c.IsValid() {
		c.queueAutosave()
	}
}

// queueAutosave hands the current draft snapshot to the worker without
// blocking the caller. A stale pending snapshot is replaced; if the worker
// grabs it mid-swap the next mutation re-queues.
func (c *Controller) queueAutosave() {
	snapshot := c.draft
	select {
	case c.saves <- snapshot:
		return
	default:
	}
	select {
	case <-c.saves:
	default:
	}
	select {
	case c.saves <- snapshot:
	default:
	}
}

// IsValid reports whether the form could be submitted right now: no entry
// in the error map and every required field filled in.
func (c *Controller) IsValid() bool {
	if len(c.fieldErrs) > 0 {
		return false
	}
	return validation.ValidateDraft(&c.draft).IsValid()
}

// Errors returns a copy of the current field→error map.
func (c *Controller) Errors() map[string]validation.Error {
	errs := make(map[string]validation.Error, len(c.fieldErrs))
	for f, e := range c.fieldErrs {
		errs[f] = e
	}
	return errs
}

func (c *Controller) Cost() pricing.CostBreakdown {
	return c.cost
}

// Draft returns a snapshot of the current draft values.
func (c *Controller) Draft() models.JobPostingDraft {
	return c.draft
}

// Submit runs whole-form validation, persists the draft, and publishes it.
// If validation fails the aggregated errors come back unchanged and no
// store is touched through the publish path.
func (c *Controller) Submit(ctx context.Context) (*models.JobPosting, error) {
	if outcome := validation.ValidateDraft(&c.draft); !outcome.IsValid() {
		for _, e := range outcome.Errors() {
			c.fieldErrs[e.Field] = e
		}
		return nil, errors.Validation("form failed validation", validation.FieldMap(outcome))
	}

	if err := c.coordinator.SaveDraft(ctx, &c.draft); err != nil {
		return nil, err
	}

	posting, err := c.coordinator.PublishDraft(ctx, c.draft.ID)
	if err != nil {
		return nil, err
	}

	c.published = true
	c.dirty = false
	return posting, nil
}

// Close tears the session down: in-flight autosaves are cancelled (an
// outstanding write may still complete; it is not retried), and an
// unpublished draft with no user input is best-effort discarded. Non-empty
// drafts stay in the store for later resumption.
func (c *Controller) Close(ctx context.Context) {
	c.cancel()
	<-c.done

	if c.published || !c.draft.IsEmpty() {
		return
	}
	if err := c.coordinator.DiscardDraft(ctx, c.draft.ID); err != nil {
		c.logger.Warn("failed to discard empty draft",
			zap.String("draft_id", c.draft.ID),
			zap.Error(err))
	}
}
