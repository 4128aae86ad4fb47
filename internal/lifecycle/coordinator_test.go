package lifecycle

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "gigboard/internal/errors"
	"gigboard/internal/models"
	"gigboard/internal/store"
	"gigboard/internal/store/memory"
)

// ──────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────

type flakyDrafts struct {
	store.DraftStore
	failGet    error
	failSave   error
	failDelete error
	gets       int
	saves      int
	deletes    int
}

func (f *flakyDrafts) Get(ctx context.Context, id string) (*models.JobPostingDraft, error) {
	f.gets++
	if f.failGet != nil {
		return nil, f.failGet
	}
	return f.DraftStore.Get(ctx, id)
}

func (f *flakyDrafts) Save(ctx context.Context, draft *models.JobPostingDraft) error {
	f.saves++
	if f.failSave != nil {
		return f.failSave
	}
	return f.DraftStore.Save(ctx, draft)
}

func (f *flakyDrafts) Delete(ctx context.Context, id string) error {
	f.deletes++
	if f.failDelete != nil {
		return f.failDelete
	}
	return f.DraftStore.Delete(ctx, id)
}

type flakyJobs struct {
	store.JobStore
	failCreate error
	failUpdate error
	creates    int
	updates    int
}

func (f *flakyJobs) Create(ctx context.Context, p *models.JobPosting) (*models.JobPosting, error) {
	f.creates++
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	return f.JobStore.Create(ctx, p)
}

func (f *flakyJobs) Update(ctx context.Context, id string, p *models.JobPosting) (*models.JobPosting, error) {
	f.updates++
	if f.failUpdate != nil {
		return nil, f.failUpdate
	}
	return f.JobStore.Update(ctx, id, p)
}

type panickyJobs struct {
	store.JobStore
}

func (panickyJobs) Create(ctx context.Context, p *models.JobPosting) (*models.JobPosting, error) {
	panic("store driver blew up")
}

type fakeNotifier struct {
	fail     error
	notified []string
}

func (n *fakeNotifier) PostingPublished(ctx context.Context, p *models.JobPosting) error {
	if n.fail != nil {
		return n.fail
	}
	n.notified = append(n.notified, p.ID)
	return nil
}

// ──────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func validDraft(id string) *models.JobPostingDraft {
	return &models.JobPostingDraft{
		ID:             id,
		EmployerID:     "emp-1",
		Title:          "Warehouse Associate",
		Description:    "Load and unload delivery trucks at the central depot.",
		SalaryAmount:   500,
		SalaryUnit:     models.SalaryDaily,
		DurationAmount: 5,
		DurationUnit:   models.DurationDays,
		Location:       models.Location{State: "Karnataka", District: "Bengaluru Urban"},
	}
}

type fixture struct {
	coordinator *Coordinator
	drafts      *flakyDrafts
	jobs        *flakyJobs
	notifier    *fakeNotifier
	logs        *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	mem := memory.New()
	drafts := &flakyDrafts{DraftStore: mem}
	jobs := &flakyJobs{JobStore: mem}
	notifier := &fakeNotifier{}
	c := NewCoordinator(zap.New(core), jobs, drafts,
		WithNotifier(notifier),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "job-generated" }),
	)
	return &fixture{coordinator: c, drafts: drafts, jobs: jobs, notifier: notifier, logs: logs}
}

func warnCount(logs *observer.ObservedLogs, message string) int {
	return len(logs.FilterMessage(message).All())
}

// ──────────────────────────────────────────────────
// PublishDraft
// ──────────────────────────────────────────────────

func TestPublishDraft(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if err := f.drafts.DraftStore.Save(ctx, validDraft("d-1")); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	posting, err := f.coordinator.PublishDraft(ctx, "d-1")
	if err != nil {
		t.Fatalf("PublishDraft: %v", err)
	}

	if posting.ID != "job-generated" {
		t.Fatalf("posting id = %q", posting.ID)
	}
	if posting.Status != models.StatusActive {
		t.Fatalf("status = %s, want %s", posting.Status, models.StatusActive)
	}
	if !posting.CreatedAt.Equal(fixedNow) || !posting.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("timestamps = %v / %v, want %v", posting.CreatedAt, posting.UpdatedAt, fixedNow)
	}
	if posting.EmployerID != "emp-1" {
		t.Fatalf("employer id = %q", posting.EmployerID)
	}

	// Draft is cleaned up after a successful publish.
	if _, err := f.drafts.DraftStore.Get(ctx, "d-1"); err != store.ErrDraftNotFound {
		t.Fatalf("expected draft gone, got %v", err)
	}
	if len(f.notifier.notified) != 1 || f.notifier.notified[0] != "job-generated" {
		t.Fatalf("notified = %v", f.notifier.notified)
	}
}

func TestPublishDraftCleanupFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if err := f.drafts.DraftStore.Save(ctx, validDraft("d-1")); err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	f.drafts.failDelete = context.DeadlineExceeded

	posting, err := f.coordinator.PublishDraft(ctx, "d-1")
	if err != nil {
		t.Fatalf("cleanup failure must not fail the publish, got %v", err)
	}
	if posting == nil {
		t.Fatal("expected a posting")
	}
	if got := warnCount(f.logs, "failed to delete draft after publish"); got != 1 {
		t.Fatalf("warn logs = %d, want 1", got)
	}
}

func TestPublishDraftCreateFailureLeavesDraftIntact(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if err := f.drafts.DraftStore.Save(ctx, validDraft("d-1")); err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	f.jobs.failCreate = context.DeadlineExceeded

	_, err := f.coordinator.PublishDraft(ctx, "d-1")
	if !apperrors.IsType(err, apperrors.ErrTypeStoreFailure) {
		t.Fatalf("expected StoreFailure, got %v", err)
	}

	// The draft stays so the caller can retry; nothing is half-done.
	if _, err := f.drafts.DraftStore.Get(ctx, "d-1"); err != nil {
		t.Fatalf("draft should survive a failed create: %v", err)
	}
	if f.drafts.deletes != 0 {
		t.Fatalf("deletes = %d, want 0", f.drafts.deletes)
	}
	if len(f.notifier.notified) != 0 {
		t.Fatalf("notified on failure: %v", f.notifier.notified)
	}
}

func TestPublishDraftNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.coordinator.PublishDraft(context.Background(), "nope")
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if f.jobs.creates != 0 || f.drafts.deletes != 0 || f.drafts.saves != 0 {
		t.Fatalf("stores written for a missing draft: creates=%d deletes=%d saves=%d",
			f.jobs.creates, f.drafts.deletes, f.drafts.saves)
	}
}

func TestPublishDraftValidationFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	d := validDraft("d-1")
	d.Description = "short"
	if err := f.drafts.DraftStore.Save(ctx, d); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	_, err := f.coordinator.PublishDraft(ctx, "d-1")
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected Validation, got %v", err)
	}

	var de *apperrors.DomainError
	if !stderrors.As(err, &de) {
		t.Fatal("expected a DomainError")
	}
	if _, ok := de.Fields["description"]; !ok {
		t.Fatalf("expected a description field error, got %v", de.Fields)
	}

	// Validation failures never reach the stores.
	if f.jobs.creates != 0 || f.drafts.deletes != 0 {
		t.Fatalf("stores written for invalid draft: creates=%d deletes=%d", f.jobs.creates, f.drafts.deletes)
	}
}

func TestPublishDraftNotifierFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if err := f.drafts.DraftStore.Save(ctx, validDraft("d-1")); err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	f.notifier.fail = context.DeadlineExceeded

	if _, err := f.coordinator.PublishDraft(ctx, "d-1"); err != nil {
		t.Fatalf("notifier failure must not fail the publish, got %v", err)
	}
	if got := warnCount(f.logs, "failed to emit published event"); got != 1 {
		t.Fatalf("warn logs = %d, want 1", got)
	}
}

func TestPublishDraftPanicBecomesUnexpected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if err := f.drafts.DraftStore.Save(ctx, validDraft("d-1")); err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	c := NewCoordinator(zap.NewNop(), panickyJobs{}, f.drafts,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "job-generated" }),
	)

	_, err := c.PublishDraft(ctx, "d-1")
	if !apperrors.IsType(err, apperrors.ErrTypeUnexpected) {
		t.Fatalf("expected Unexpected, got %v", err)
	}
}

// ──────────────────────────────────────────────────
// UpdateJobFromDraft
// ──────────────────────────────────────────────────

func TestUpdateJobFromDraft(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	seeded := validDraft("seed").ToPosting("job-1", fixedNow.Add(-time.Hour))
	if _, err := f.jobs.JobStore.Create(ctx, seeded); err != nil {
		t.Fatalf("seed posting: %v", err)
	}

	d := validDraft("job-1_draft")
	d.Title = "Forklift Operator"
	if err := f.drafts.DraftStore.Save(ctx, d); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	updated, err := f.coordinator.UpdateJobFromDraft(ctx, "job-1", "job-1_draft")
	if err != nil {
		t.Fatalf("UpdateJobFromDraft: %v", err)
	}

	if updated.ID != "job-1" {
		t.Fatalf("id = %q, want job-1", updated.ID)
	}
	if updated.Title != "Forklift Operator" {
		t.Fatalf("title = %q", updated.Title)
	}
	if !updated.CreatedAt.Equal(fixedNow.Add(-time.Hour)) {
		t.Fatalf("CreatedAt changed: %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("UpdatedAt = %v, want %v", updated.UpdatedAt, fixedNow)
	}
	if _, err := f.drafts.DraftStore.Get(ctx, "job-1_draft"); err != store.ErrDraftNotFound {
		t.Fatalf("expected draft gone, got %v", err)
	}
}

func TestUpdateJobFromDraftMissingJob(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if err := f.drafts.DraftStore.Save(ctx, validDraft("d-1")); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	_, err := f.coordinator.UpdateJobFromDraft(ctx, "missing", "d-1")
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if f.drafts.deletes != 0 {
		t.Fatalf("draft deleted after failed update")
	}
}

// ──────────────────────────────────────────────────
// CreateDraftFromJob / SaveDraft / DiscardDraft
// ──────────────────────────────────────────────────

func TestCreateDraftFromJob(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	seeded := validDraft("seed").ToPosting("job-1", fixedNow)
	if _, err := f.jobs.JobStore.Create(ctx, seeded); err != nil {
		t.Fatalf("seed posting: %v", err)
	}

	first, err := f.coordinator.CreateDraftFromJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("CreateDraftFromJob: %v", err)
	}
	if first.ID != "job-1_draft" {
		t.Fatalf("draft id = %q, want job-1_draft", first.ID)
	}
	if first.Title != seeded.Title {
		t.Fatalf("draft title = %q", first.Title)
	}

	// Deterministic: a second call derives the same id and overwrites.
	second, err := f.coordinator.CreateDraftFromJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("CreateDraftFromJob (second): %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second id = %q, want %q", second.ID, first.ID)
	}
	if f.drafts.saves != 2 {
		t.Fatalf("saves = %d, want 2", f.drafts.saves)
	}
}

func TestCreateDraftFromJobMissingJob(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.coordinator.CreateDraftFromJob(context.Background(), "missing")
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if f.drafts.saves != 0 {
		t.Fatalf("saves = %d, want 0", f.drafts.saves)
	}
}

func TestSaveDraftStampsLastModified(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	d := validDraft("d-1")
	d.LastModified = time.Time{}
	if err := f.coordinator.SaveDraft(ctx, d); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	stored, err := f.drafts.DraftStore.Get(ctx, "d-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !stored.LastModified.Equal(fixedNow) {
		t.Fatalf("LastModified = %v, want %v", stored.LastModified, fixedNow)
	}
}

func TestDiscardDraftToleratesMissing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	if err := f.coordinator.DiscardDraft(context.Background(), "never-saved"); err != nil {
		t.Fatalf("DiscardDraft: %v", err)
	}
}
