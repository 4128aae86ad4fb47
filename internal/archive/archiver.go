// Package archive feeds every published posting into ClickHouse for
// analytics and search. It consumes the published-postings subject rather
// than hooking the coordinator, so a slow archive never touches the
// publish path.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"gigboard/internal/events"
	"gigboard/internal/models"
	"gigboard/internal/telemetry"
)

var tracer = telemetry.GetTracer("gigboard/archive")

type Archiver struct {
	logger *zap.Logger
	db     clickhouse.Conn
	nc     *nats.Conn
	sub    *nats.Subscription
}

func NewArchiver(logger *zap.Logger, db clickhouse.Conn, nc *nats.Conn) *Archiver {
	return &Archiver{
		logger: logger,
		db:     db,
		nc:     nc,
	}
}

func (a *Archiver) RegisterSubscriptions(lc fx.Lifecycle) error {
	sub, err := a.nc.QueueSubscribe(events.PublishedSubject, "postings-archive", a.handlePublished)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", events.PublishedSubject, err)
	}

	a.sub = sub
	a.logger.Info("archive subscribed to published postings")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return a.sub.Unsubscribe()
		},
	})

	return nil
}

func (a *Archiver) handlePublished(msg *nats.Msg) {
	ctx, span := tracer.Start(context.Background(), "handlePublished")
	defer span.End()

	var posting models.JobPosting
	if err := json.Unmarshal(msg.Data, &posting); err != nil {
		span.RecordError(err)
		a.logger.Error("malformed published posting event", zap.Error(err))
		return
	}

	if err := a.archivePosting(ctx, &posting); err != nil {
		span.RecordError(err)
		a.logger.Error("failed to archive posting",
			zap.String("job_id", posting.ID),
			zap.Error(err))
		return
	}

	a.logger.Debug("archived posting", zap.String("job_id", posting.ID))
}

func (a *Archiver) archivePosting(ctx context.Context, p *models.JobPosting) error {
	query := `
		INSERT INTO published_postings (
			id, employer_id, title, description, salary_amount, salary_unit,
			duration_amount, duration_unit, state, district, status,
			created_at, updated_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)
	`

	if err := a.db.Exec(ctx, query,
		p.ID,
		p.EmployerID,
		p.Title,
		p.Description,
		p.SalaryAmount,
		string(p.SalaryUnit),
		int32(p.DurationAmount),
		string(p.DurationUnit),
		p.Location.State,
		p.Location.District,
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert published posting: %w", err)
	}

	return nil
}
