package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"gigboard/internal/models"
	"gigboard/internal/telemetry"
)

var tracer = telemetry.GetTracer("gigboard/events")

const (
	// PublishedSubject carries every posting that went live.
	PublishedSubject = "postings.published"
	// PublishRequestSubject is the host-facing command subject asking the
	// service to publish a stored draft.
	PublishRequestSubject = "drafts.publish"
)

// Connect dials NATS with the reconnect behaviour every consumer here
// relies on.
func Connect(url string, timeout time.Duration) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Timeout(timeout),
		nats.Name("postings-service"),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}
	return nats.Connect(url, opts...)
}

// Publisher emits published-posting events. The coordinator treats these
// as best-effort: a failure never fails the publish that triggered it.
type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func NewPublisher(nc *nats.Conn, logger *zap.Logger) *Publisher {
	return &Publisher{nc: nc, logger: logger}
}

func (p *Publisher) PostingPublished(ctx context.Context, posting *models.JobPosting) error {
	_, span := tracer.Start(ctx, "PostingPublished")
	defer span.End()

	data, err := json.Marshal(posting)
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(
		telemetry.String("nats.subject", PublishedSubject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.nc.Publish(PublishedSubject, data); err != nil {
		span.RecordError(err)
		return err
	}

	p.logger.Debug("published posting event",
		zap.String("job_id", posting.ID),
		zap.String("subject", PublishedSubject))
	return nil
}
