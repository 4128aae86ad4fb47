package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"gigboard/internal/lifecycle"
	"gigboard/internal/models"
)

// PublishRequest asks the service to publish a stored draft.
type PublishRequest struct {
	DraftID string `json:"draft_id"`
	// JobID, when set, updates an existing posting from the draft instead
	// of creating a new one.
	JobID string `json:"job_id,omitempty"`
}

// PublishResponse carries either the live posting or the error that
// stopped it.
type PublishResponse struct {
	Job    *models.JobPosting `json:"job,omitempty"`
	Error  string             `json:"error,omitempty"`
	Fields map[string]string  `json:"fields,omitempty"`
}

// Handler serves publish commands arriving over NATS.
type Handler struct {
	logger      *zap.Logger
	nc          *nats.Conn
	coordinator *lifecycle.Coordinator
	sub         *nats.Subscription
}

func NewHandler(logger *zap.Logger, nc *nats.Conn, coordinator *lifecycle.Coordinator) *Handler {
	return &Handler{
		logger:      logger,
		nc:          nc,
		coordinator: coordinator,
	}
}

func (h *Handler) RegisterSubscriptions(lc fx.Lifecycle) error {
	sub, err := h.nc.QueueSubscribe(PublishRequestSubject, "postings-service", h.handlePublishRequest)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", PublishRequestSubject, err)
	}

	h.sub = sub
	h.logger.Info("registered NATS subscriptions")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return h.sub.Unsubscribe()
		},
	})

	return nil
}

func (h *Handler) handlePublishRequest(msg *nats.Msg) {
	ctx, span := tracer.Start(context.Background(), "handlePublishRequest")
	defer span.End()

	var req PublishRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		span.RecordError(err)
		h.logger.Error("malformed publish request", zap.Error(err))
		h.respond(msg, PublishResponse{Error: "malformed request"})
		return
	}

	var (
		posting *models.JobPosting
		err     error
	)
	if req.JobID != "" {
		posting, err = h.coordinator.UpdateJobFromDraft(ctx, req.JobID, req.DraftID)
	} else {
		posting, err = h.coordinator.PublishDraft(ctx, req.DraftID)
	}
	if err != nil {
		span.RecordError(err)
		h.logger.Warn("publish request failed",
			zap.String("draft_id", req.DraftID),
			zap.Error(err))
		h.respond(msg, responseForError(err))
		return
	}

	h.logger.Info("served publish request",
		zap.String("draft_id", req.DraftID),
		zap.String("job_id", posting.ID))
	h.respond(msg, PublishResponse{Job: posting})
}

func (h *Handler) respond(msg *nats.Msg, resp PublishResponse) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("failed to encode publish response", zap.Error(err))
		return
	}
	if err := msg.Respond(data); err != nil {
		h.logger.Error("failed to send publish response", zap.Error(err))
	}
}
