package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "hivedesk/contexts/workspace-operations/booking-service/application"
	"hivedesk/contexts/workspace-operations/booking-service/ports"
	"hivedesk/internal/shared/events"
)

// OutboxRelay drains pending outbox rows and publishes them to the bus.
// Rows are marked published only after a successful publish, so a crash
// between the two steps re-delivers; consumers dedup by event id.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (w OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(w.Logger)

	pending, err := w.Outbox.ListPendingOutbox(ctx, w.batchSize())
	if err != nil {
		return 0, err
	}

	published := 0
	for _, message := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "booking_outbox_decode_failed",
				"module", "workspace-operations/booking-service",
				"layer", "application",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			// Poison row: acknowledge it so the relay does not stall.
			if err := w.Outbox.MarkOutboxPublished(ctx, message.OutboxID, w.now()); err != nil {
				return published, err
			}
			continue
		}
		if err := w.Publisher.Publish(ctx, message.EventType, envelope); err != nil {
			return published, err
		}
		if err := w.Outbox.MarkOutboxPublished(ctx, message.OutboxID, w.now()); err != nil {
			return published, err
		}
		published++
	}

	if published > 0 {
		logger.Info("outbox relay drained",
			"event", "booking_outbox_relayed",
			"module", "workspace-operations/booking-service",
			"layer", "application",
			"published_count", published,
		)
	}
	return published, nil
}

func (w OutboxRelay) batchSize() int {
	if w.BatchSize <= 0 {
		return 100
	}
	return w.BatchSize
}

func (w OutboxRelay) now() time.Time {
	if w.Clock != nil {
		return w.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
