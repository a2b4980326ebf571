package workers

import (
	"context"
	"log/slog"
	"time"

	application "hivedesk/contexts/workspace-operations/booking-service/application"
	"hivedesk/contexts/workspace-operations/booking-service/ports"
)

// BookingCompleter sweeps confirmed bookings whose end time has passed and
// marks them completed, staging a booking.completed outbox row each.
type BookingCompleter struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (w BookingCompleter) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(w.Logger)

	completed, err := w.Repository.CompleteElapsed(ctx, w.now())
	if err != nil {
		logger.Error("booking completion sweep failed",
			"event", "booking_completion_sweep_failed",
			"module", "workspace-operations/booking-service",
			"layer", "application",
			"error", err.Error(),
		)
		return 0, err
	}
	if len(completed) > 0 {
		logger.Info("booking completion sweep done",
			"event", "booking_completion_sweep_done",
			"module", "workspace-operations/booking-service",
			"layer", "application",
			"completed_count", len(completed),
		)
	}
	return len(completed), nil
}

func (w BookingCompleter) now() time.Time {
	if w.Clock != nil {
		return w.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
