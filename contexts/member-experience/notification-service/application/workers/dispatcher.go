package workers

import (
	"context"
	"log/slog"
	"time"

	application "hivedesk/contexts/member-experience/notification-service/application"
	"hivedesk/contexts/member-experience/notification-service/domain/entities"
	"hivedesk/contexts/member-experience/notification-service/ports"
)

// Dispatcher delivers pending notifications through the sender port with a
// bounded number of attempts per notification.
type Dispatcher struct {
	Repo      ports.Repository
	Sender    ports.Sender
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (w Dispatcher) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(w.Logger)

	pending, err := w.Repo.ListPending(ctx, w.batchSize())
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, notification := range pending {
		now := w.now()
		notification.Attempts++
		if err := w.Sender.Send(ctx, notification); err != nil {
			logger.Warn("notification delivery attempt failed",
				"event", "notification_delivery_failed",
				"module", "member-experience/notification-service",
				"layer", "application",
				"notification_id", notification.NotificationID,
				"attempts", notification.Attempts,
				"error", err.Error(),
			)
			if notification.Attempts >= entities.MaxDeliveryAttempts {
				notification.Status = entities.NotificationStatusFailed
			}
			if err := w.Repo.UpdateNotification(ctx, notification); err != nil {
				return delivered, err
			}
			continue
		}

		notification.Status = entities.NotificationStatusSent
		notification.SentAt = &now
		if err := w.Repo.UpdateNotification(ctx, notification); err != nil {
			return delivered, err
		}
		delivered++
	}

	if delivered > 0 {
		logger.Info("notification dispatch done",
			"event", "notification_dispatch_done",
			"module", "member-experience/notification-service",
			"layer", "application",
			"delivered_count", delivered,
		)
	}
	return delivered, nil
}

func (w Dispatcher) batchSize() int {
	if w.BatchSize <= 0 {
		return 100
	}
	return w.BatchSize
}

func (w Dispatcher) now() time.Time {
	if w.Clock != nil {
		return w.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
