package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	application "hivedesk/contexts/member-experience/notification-service/application"
	"hivedesk/contexts/member-experience/notification-service/domain/entities"
	"hivedesk/internal/shared/events"
)

// BookingCompletedConsumer turns booking.completed events into in-app
// notifications for the member who held the booking.
type BookingCompletedConsumer struct {
	Notifications application.Service
	Logger        *slog.Logger
}

type bookingCompletedPayload struct {
	BookingID      string `json:"booking_id"`
	UserID         string `json:"user_id"`
	ResourceID     string `json:"resource_id"`
	AmountDueCents int64  `json:"amount_due_cents"`
}

func (c BookingCompletedConsumer) Handle(ctx context.Context, envelope events.Envelope) error {
	logger := application.ResolveLogger(c.Logger)

	raw, err := json.Marshal(envelope.Payload)
	if err != nil {
		return err
	}
	var payload bookingCompletedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.UserID == "" {
		logger.Warn("booking completed event missing user",
			"event", "notification_booking_event_skipped",
			"module", "member-experience/notification-service",
			"layer", "application",
			"event_id", envelope.EventID,
		)
		return nil
	}

	_, err = c.Notifications.Enqueue(ctx, application.EnqueueInput{
		TenantID: envelope.TenantID,
		UserID:   payload.UserID,
		Channel:  entities.ChannelInApp,
		Kind:     "booking.completed",
		Subject:  "Your booking has ended",
		Body: fmt.Sprintf("Booking %s is complete. Amount due: %d cents.",
			payload.BookingID, payload.AmountDueCents),
	})
	return err
}
