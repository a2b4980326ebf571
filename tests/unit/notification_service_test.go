package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	notificationservice "hivedesk/contexts/member-experience/notification-service"
	"hivedesk/contexts/member-experience/notification-service/adapters/memory"
	"hivedesk/contexts/member-experience/notification-service/application"
	"hivedesk/contexts/member-experience/notification-service/domain/entities"
	domainerrors "hivedesk/contexts/member-experience/notification-service/domain/errors"
	"hivedesk/contexts/member-experience/notification-service/ports"
	"hivedesk/internal/shared/events"
)

func enqueueNotification(t *testing.T, module notificationservice.Module, channel entities.Channel) entities.Notification {
	t.Helper()
	notification, err := module.Service.Enqueue(context.Background(), application.EnqueueInput{
		TenantID: "tenant-1",
		UserID:   "user-1",
		Channel:  channel,
		Kind:     "test.kind",
		Subject:  "Hello",
		Body:     "Body text",
	})
	if err != nil {
		t.Fatalf("enqueue should succeed: %v", err)
	}
	return notification
}

func TestEnqueueInAppIsSentImmediately(t *testing.T) {
	sender := memory.NewSender()
	module := notificationservice.NewInMemoryModule(sender, nil)

	notification := enqueueNotification(t, module, entities.ChannelInApp)
	if notification.Status != entities.NotificationStatusSent || notification.SentAt == nil {
		t.Fatalf("expected in-app notification sent at enqueue, got %+v", notification)
	}
	if len(sender.Sent()) != 0 {
		t.Fatalf("in-app delivery must not touch the sender, got %d sends", len(sender.Sent()))
	}
}

func TestDispatcherDeliversPendingEmail(t *testing.T) {
	sender := memory.NewSender()
	module := notificationservice.NewInMemoryModule(sender, nil)

	notification := enqueueNotification(t, module, entities.ChannelEmail)
	if notification.Status != entities.NotificationStatusPending {
		t.Fatalf("expected pending email, got %s", notification.Status)
	}

	delivered, err := module.Dispatcher.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("dispatch should succeed: %v", err)
	}
	if delivered != 1 || len(sender.Sent()) != 1 {
		t.Fatalf("expected one delivery, got %d (sender %d)", delivered, len(sender.Sent()))
	}

	listed, err := module.Handler.ListNotificationsHandler(context.Background(), "tenant-1", "user-1", false)
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(listed.Notifications) != 1 || listed.Notifications[0].Status != "sent" || listed.Notifications[0].SentAt == nil {
		t.Fatalf("expected sent notification, got %+v", listed.Notifications)
	}
}

func TestDispatcherRetriesThenFails(t *testing.T) {
	sender := memory.NewSender()
	sender.FailFirst = 2
	module := notificationservice.NewInMemoryModule(sender, nil)

	notification := enqueueNotification(t, module, entities.ChannelEmail)

	for run := 0; run < 2; run++ {
		delivered, err := module.Dispatcher.RunOnce(context.Background())
		if err != nil {
			t.Fatalf("dispatch should not surface send failures: %v", err)
		}
		if delivered != 0 {
			t.Fatalf("run %d: expected no deliveries, got %d", run, delivered)
		}
	}

	// Third attempt succeeds before the retry budget is exhausted.
	delivered, err := module.Dispatcher.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("dispatch should succeed: %v", err)
	}
	if delivered != 1 {
		t.Fatalf("expected delivery on third attempt, got %d", delivered)
	}

	stored, err := module.Service.ListNotifications(context.Background(), "tenant-1", ports.NotificationFilter{})
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(stored) != 1 || stored[0].NotificationID != notification.NotificationID || stored[0].Attempts != 3 {
		t.Fatalf("expected three recorded attempts, got %+v", stored)
	}
}

func TestDispatcherMarksFailedAfterMaxAttempts(t *testing.T) {
	sender := memory.NewSender()
	sender.FailFirst = entities.MaxDeliveryAttempts
	module := notificationservice.NewInMemoryModule(sender, nil)

	enqueueNotification(t, module, entities.ChannelEmail)

	for run := 0; run < entities.MaxDeliveryAttempts; run++ {
		if _, err := module.Dispatcher.RunOnce(context.Background()); err != nil {
			t.Fatalf("dispatch should not surface send failures: %v", err)
		}
	}

	stored, err := module.Service.ListNotifications(context.Background(), "tenant-1", ports.NotificationFilter{})
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(stored) != 1 || stored[0].Status != entities.NotificationStatusFailed {
		t.Fatalf("expected failed notification after retry budget, got %+v", stored)
	}

	// Failed notifications leave the pending queue.
	delivered, err := module.Dispatcher.RunOnce(context.Background())
	if err != nil || delivered != 0 {
		t.Fatalf("expected empty dispatch run, got %d err %v", delivered, err)
	}
}

func TestMarkReadRequiresSent(t *testing.T) {
	module := notificationservice.NewInMemoryModule(memory.NewSender(), nil)

	pending := enqueueNotification(t, module, entities.ChannelEmail)
	if _, err := module.Handler.MarkReadHandler(context.Background(), "tenant-1", "user-1", pending.NotificationID); !errors.Is(err, domainerrors.ErrNotificationNotReadable) {
		t.Fatalf("expected pending notification to be unreadable, got %v", err)
	}

	sent := enqueueNotification(t, module, entities.ChannelInApp)
	read, err := module.Handler.MarkReadHandler(context.Background(), "tenant-1", "user-1", sent.NotificationID)
	if err != nil {
		t.Fatalf("mark read should succeed: %v", err)
	}
	if read.Status != "read" || read.ReadAt == nil {
		t.Fatalf("expected read notification with timestamp, got %+v", read)
	}

	// Marking read twice is a no-op.
	if _, err := module.Handler.MarkReadHandler(context.Background(), "tenant-1", "user-1", sent.NotificationID); err != nil {
		t.Fatalf("repeat mark read should be a no-op: %v", err)
	}

	// Undelivered and read notifications both drop out of the unread view.
	unread, err := module.Handler.ListNotificationsHandler(context.Background(), "tenant-1", "user-1", true)
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(unread.Notifications) != 0 {
		t.Fatalf("expected no unread notifications, got %+v", unread.Notifications)
	}
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	module := notificationservice.NewInMemoryModule(memory.NewSender(), nil)

	sent := enqueueNotification(t, module, entities.ChannelInApp)

	// Another member of the same tenant cannot touch the recipient's
	// notification, and learns nothing about its existence.
	if _, err := module.Handler.MarkReadHandler(context.Background(), "tenant-1", "user-other", sent.NotificationID); !errors.Is(err, domainerrors.ErrNotificationNotFound) {
		t.Fatalf("expected not found for non-recipient, got %v", err)
	}

	unread, err := module.Handler.ListNotificationsHandler(context.Background(), "tenant-1", "user-1", true)
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(unread.Notifications) != 1 {
		t.Fatalf("expected notification to stay unread, got %+v", unread.Notifications)
	}

	if _, err := module.Handler.MarkReadHandler(context.Background(), "tenant-1", "user-1", sent.NotificationID); err != nil {
		t.Fatalf("recipient mark read should succeed: %v", err)
	}
}

func TestBookingCompletedConsumerEnqueuesInApp(t *testing.T) {
	module := notificationservice.NewInMemoryModule(memory.NewSender(), nil)

	envelope := events.Envelope{
		EventID:        "evt-1",
		EventType:      "booking.completed",
		SourceService:  "booking-service",
		OccurredAtUTC:  time.Now().UTC(),
		TenantID:       "tenant-1",
		EntityType:     "booking",
		EntityID:       "booking-9",
		PayloadVersion: 1,
		Payload: map[string]any{
			"booking_id":       "booking-9",
			"user_id":          "user-1",
			"resource_id":      "resource-1",
			"amount_due_cents": 5000,
		},
	}
	if err := module.BookingCompleted.Handle(context.Background(), envelope); err != nil {
		t.Fatalf("consume should succeed: %v", err)
	}

	listed, err := module.Handler.ListNotificationsHandler(context.Background(), "tenant-1", "user-1", false)
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(listed.Notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(listed.Notifications))
	}
	notification := listed.Notifications[0]
	if notification.Channel != "in_app" || notification.Kind != "booking.completed" || notification.Status != "sent" {
		t.Fatalf("unexpected notification %+v", notification)
	}

	// Events without a user cannot be routed and are skipped.
	envelope.Payload = map[string]any{"booking_id": "booking-10"}
	if err := module.BookingCompleted.Handle(context.Background(), envelope); err != nil {
		t.Fatalf("userless event should be skipped without error: %v", err)
	}
	listed, err = module.Handler.ListNotificationsHandler(context.Background(), "tenant-1", "", false)
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(listed.Notifications) != 1 {
		t.Fatalf("expected skip to enqueue nothing, got %d", len(listed.Notifications))
	}
}
