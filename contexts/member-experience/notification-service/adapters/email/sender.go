package emailadapter

import (
	"context"
	"log/slog"

	"hivedesk/contexts/member-experience/notification-service/domain/entities"
)

// Sender is a stand-in email delivery adapter that logs outgoing messages.
// Wire a real provider here when one is configured.
type Sender struct {
	Logger *slog.Logger
}

func (s Sender) Send(_ context.Context, notification entities.Notification) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("email notification delivered",
		"event", "notification_email_sent",
		"module", "member-experience/notification-service",
		"layer", "adapter",
		"tenant_id", notification.TenantID,
		"user_id", notification.UserID,
		"subject", notification.Subject,
	)
	return nil
}
