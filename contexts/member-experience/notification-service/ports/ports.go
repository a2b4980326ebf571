package ports

import (
	"context"
	"time"

	"hivedesk/contexts/member-experience/notification-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// NotificationFilter narrows ListNotifications results.
type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
}

// Repository is the persistence boundary for notifications.
type Repository interface {
	CreateNotification(ctx context.Context, notification entities.Notification) error
	GetNotification(ctx context.Context, tenantID, notificationID string) (entities.Notification, error)
	UpdateNotification(ctx context.Context, notification entities.Notification) error
	ListNotifications(ctx context.Context, tenantID string, filter NotificationFilter) ([]entities.Notification, error)
	ListPending(ctx context.Context, limit int) ([]entities.Notification, error)
}

// Sender delivers a notification over its external channel. In-app
// notifications never reach the sender.
type Sender interface {
	Send(ctx context.Context, notification entities.Notification) error
}
