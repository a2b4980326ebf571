package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"hivedesk/contexts/member-experience/notification-service/domain/entities"
	domainerrors "hivedesk/contexts/member-experience/notification-service/domain/errors"
	"hivedesk/contexts/member-experience/notification-service/ports"
)

// Service enqueues and surfaces notifications. Other modules enqueue through
// this service rather than writing rows directly.
type Service struct {
	Repo        ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

type EnqueueInput struct {
	TenantID string
	UserID   string
	Channel  entities.Channel
	Kind     string
	Subject  string
	Body     string
}

// Enqueue stores a notification. In-app notifications are available to the
// member immediately and are marked sent without touching the sender.
func (s Service) Enqueue(ctx context.Context, input EnqueueInput) (entities.Notification, error) {
	logger := ResolveLogger(s.Logger)

	if strings.TrimSpace(input.TenantID) == "" ||
		strings.TrimSpace(input.UserID) == "" ||
		strings.TrimSpace(input.Subject) == "" {
		return entities.Notification{}, domainerrors.ErrInvalidNotificationInput
	}
	if !entities.ValidChannel(input.Channel) {
		return entities.Notification{}, domainerrors.ErrInvalidNotificationInput
	}

	notificationID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Notification{}, err
	}

	now := s.now()
	notification := entities.Notification{
		NotificationID: notificationID,
		TenantID:       strings.TrimSpace(input.TenantID),
		UserID:         strings.TrimSpace(input.UserID),
		Channel:        input.Channel,
		Kind:           strings.TrimSpace(input.Kind),
		Subject:        strings.TrimSpace(input.Subject),
		Body:           input.Body,
		Status:         entities.NotificationStatusPending,
		CreatedAt:      now,
	}
	if notification.Channel == entities.ChannelInApp {
		notification.Status = entities.NotificationStatusSent
		notification.SentAt = &now
	}
	if err := s.Repo.CreateNotification(ctx, notification); err != nil {
		return entities.Notification{}, err
	}

	logger.Info("notification enqueued",
		"event", "notification_enqueued",
		"module", "member-experience/notification-service",
		"layer", "application",
		"tenant_id", notification.TenantID,
		"notification_id", notification.NotificationID,
		"channel", string(notification.Channel),
	)
	return notification, nil
}

func (s Service) ListNotifications(ctx context.Context, tenantID string, filter ports.NotificationFilter) ([]entities.Notification, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domainerrors.ErrInvalidNotificationInput
	}
	return s.Repo.ListNotifications(ctx, tenantID, filter)
}

// MarkRead flips a sent notification to read. Marking twice is a no-op.
// Only the recipient may mark their notification; anyone else gets not-found
// so the notification's existence is not leaked.
func (s Service) MarkRead(ctx context.Context, tenantID, userID, notificationID string) (entities.Notification, error) {
	notification, err := s.Repo.GetNotification(ctx, tenantID, notificationID)
	if err != nil {
		return entities.Notification{}, err
	}
	if notification.UserID != strings.TrimSpace(userID) {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	if notification.Status == entities.NotificationStatusRead {
		return notification, nil
	}
	if notification.Status != entities.NotificationStatusSent {
		return entities.Notification{}, domainerrors.ErrNotificationNotReadable
	}

	now := s.now()
	notification.Status = entities.NotificationStatusRead
	notification.ReadAt = &now
	if err := s.Repo.UpdateNotification(ctx, notification); err != nil {
		return entities.Notification{}, err
	}
	return notification, nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
