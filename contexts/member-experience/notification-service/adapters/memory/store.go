package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"hivedesk/contexts/member-experience/notification-service/domain/entities"
	domainerrors "hivedesk/contexts/member-experience/notification-service/domain/errors"
	"hivedesk/contexts/member-experience/notification-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the notification repository.
type Store struct {
	mu sync.RWMutex

	notifications map[string]entities.Notification
}

func NewStore() *Store {
	return &Store{
		notifications: make(map[string]entities.Notification),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) CreateNotification(_ context.Context, notification entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications[notification.NotificationID] = notification
	return nil
}

func (s *Store) GetNotification(_ context.Context, tenantID, notificationID string) (entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notification, ok := s.notifications[notificationID]
	if !ok || notification.TenantID != tenantID {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	return notification, nil
}

func (s *Store) UpdateNotification(_ context.Context, notification entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.notifications[notification.NotificationID]
	if !ok || existing.TenantID != notification.TenantID {
		return domainerrors.ErrNotificationNotFound
	}
	s.notifications[notification.NotificationID] = notification
	return nil
}

func (s *Store) ListNotifications(_ context.Context, tenantID string, filter ports.NotificationFilter) ([]entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Notification, 0)
	for _, notification := range s.notifications {
		if notification.TenantID != tenantID {
			continue
		}
		if filter.UserID != "" && notification.UserID != filter.UserID {
			continue
		}
		if filter.UnreadOnly && notification.Status != entities.NotificationStatusSent {
			continue
		}
		items = append(items, notification)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListPending(_ context.Context, limit int) ([]entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Notification, 0)
	for _, notification := range s.notifications {
		if notification.Status != entities.NotificationStatusPending {
			continue
		}
		items = append(items, notification)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
