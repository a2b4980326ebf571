package memory

import (
	"context"
	"errors"
	"sync"

	"hivedesk/contexts/member-experience/notification-service/domain/entities"
)

// Sender records deliveries for tests. FailFirst makes the first N sends per
// notification fail to exercise retry handling.
type Sender struct {
	mu sync.Mutex

	FailFirst int
	Err       error

	attempts map[string]int
	sent     []entities.Notification
}

func NewSender() *Sender {
	return &Sender{attempts: make(map[string]int)}
}

func (s *Sender) Send(_ context.Context, notification entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[notification.NotificationID]++
	if s.attempts[notification.NotificationID] <= s.FailFirst {
		if s.Err != nil {
			return s.Err
		}
		return errors.New("delivery refused")
	}
	s.sent = append(s.sent, notification)
	return nil
}

// Sent returns a copy of the delivered notifications.
func (s *Sender) Sent() []entities.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]entities.Notification(nil), s.sent...)
}
