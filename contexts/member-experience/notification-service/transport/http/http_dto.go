package httptransport

import "time"

type NotificationDTO struct {
	NotificationID string     `json:"notification_id"`
	TenantID       string     `json:"tenant_id"`
	UserID         string     `json:"user_id"`
	Channel        string     `json:"channel"`
	Kind           string     `json:"kind"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	Status         string     `json:"status"`
	Attempts       int        `json:"attempts"`
	CreatedAt      time.Time  `json:"created_at"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
}

type ListNotificationsResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
