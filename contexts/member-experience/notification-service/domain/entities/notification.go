package entities

import "time"

type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
)

// ValidChannel reports whether channel names a supported delivery channel.
func ValidChannel(channel Channel) bool {
	return channel == ChannelInApp || channel == ChannelEmail
}

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
	NotificationStatusRead    NotificationStatus = "read"
)

// MaxDeliveryAttempts bounds dispatcher retries before a notification is
// marked failed.
const MaxDeliveryAttempts = 3

// Notification is a single message addressed to a tenant member. In-app
// notifications are sent immediately; email goes through the dispatcher.
type Notification struct {
	NotificationID string             `json:"notification_id"`
	TenantID       string             `json:"tenant_id"`
	UserID         string             `json:"user_id"`
	Channel        Channel            `json:"channel"`
	Kind           string             `json:"kind"`
	Subject        string             `json:"subject"`
	Body           string             `json:"body"`
	Status         NotificationStatus `json:"status"`
	Attempts       int                `json:"attempts"`
	CreatedAt      time.Time          `json:"created_at"`
	SentAt         *time.Time         `json:"sent_at,omitempty"`
	ReadAt         *time.Time         `json:"read_at,omitempty"`
}
