package postgresadapter

import (
	"strings"
	"time"

	"hivedesk/contexts/member-experience/notification-service/domain/entities"
)

type notificationModel struct {
	NotificationID string `gorm:"primaryKey;column:notification_id"`
	TenantID       string `gorm:"index"`
	UserID         string `gorm:"index"`
	Channel        string
	Kind           string
	Subject        string
	Body           string
	Status         string `gorm:"index"`
	Attempts       int
	CreatedAt      time.Time
	SentAt         *time.Time
	ReadAt         *time.Time
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromEntity(item entities.Notification) notificationModel {
	return notificationModel{
		NotificationID: strings.TrimSpace(item.NotificationID),
		TenantID:       strings.TrimSpace(item.TenantID),
		UserID:         strings.TrimSpace(item.UserID),
		Channel:        string(item.Channel),
		Kind:           strings.TrimSpace(item.Kind),
		Subject:        item.Subject,
		Body:           item.Body,
		Status:         string(item.Status),
		Attempts:       item.Attempts,
		CreatedAt:      item.CreatedAt.UTC(),
		SentAt:         normalizeOptionalTime(item.SentAt),
		ReadAt:         normalizeOptionalTime(item.ReadAt),
	}
}

func (m notificationModel) toEntity() entities.Notification {
	return entities.Notification{
		NotificationID: m.NotificationID,
		TenantID:       m.TenantID,
		UserID:         m.UserID,
		Channel:        entities.Channel(m.Channel),
		Kind:           m.Kind,
		Subject:        m.Subject,
		Body:           m.Body,
		Status:         entities.NotificationStatus(m.Status),
		Attempts:       m.Attempts,
		CreatedAt:      m.CreatedAt.UTC(),
		SentAt:         normalizeOptionalTime(m.SentAt),
		ReadAt:         normalizeOptionalTime(m.ReadAt),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil || value.IsZero() {
		return nil
	}
	utc := value.UTC()
	return &utc
}
