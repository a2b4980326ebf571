package postgresadapter

import (
	"strings"
	"time"

	"hivedesk/contexts/workspace-operations/booking-service/domain/entities"
)

type resourceModel struct {
	ResourceID      string `gorm:"primaryKey;column:resource_id"`
	TenantID        string `gorm:"index"`
	Name            string
	Kind            string
	Capacity        int
	HourlyRateCents int64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (resourceModel) TableName() string {
	return "resources"
}

func resourceModelFromEntity(item entities.Resource) resourceModel {
	return resourceModel{
		ResourceID:      strings.TrimSpace(item.ResourceID),
		TenantID:        strings.TrimSpace(item.TenantID),
		Name:            strings.TrimSpace(item.Name),
		Kind:            string(item.Kind),
		Capacity:        item.Capacity,
		HourlyRateCents: item.HourlyRateCents,
		Active:          item.Active,
		CreatedAt:       item.CreatedAt.UTC(),
		UpdatedAt:       item.UpdatedAt.UTC(),
	}
}

func (m resourceModel) toEntity() entities.Resource {
	return entities.Resource{
		ResourceID:      m.ResourceID,
		TenantID:        m.TenantID,
		Name:            m.Name,
		Kind:            entities.ResourceKind(m.Kind),
		Capacity:        m.Capacity,
		HourlyRateCents: m.HourlyRateCents,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type bookingModel struct {
	BookingID      string    `gorm:"primaryKey;column:booking_id"`
	TenantID       string    `gorm:"index"`
	ResourceID     string    `gorm:"index:idx_bookings_resource_window"`
	UserID         string    `gorm:"index"`
	StartsAt       time.Time `gorm:"index:idx_bookings_resource_window"`
	EndsAt         time.Time
	Status         string
	Notes          string
	AmountDueCents int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CancelledAt    *time.Time
}

func (bookingModel) TableName() string {
	return "bookings"
}

func bookingModelFromEntity(item entities.Booking) bookingModel {
	return bookingModel{
		BookingID:      strings.TrimSpace(item.BookingID),
		TenantID:       strings.TrimSpace(item.TenantID),
		ResourceID:     strings.TrimSpace(item.ResourceID),
		UserID:         strings.TrimSpace(item.UserID),
		StartsAt:       item.StartsAt.UTC(),
		EndsAt:         item.EndsAt.UTC(),
		Status:         string(item.Status),
		Notes:          item.Notes,
		AmountDueCents: item.AmountDueCents,
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
		CancelledAt:    normalizeOptionalTime(item.CancelledAt),
	}
}

func (m bookingModel) toEntity() entities.Booking {
	return entities.Booking{
		BookingID:      m.BookingID,
		TenantID:       m.TenantID,
		ResourceID:     m.ResourceID,
		UserID:         m.UserID,
		StartsAt:       m.StartsAt.UTC(),
		EndsAt:         m.EndsAt.UTC(),
		Status:         entities.BookingStatus(m.Status),
		Notes:          m.Notes,
		AmountDueCents: m.AmountDueCents,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
		CancelledAt:    normalizeOptionalTime(m.CancelledAt),
	}
}

type outboxModel struct {
	OutboxID    string `gorm:"primaryKey;column:outbox_id"`
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time `gorm:"index"`
}

func (outboxModel) TableName() string {
	return "booking_outbox"
}

type idempotencyModel struct {
	Key             string `gorm:"primaryKey"`
	Operation       string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

func (idempotencyModel) TableName() string {
	return "booking_idempotency_records"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil || value.IsZero() {
		return nil
	}
	utc := value.UTC()
	return &utc
}
