package ports

import (
	"context"
	"time"

	"hivedesk/contexts/workspace-operations/booking-service/domain/entities"
	"hivedesk/internal/shared/events"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// IdempotencyRecord stores request hash and previous response payload.
type IdempotencyRecord struct {
	Key             string
	Operation       string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

// IdempotencyStore guarantees replay/conflict behavior for mutating endpoints.
type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

// BookingFilter narrows ListBookings results. Day range bounds are inclusive
// on From and exclusive on To.
type BookingFilter struct {
	ResourceID string
	UserID     string
	Status     entities.BookingStatus
	From       time.Time
	To         time.Time
}

// Repository is the write/read boundary for resources and bookings.
// CreateBooking performs the overlap check and insert atomically.
type Repository interface {
	CreateResource(ctx context.Context, resource entities.Resource) error
	GetResource(ctx context.Context, tenantID, resourceID string) (entities.Resource, error)
	UpdateResource(ctx context.Context, resource entities.Resource) error
	ListResources(ctx context.Context, tenantID string) ([]entities.Resource, error)

	CreateBooking(ctx context.Context, booking entities.Booking) error
	GetBooking(ctx context.Context, tenantID, bookingID string) (entities.Booking, error)
	UpdateBooking(ctx context.Context, booking entities.Booking) error
	ListBookings(ctx context.Context, tenantID string, filter BookingFilter) ([]entities.Booking, error)

	// CompleteElapsed transitions confirmed bookings past their end time to
	// completed and appends a booking.completed outbox row per transition,
	// all in one transaction.
	CompleteElapsed(ctx context.Context, now time.Time) ([]entities.Booking, error)
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher emits booking lifecycle events to the bus adapter.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}
