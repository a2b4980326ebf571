package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"hivedesk/contexts/workspace-operations/booking-service/domain/entities"
	domainerrors "hivedesk/contexts/workspace-operations/booking-service/domain/errors"
	"hivedesk/contexts/workspace-operations/booking-service/ports"
	"hivedesk/internal/shared/events"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing repository, idempotency, and
// outbox ports for tests and local runs.
type Store struct {
	mu sync.RWMutex

	resources   map[string]entities.Resource
	bookings    map[string]entities.Booking
	idempotency map[string]ports.IdempotencyRecord
	outbox      []outboxRow
}

type outboxRow struct {
	message     ports.OutboxMessage
	publishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		resources:   make(map[string]entities.Resource),
		bookings:    make(map[string]entities.Booking),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) CreateResource(_ context.Context, resource entities.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resources[resource.ResourceID] = resource
	return nil
}

func (s *Store) GetResource(_ context.Context, tenantID, resourceID string) (entities.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resource, ok := s.resources[resourceID]
	if !ok || resource.TenantID != tenantID {
		return entities.Resource{}, domainerrors.ErrResourceNotFound
	}
	return resource, nil
}

func (s *Store) UpdateResource(_ context.Context, resource entities.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.resources[resource.ResourceID]
	if !ok || existing.TenantID != resource.TenantID {
		return domainerrors.ErrResourceNotFound
	}
	s.resources[resource.ResourceID] = resource
	return nil
}

func (s *Store) ListResources(_ context.Context, tenantID string) ([]entities.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Resource, 0)
	for _, resource := range s.resources {
		if resource.TenantID == tenantID {
			items = append(items, resource)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) CreateBooking(_ context.Context, booking entities.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookings {
		if existing.TenantID != booking.TenantID ||
			existing.ResourceID != booking.ResourceID ||
			existing.Status != entities.BookingStatusConfirmed {
			continue
		}
		if existing.Overlaps(booking.StartsAt, booking.EndsAt) {
			return domainerrors.ErrBookingConflict
		}
	}
	s.bookings[booking.BookingID] = booking
	return nil
}

func (s *Store) GetBooking(_ context.Context, tenantID, bookingID string) (entities.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[bookingID]
	if !ok || booking.TenantID != tenantID {
		return entities.Booking{}, domainerrors.ErrBookingNotFound
	}
	return booking, nil
}

func (s *Store) UpdateBooking(_ context.Context, booking entities.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.bookings[booking.BookingID]
	if !ok || existing.TenantID != booking.TenantID {
		return domainerrors.ErrBookingNotFound
	}
	s.bookings[booking.BookingID] = booking
	return nil
}

func (s *Store) ListBookings(_ context.Context, tenantID string, filter ports.BookingFilter) ([]entities.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Booking, 0)
	for _, booking := range s.bookings {
		if booking.TenantID != tenantID {
			continue
		}
		if filter.ResourceID != "" && booking.ResourceID != filter.ResourceID {
			continue
		}
		if filter.UserID != "" && booking.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && booking.Status != filter.Status {
			continue
		}
		if !filter.From.IsZero() && booking.StartsAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !booking.StartsAt.Before(filter.To) {
			continue
		}
		items = append(items, booking)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].StartsAt.Before(items[j].StartsAt)
	})
	return items, nil
}

func (s *Store) CompleteElapsed(_ context.Context, now time.Time) ([]entities.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed := make([]entities.Booking, 0)
	for id, booking := range s.bookings {
		if booking.Status != entities.BookingStatusConfirmed || booking.EndsAt.After(now) {
			continue
		}
		booking.Status = entities.BookingStatusCompleted
		booking.UpdatedAt = now
		s.bookings[id] = booking

		payload, err := json.Marshal(events.Envelope{
			EventID:        uuid.NewString(),
			EventType:      "booking.completed",
			SourceService:  "booking-service",
			OccurredAtUTC:  now,
			TenantID:       booking.TenantID,
			EntityType:     "booking",
			EntityID:       booking.BookingID,
			PayloadVersion: 1,
			Payload:        booking,
		})
		if err != nil {
			return completed, err
		}
		s.outbox = append(s.outbox, outboxRow{message: ports.OutboxMessage{
			OutboxID:  uuid.NewString(),
			EventType: "booking.completed",
			Payload:   payload,
			CreatedAt: now,
		}})
		completed = append(completed, booking)
	}
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].EndsAt.Before(completed[j].EndsAt)
	})
	return completed, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.publishedAt != nil {
			continue
		}
		items = append(items, row.message)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			at := publishedAt
			s.outbox[i].publishedAt = &at
			return nil
		}
	}
	return nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.idempotency[key]
	if !ok || record.ExpiresAt.Before(now) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.idempotency[record.Key] = record
	return nil
}
