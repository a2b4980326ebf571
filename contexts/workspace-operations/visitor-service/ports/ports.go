package ports

import (
	"context"
	"time"

	"hivedesk/contexts/workspace-operations/visitor-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// VisitFilter narrows ListVisits results. Day filters by UTC calendar day of
// the expected arrival.
type VisitFilter struct {
	Status     entities.VisitStatus
	HostUserID string
	Day        string
}

// IdempotencyRecord stores request hash and previous response payload.
type IdempotencyRecord struct {
	Key             string
	Operation       string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

// IdempotencyStore guarantees replay/conflict behavior for visit registration.
type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

// HostNotifier tells the host member their visitor has arrived. Delivery is
// best effort; check-in never fails on a notification error.
type HostNotifier interface {
	NotifyHostCheckedIn(ctx context.Context, tenantID, hostUserID, visitorName string) error
}

// Repository is the persistence boundary for visits and badge sequencing.
// NextBadgeNumber increments the per-tenant per-day counter atomically.
type Repository interface {
	CreateVisit(ctx context.Context, visit entities.Visit) error
	GetVisit(ctx context.Context, tenantID, visitID string) (entities.Visit, error)
	UpdateVisit(ctx context.Context, visit entities.Visit) error
	ListVisits(ctx context.Context, tenantID string, filter VisitFilter) ([]entities.Visit, error)
	NextBadgeNumber(ctx context.Context, tenantID, day string) (int, error)

	// MarkNoShows flips expected visits whose expected arrival is older than
	// the cutoff to no_show and returns how many rows changed.
	MarkNoShows(ctx context.Context, cutoff, now time.Time) (int, error)
}
