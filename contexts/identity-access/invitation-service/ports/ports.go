package ports

import (
	"context"
	"time"

	"hivedesk/contexts/identity-access/invitation-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// InvitationFilter narrows ListInvitations results.
type InvitationFilter struct {
	Status entities.InvitationStatus
}

// Repository is the write/read boundary for the invitation mirror.
type Repository interface {
	CreateInvitation(ctx context.Context, invitation entities.Invitation) error
	GetInvitation(ctx context.Context, invitationID string) (entities.Invitation, error)
	FindPendingByEmail(ctx context.Context, email string, now time.Time) ([]entities.Invitation, error)
	FindPendingByTenantEmail(ctx context.Context, tenantID, email string) (entities.Invitation, error)
	ListInvitations(ctx context.Context, tenantID string, filter InvitationFilter) ([]entities.Invitation, error)
	UpdateInvitation(ctx context.Context, invitation entities.Invitation) error
	ExpirePending(ctx context.Context, now time.Time) (int, error)
	RecordSessionSeen(ctx context.Context, providerUserID string, at time.Time) error
}

// ProviderGateway issues and revokes invitations at the identity provider.
type ProviderGateway interface {
	CreateInvitation(ctx context.Context, email, tenantID, role string) (providerInvitationID string, err error)
	RevokeInvitation(ctx context.Context, providerInvitationID string) error
}

// MembershipCreator attaches an accepted invitee to the tenant. Implemented by
// the tenant-service module through an adapter in the composition root.
type MembershipCreator interface {
	CreateMembership(ctx context.Context, tenantID, userID, email, role string) error
}

// EventDedupStore enforces idempotent processing for consumed webhook events.
// A reservation taken for an event whose handler then fails must be released,
// otherwise the provider's redelivery would be swallowed as already processed.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (alreadyProcessed bool, err error)
	ReleaseEvent(ctx context.Context, eventID string) error
}

// UserCreatedEvent is the normalized user.created webhook payload.
type UserCreatedEvent struct {
	EventID        string
	ProviderUserID string
	Email          string
	OccurredAt     time.Time
}

// SessionCreatedEvent is the normalized session.created webhook payload.
type SessionCreatedEvent struct {
	EventID        string
	ProviderUserID string
	SessionID      string
	OccurredAt     time.Time
}
