package ports

import (
	"context"
	"time"

	"hivedesk/contexts/identity-access/tenant-service/domain/entities"
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

// TenantFilter narrows ListTenants results.
type TenantFilter struct {
	Status entities.TenantStatus
	Plan   string
}

// Repository is the write/read boundary for tenant and membership state.
type Repository interface {
	CreateTenant(ctx context.Context, tenant entities.Tenant) error
	GetTenant(ctx context.Context, tenantID string) (entities.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (entities.Tenant, error)
	ListTenants(ctx context.Context, filter TenantFilter) ([]entities.Tenant, error)
	UpdateTenant(ctx context.Context, tenant entities.Tenant) error

	AddMembership(ctx context.Context, membership entities.Membership) error
	GetMembership(ctx context.Context, tenantID, userID string) (entities.Membership, error)
	ListMemberships(ctx context.Context, tenantID string) ([]entities.Membership, error)
	UpdateMembership(ctx context.Context, membership entities.Membership) error
	RemoveMembership(ctx context.Context, membershipID string) error
	CountActiveOwners(ctx context.Context, tenantID string) (int, error)
}
