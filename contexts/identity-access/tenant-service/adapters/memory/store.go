package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"hivedesk/contexts/identity-access/tenant-service/domain/entities"
	domainerrors "hivedesk/contexts/identity-access/tenant-service/domain/errors"
	"hivedesk/contexts/identity-access/tenant-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing repository/idempotency ports.
// It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	tenants     map[string]entities.Tenant
	memberships map[string]entities.Membership
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		tenants:     make(map[string]entities.Tenant),
		memberships: make(map[string]entities.Membership),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) CreateTenant(_ context.Context, tenant entities.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tenants {
		if existing.Slug == tenant.Slug {
			return domainerrors.ErrSlugTaken
		}
	}
	s.tenants[tenant.TenantID] = tenant
	return nil
}

func (s *Store) GetTenant(_ context.Context, tenantID string) (entities.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant, ok := s.tenants[tenantID]
	if !ok {
		return entities.Tenant{}, domainerrors.ErrTenantNotFound
	}
	return tenant, nil
}

func (s *Store) GetTenantBySlug(_ context.Context, slug string) (entities.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tenant := range s.tenants {
		if tenant.Slug == slug {
			return tenant, nil
		}
	}
	return entities.Tenant{}, domainerrors.ErrTenantNotFound
}

func (s *Store) ListTenants(_ context.Context, filter ports.TenantFilter) ([]entities.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Tenant, 0, len(s.tenants))
	for _, tenant := range s.tenants {
		if filter.Status != "" && tenant.Status != filter.Status {
			continue
		}
		if filter.Plan != "" && tenant.Plan != filter.Plan {
			continue
		}
		items = append(items, tenant)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateTenant(_ context.Context, tenant entities.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tenants[tenant.TenantID]; !ok {
		return domainerrors.ErrTenantNotFound
	}
	s.tenants[tenant.TenantID] = tenant
	return nil
}

func (s *Store) AddMembership(_ context.Context, membership entities.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.memberships {
		if existing.TenantID == membership.TenantID && existing.UserID == membership.UserID {
			return domainerrors.ErrMembershipExists
		}
	}
	s.memberships[membership.MembershipID] = membership
	return nil
}

func (s *Store) GetMembership(_ context.Context, tenantID, userID string) (entities.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, membership := range s.memberships {
		if membership.TenantID == tenantID && membership.UserID == userID {
			return membership, nil
		}
	}
	return entities.Membership{}, domainerrors.ErrMembershipNotFound
}

func (s *Store) ListMemberships(_ context.Context, tenantID string) ([]entities.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Membership, 0)
	for _, membership := range s.memberships {
		if membership.TenantID == tenantID {
			items = append(items, membership)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].JoinedAt.Before(items[j].JoinedAt)
	})
	return items, nil
}

func (s *Store) UpdateMembership(_ context.Context, membership entities.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.memberships[membership.MembershipID]; !ok {
		return domainerrors.ErrMembershipNotFound
	}
	s.memberships[membership.MembershipID] = membership
	return nil
}

func (s *Store) RemoveMembership(_ context.Context, membershipID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.memberships[membershipID]; !ok {
		return domainerrors.ErrMembershipNotFound
	}
	delete(s.memberships, membershipID)
	return nil
}

func (s *Store) CountActiveOwners(_ context.Context, tenantID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, membership := range s.memberships {
		if membership.TenantID == tenantID &&
			membership.Role == entities.RoleOwner &&
			membership.Status == entities.MembershipStatusActive {
			count++
		}
	}
	return count, nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.IsZero() && now.After(record.ExpiresAt) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.idempotency[record.Key]; ok && existing.RequestHash != record.RequestHash {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	s.idempotency[record.Key] = record
	return nil
}
