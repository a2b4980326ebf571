package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"hivedesk/contexts/identity-access/invitation-service/domain/entities"
	domainerrors "hivedesk/contexts/identity-access/invitation-service/domain/errors"
	"hivedesk/contexts/identity-access/invitation-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing repository/dedup ports.
type Store struct {
	mu sync.RWMutex

	invitations map[string]entities.Invitation
	lastSeen    map[string]time.Time
	dedup       map[string]dedupEntry
}

type dedupEntry struct {
	PayloadHash string
	ExpiresAt   time.Time
}

func NewStore() *Store {
	return &Store{
		invitations: make(map[string]entities.Invitation),
		lastSeen:    make(map[string]time.Time),
		dedup:       make(map[string]dedupEntry),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) CreateInvitation(_ context.Context, invitation entities.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.invitations {
		if existing.TenantID == invitation.TenantID &&
			existing.Email == invitation.Email &&
			existing.Status == entities.InvitationStatusPending {
			return domainerrors.ErrPendingInvitationExists
		}
	}
	s.invitations[invitation.InvitationID] = invitation
	return nil
}

func (s *Store) GetInvitation(_ context.Context, invitationID string) (entities.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invitation, ok := s.invitations[invitationID]
	if !ok {
		return entities.Invitation{}, domainerrors.ErrInvitationNotFound
	}
	return invitation, nil
}

func (s *Store) FindPendingByEmail(_ context.Context, email string, now time.Time) ([]entities.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Invitation, 0)
	for _, invitation := range s.invitations {
		if invitation.Email == email &&
			invitation.Status == entities.InvitationStatusPending &&
			invitation.ExpiresAt.After(now) {
			items = append(items, invitation)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) FindPendingByTenantEmail(_ context.Context, tenantID, email string) (entities.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, invitation := range s.invitations {
		if invitation.TenantID == tenantID &&
			invitation.Email == email &&
			invitation.Status == entities.InvitationStatusPending {
			return invitation, nil
		}
	}
	return entities.Invitation{}, domainerrors.ErrInvitationNotFound
}

func (s *Store) ListInvitations(_ context.Context, tenantID string, filter ports.InvitationFilter) ([]entities.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Invitation, 0)
	for _, invitation := range s.invitations {
		if invitation.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && invitation.Status != filter.Status {
			continue
		}
		items = append(items, invitation)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateInvitation(_ context.Context, invitation entities.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invitations[invitation.InvitationID]; !ok {
		return domainerrors.ErrInvitationNotFound
	}
	s.invitations[invitation.InvitationID] = invitation
	return nil
}

func (s *Store) ExpirePending(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, invitation := range s.invitations {
		if invitation.Status == entities.InvitationStatusPending && !invitation.ExpiresAt.After(now) {
			invitation.Status = entities.InvitationStatusExpired
			s.invitations[id] = invitation
			count++
		}
	}
	return count, nil
}

func (s *Store) RecordSessionSeen(_ context.Context, providerUserID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.lastSeen[providerUserID]; !ok || at.After(existing) {
		s.lastSeen[providerUserID] = at
	}
	return nil
}

// LastSeen is a test helper exposing recorded session activity.
func (s *Store) LastSeen(providerUserID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	at, ok := s.lastSeen[providerUserID]
	return at, ok
}

func (s *Store) ReserveEvent(_ context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.dedup[eventID]; ok {
		if existing.PayloadHash != payloadHash {
			return false, domainerrors.ErrIdempotencyKeyConflict
		}
		return true, nil
	}
	s.dedup[eventID] = dedupEntry{PayloadHash: payloadHash, ExpiresAt: expiresAt}
	return false, nil
}

func (s *Store) ReleaseEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.dedup, eventID)
	return nil
}
