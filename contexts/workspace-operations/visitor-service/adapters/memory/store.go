package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"hivedesk/contexts/workspace-operations/visitor-service/domain/entities"
	domainerrors "hivedesk/contexts/workspace-operations/visitor-service/domain/errors"
	"hivedesk/contexts/workspace-operations/visitor-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the visit repository port.
type Store struct {
	mu sync.RWMutex

	visits      map[string]entities.Visit
	badges      map[string]int
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		visits:      make(map[string]entities.Visit),
		badges:      make(map[string]int),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) CreateVisit(_ context.Context, visit entities.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visits[visit.VisitID] = visit
	return nil
}

func (s *Store) GetVisit(_ context.Context, tenantID, visitID string) (entities.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visit, ok := s.visits[visitID]
	if !ok || visit.TenantID != tenantID {
		return entities.Visit{}, domainerrors.ErrVisitNotFound
	}
	return visit, nil
}

func (s *Store) UpdateVisit(_ context.Context, visit entities.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.visits[visit.VisitID]
	if !ok || existing.TenantID != visit.TenantID {
		return domainerrors.ErrVisitNotFound
	}
	s.visits[visit.VisitID] = visit
	return nil
}

func (s *Store) ListVisits(_ context.Context, tenantID string, filter ports.VisitFilter) ([]entities.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Visit, 0)
	for _, visit := range s.visits {
		if visit.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && visit.Status != filter.Status {
			continue
		}
		if filter.HostUserID != "" && visit.HostUserID != filter.HostUserID {
			continue
		}
		if filter.Day != "" && entities.BadgeDay(visit.ExpectedAt) != filter.Day {
			continue
		}
		items = append(items, visit)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ExpectedAt.Before(items[j].ExpectedAt)
	})
	return items, nil
}

func (s *Store) NextBadgeNumber(_ context.Context, tenantID, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tenantID + ":" + day
	s.badges[key]++
	return s.badges[key], nil
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

func (s *Store) MarkNoShows(_ context.Context, cutoff, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, visit := range s.visits {
		if visit.Status == entities.VisitStatusExpected && visit.ExpectedAt.Before(cutoff) {
			visit.Status = entities.VisitStatusNoShow
			visit.UpdatedAt = now
			s.visits[id] = visit
			count++
		}
	}
	return count, nil
}
