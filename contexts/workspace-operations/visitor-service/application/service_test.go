package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hivedesk/contexts/workspace-operations/visitor-service/domain/entities"
	domainerrors "hivedesk/contexts/workspace-operations/visitor-service/domain/errors"
	"hivedesk/contexts/workspace-operations/visitor-service/ports"
)

type testRepo struct {
	visits map[string]entities.Visit
}

func (r *testRepo) CreateVisit(_ context.Context, visit entities.Visit) error {
	r.visits[visit.VisitID] = visit
	return nil
}

func (r *testRepo) GetVisit(_ context.Context, tenantID, visitID string) (entities.Visit, error) {
	visit, ok := r.visits[visitID]
	if !ok || visit.TenantID != tenantID {
		return entities.Visit{}, domainerrors.ErrVisitNotFound
	}
	return visit, nil
}

func (r *testRepo) UpdateVisit(_ context.Context, visit entities.Visit) error {
	r.visits[visit.VisitID] = visit
	return nil
}

func (r *testRepo) ListVisits(_ context.Context, tenantID string, _ ports.VisitFilter) ([]entities.Visit, error) {
	items := make([]entities.Visit, 0)
	for _, visit := range r.visits {
		if visit.TenantID == tenantID {
			items = append(items, visit)
		}
	}
	return items, nil
}

func (r *testRepo) NextBadgeNumber(_ context.Context, _, _ string) (int, error) {
	return 1, nil
}

func (r *testRepo) MarkNoShows(_ context.Context, _, _ time.Time) (int, error) {
	return 0, nil
}

type testIdempotency struct {
	store map[string]ports.IdempotencyRecord
}

func (t *testIdempotency) GetRecord(_ context.Context, key string, _ time.Time) (ports.IdempotencyRecord, bool, error) {
	record, ok := t.store[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (t *testIdempotency) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	t.store[record.Key] = record
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type sequenceIDs struct {
	next int
}

func (g *sequenceIDs) NewID(_ context.Context) (string, error) {
	g.next++
	return fmt.Sprintf("visit-%d", g.next), nil
}

func newTestService() (Service, *testRepo) {
	repo := &testRepo{visits: make(map[string]entities.Visit)}
	service := Service{
		Repo:        repo,
		Idempotency: &testIdempotency{store: make(map[string]ports.IdempotencyRecord)},
		Clock:       fixedClock{now: time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)},
		IDGenerator: &sequenceIDs{},
	}
	return service, repo
}

func TestRegisterVisitStoresReplayableResult(t *testing.T) {
	service, repo := newTestService()
	input := RegisterVisitInput{
		IdempotencyKey: "front-desk-1",
		TenantID:       "tenant-1",
		VisitorName:    "Ada",
		Company:        "Analytical Engines Ltd",
		HostUserID:     "user-host",
		ExpectedAt:     time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
	}

	first, err := service.RegisterVisit(context.Background(), input)
	if err != nil {
		t.Fatalf("register should succeed: %v", err)
	}
	if first.Replayed || first.Visit.Company != "Analytical Engines Ltd" {
		t.Fatalf("expected fresh visit with company, got %+v", first)
	}

	replay, err := service.RegisterVisit(context.Background(), input)
	if err != nil {
		t.Fatalf("replay should succeed: %v", err)
	}
	if !replay.Replayed || replay.Visit.VisitID != first.Visit.VisitID {
		t.Fatalf("expected replay of %s, got %+v", first.Visit.VisitID, replay)
	}
	if len(repo.visits) != 1 {
		t.Fatalf("expected a single stored visit, got %d", len(repo.visits))
	}

	mutated := input
	mutated.ExpectedAt = mutated.ExpectedAt.Add(time.Hour)
	if _, err := service.RegisterVisit(context.Background(), mutated); !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected conflict on mutated request, got %v", err)
	}
}

func TestRegisterVisitRequiresIdempotencyKey(t *testing.T) {
	service, _ := newTestService()
	_, err := service.RegisterVisit(context.Background(), RegisterVisitInput{
		TenantID:    "tenant-1",
		VisitorName: "Ada",
		HostUserID:  "user-host",
		ExpectedAt:  time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected missing-key refusal, got %v", err)
	}
}
