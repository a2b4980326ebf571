package unit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	visitorservice "hivedesk/contexts/workspace-operations/visitor-service"
	"hivedesk/contexts/workspace-operations/visitor-service/adapters/memory"
	"hivedesk/contexts/workspace-operations/visitor-service/application/workers"
	domainerrors "hivedesk/contexts/workspace-operations/visitor-service/domain/errors"
	httptransport "hivedesk/contexts/workspace-operations/visitor-service/transport/http"
)

type hostNotifierRecorder struct {
	mu       sync.Mutex
	notified []string
	err      error
}

func (n *hostNotifierRecorder) NotifyHostCheckedIn(_ context.Context, tenantID, hostUserID, visitorName string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.notified = append(n.notified, tenantID+"/"+hostUserID+"/"+visitorName)
	return nil
}

func registerVisit(t *testing.T, module visitorservice.Module, name string, expectedAt time.Time) httptransport.VisitDTO {
	t.Helper()
	resp, err := module.Handler.RegisterVisitHandler(context.Background(), "register-"+name, "tenant-1", httptransport.RegisterVisitRequest{
		VisitorName: name,
		HostUserID:  "user-host",
		ExpectedAt:  expectedAt,
	})
	if err != nil {
		t.Fatalf("register visit should succeed: %v", err)
	}
	return resp.Visit
}

func TestRegisterVisitIdempotencyReplay(t *testing.T) {
	module := visitorservice.NewInMemoryModule(nil)
	expectedAt := time.Now().UTC().Add(time.Hour)
	request := httptransport.RegisterVisitRequest{
		VisitorName: "Ada",
		Company:     "Analytical Engines Ltd",
		HostUserID:  "user-host",
		ExpectedAt:  expectedAt,
	}

	first, err := module.Handler.RegisterVisitHandler(context.Background(), "front-desk-1", "tenant-1", request)
	if err != nil {
		t.Fatalf("register visit should succeed: %v", err)
	}
	if first.Replayed {
		t.Fatalf("first registration should not be a replay")
	}
	if first.Visit.Company != "Analytical Engines Ltd" {
		t.Fatalf("expected company on visit, got %q", first.Visit.Company)
	}

	replay, err := module.Handler.RegisterVisitHandler(context.Background(), "front-desk-1", "tenant-1", request)
	if err != nil {
		t.Fatalf("replay should succeed: %v", err)
	}
	if !replay.Replayed || replay.Visit.VisitID != first.Visit.VisitID {
		t.Fatalf("expected replayed visit %s, got %+v", first.Visit.VisitID, replay)
	}

	visits, err := module.Handler.ListVisitsHandler(context.Background(), "tenant-1", "", "", "")
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(visits.Visits) != 1 {
		t.Fatalf("expected a single visit after replay, got %d", len(visits.Visits))
	}

	mutated := request
	mutated.VisitorName = "Grace"
	if _, err := module.Handler.RegisterVisitHandler(context.Background(), "front-desk-1", "tenant-1", mutated); !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}

	if _, err := module.Handler.RegisterVisitHandler(context.Background(), "", "tenant-1", request); !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected missing-key refusal, got %v", err)
	}
}

func TestCheckInAssignsSequentialBadges(t *testing.T) {
	module := visitorservice.NewInMemoryModule(nil)
	expectedAt := time.Now().UTC().Add(time.Hour)

	first := registerVisit(t, module, "Ada", expectedAt)
	second := registerVisit(t, module, "Grace", expectedAt)

	checkedIn, err := module.Handler.CheckInHandler(context.Background(), "tenant-1", first.VisitID)
	if err != nil {
		t.Fatalf("check-in should succeed: %v", err)
	}
	if checkedIn.BadgeNumber != 1 {
		t.Fatalf("expected badge 1, got %d", checkedIn.BadgeNumber)
	}
	if checkedIn.Status != "checked_in" || checkedIn.CheckedInAt == nil {
		t.Fatalf("expected checked_in visit, got %+v", checkedIn)
	}

	other, err := module.Handler.CheckInHandler(context.Background(), "tenant-1", second.VisitID)
	if err != nil {
		t.Fatalf("second check-in should succeed: %v", err)
	}
	if other.BadgeNumber != 2 {
		t.Fatalf("expected badge 2, got %d", other.BadgeNumber)
	}

	// Repeating check-in keeps the original badge.
	again, err := module.Handler.CheckInHandler(context.Background(), "tenant-1", first.VisitID)
	if err != nil {
		t.Fatalf("repeat check-in should be a no-op: %v", err)
	}
	if again.BadgeNumber != 1 {
		t.Fatalf("expected badge 1 on replay, got %d", again.BadgeNumber)
	}
}

func TestCheckInNotifiesHost(t *testing.T) {
	store := memory.NewStore()
	notifier := &hostNotifierRecorder{}
	module := visitorservice.NewModule(visitorservice.Dependencies{
		Repository:  store,
		Idempotency: store,
		Notifier:    notifier,
		Clock:       store,
		IDGenerator: store,
	})

	visit := registerVisit(t, module, "Ada", time.Now().UTC().Add(time.Hour))

	if _, err := module.Handler.CheckInHandler(context.Background(), "tenant-1", visit.VisitID); err != nil {
		t.Fatalf("check-in should succeed: %v", err)
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != "tenant-1/user-host/Ada" {
		t.Fatalf("expected one host notification, got %v", notifier.notified)
	}

	// A notification failure never fails the check-in itself.
	second := registerVisit(t, module, "Grace", time.Now().UTC().Add(time.Hour))
	notifier.err = errors.New("notification store down")
	checkedIn, err := module.Handler.CheckInHandler(context.Background(), "tenant-1", second.VisitID)
	if err != nil {
		t.Fatalf("check-in should survive notifier failure: %v", err)
	}
	if checkedIn.Status != "checked_in" {
		t.Fatalf("expected checked_in visit, got %s", checkedIn.Status)
	}
}

func TestCheckOutRequiresCheckIn(t *testing.T) {
	module := visitorservice.NewInMemoryModule(nil)
	visit := registerVisit(t, module, "Ada", time.Now().UTC().Add(time.Hour))

	if _, err := module.Handler.CheckOutHandler(context.Background(), "tenant-1", visit.VisitID); !errors.Is(err, domainerrors.ErrVisitNotCheckedIn) {
		t.Fatalf("expected not-checked-in refusal, got %v", err)
	}

	if _, err := module.Handler.CheckInHandler(context.Background(), "tenant-1", visit.VisitID); err != nil {
		t.Fatalf("check-in should succeed: %v", err)
	}
	checkedOut, err := module.Handler.CheckOutHandler(context.Background(), "tenant-1", visit.VisitID)
	if err != nil {
		t.Fatalf("check-out should succeed: %v", err)
	}
	if checkedOut.Status != "checked_out" || checkedOut.CheckedOutAt == nil {
		t.Fatalf("expected checked_out visit, got %+v", checkedOut)
	}

	// Repeat check-out is a no-op.
	if _, err := module.Handler.CheckOutHandler(context.Background(), "tenant-1", visit.VisitID); err != nil {
		t.Fatalf("repeat check-out should be a no-op: %v", err)
	}
}

func TestVisitHiddenAcrossTenants(t *testing.T) {
	module := visitorservice.NewInMemoryModule(nil)
	visit := registerVisit(t, module, "Ada", time.Now().UTC().Add(time.Hour))

	if _, err := module.Handler.GetVisitHandler(context.Background(), "tenant-other", visit.VisitID); !errors.Is(err, domainerrors.ErrVisitNotFound) {
		t.Fatalf("expected not found for foreign tenant, got %v", err)
	}
}

func TestNoShowSweeperMarksOverdueExpectedVisits(t *testing.T) {
	module := visitorservice.NewInMemoryModule(nil)
	expectedAt := time.Now().UTC().Add(time.Hour)

	overdue := registerVisit(t, module, "Ada", expectedAt)
	arrived := registerVisit(t, module, "Grace", expectedAt)
	if _, err := module.Handler.CheckInHandler(context.Background(), "tenant-1", arrived.VisitID); err != nil {
		t.Fatalf("check-in should succeed: %v", err)
	}

	sweeper := workers.NoShowSweeper{
		Repo:  module.Store,
		Clock: fixedClock{at: expectedAt.Add(5 * time.Hour)},
	}
	count, err := sweeper.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("sweeper should succeed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one no-show, got %d", count)
	}

	swept, err := module.Handler.GetVisitHandler(context.Background(), "tenant-1", overdue.VisitID)
	if err != nil {
		t.Fatalf("get should succeed: %v", err)
	}
	if swept.Status != "no_show" {
		t.Fatalf("expected no_show, got %s", swept.Status)
	}

	kept, err := module.Handler.GetVisitHandler(context.Background(), "tenant-1", arrived.VisitID)
	if err != nil {
		t.Fatalf("get should succeed: %v", err)
	}
	if kept.Status != "checked_in" {
		t.Fatalf("checked-in visit should be untouched, got %s", kept.Status)
	}
}
