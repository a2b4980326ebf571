package unit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	invitationservice "hivedesk/contexts/identity-access/invitation-service"
	"hivedesk/contexts/identity-access/invitation-service/application/workers"
	"hivedesk/contexts/identity-access/invitation-service/domain/entities"
	domainerrors "hivedesk/contexts/identity-access/invitation-service/domain/errors"
	"hivedesk/contexts/identity-access/invitation-service/ports"
	httptransport "hivedesk/contexts/identity-access/invitation-service/transport/http"
)

type fakeProvider struct {
	mu       sync.Mutex
	created  int
	revoked  []string
	err      error
	provided string
}

func (p *fakeProvider) CreateInvitation(_ context.Context, _, _, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.created++
	if p.provided == "" {
		return "prov-inv-1", nil
	}
	return p.provided, nil
}

func (p *fakeProvider) RevokeInvitation(_ context.Context, providerInvitationID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.revoked = append(p.revoked, providerInvitationID)
	return nil
}

type membershipRecorder struct {
	mu    sync.Mutex
	added []string
	err   error
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time {
	return c.at
}

func (m *membershipRecorder) CreateMembership(_ context.Context, tenantID, userID, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, tenantID+"/"+userID)
	return nil
}

func TestCreateInvitationRejectsDuplicatePending(t *testing.T) {
	provider := &fakeProvider{}
	module := invitationservice.NewInMemoryModule(provider, &membershipRecorder{}, nil)

	_, err := module.Handler.CreateInvitationHandler(context.Background(), "tenant-1", "user-admin", httptransport.CreateInvitationRequest{
		Email: "invitee@acme.example",
		Role:  "member",
	})
	if err != nil {
		t.Fatalf("first invitation should succeed: %v", err)
	}

	_, err = module.Handler.CreateInvitationHandler(context.Background(), "tenant-1", "user-admin", httptransport.CreateInvitationRequest{
		Email: "Invitee@acme.example",
		Role:  "member",
	})
	if !errors.Is(err, domainerrors.ErrPendingInvitationExists) {
		t.Fatalf("expected pending invitation conflict, got %v", err)
	}
	if provider.created != 1 {
		t.Fatalf("provider should be called once, got %d", provider.created)
	}
}

func TestCreateInvitationProviderFailureLeavesNoMirror(t *testing.T) {
	provider := &fakeProvider{err: errors.New("provider down")}
	module := invitationservice.NewInMemoryModule(provider, &membershipRecorder{}, nil)

	_, err := module.Handler.CreateInvitationHandler(context.Background(), "tenant-1", "user-admin", httptransport.CreateInvitationRequest{
		Email: "invitee@acme.example",
		Role:  "member",
	})
	if err == nil {
		t.Fatalf("expected provider error")
	}

	listed, err := module.Handler.ListInvitationsHandler(context.Background(), "tenant-1", "")
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(listed.Invitations) != 0 {
		t.Fatalf("expected no mirror rows after provider failure, got %d", len(listed.Invitations))
	}
}

func TestRevokeInvitationCallsProvider(t *testing.T) {
	provider := &fakeProvider{provided: "prov-inv-42"}
	module := invitationservice.NewInMemoryModule(provider, &membershipRecorder{}, nil)

	created, err := module.Handler.CreateInvitationHandler(context.Background(), "tenant-1", "user-admin", httptransport.CreateInvitationRequest{
		Email: "invitee@acme.example",
		Role:  "member",
	})
	if err != nil {
		t.Fatalf("create should succeed: %v", err)
	}

	revoked, err := module.Handler.RevokeInvitationHandler(context.Background(), "tenant-1", created.InvitationID)
	if err != nil {
		t.Fatalf("revoke should succeed: %v", err)
	}
	if revoked.Status != string(entities.InvitationStatusRevoked) {
		t.Fatalf("expected revoked status, got %s", revoked.Status)
	}
	if len(provider.revoked) != 1 || provider.revoked[0] != "prov-inv-42" {
		t.Fatalf("expected provider revoke for prov-inv-42, got %v", provider.revoked)
	}

	_, err = module.Handler.RevokeInvitationHandler(context.Background(), "tenant-1", created.InvitationID)
	if !errors.Is(err, domainerrors.ErrInvitationNotPending) {
		t.Fatalf("expected not-pending refusal, got %v", err)
	}
}

func TestRevokeInvitationHiddenAcrossTenants(t *testing.T) {
	module := invitationservice.NewInMemoryModule(&fakeProvider{}, &membershipRecorder{}, nil)

	created, err := module.Handler.CreateInvitationHandler(context.Background(), "tenant-1", "user-admin", httptransport.CreateInvitationRequest{
		Email: "invitee@acme.example",
		Role:  "member",
	})
	if err != nil {
		t.Fatalf("create should succeed: %v", err)
	}

	_, err = module.Handler.RevokeInvitationHandler(context.Background(), "tenant-other", created.InvitationID)
	if !errors.Is(err, domainerrors.ErrInvitationNotFound) {
		t.Fatalf("expected not found for foreign tenant, got %v", err)
	}
}

func TestUserCreatedAcceptsPendingInvitations(t *testing.T) {
	memberships := &membershipRecorder{}
	module := invitationservice.NewInMemoryModule(&fakeProvider{}, memberships, nil)

	if _, err := module.Handler.CreateInvitationHandler(context.Background(), "tenant-1", "user-admin", httptransport.CreateInvitationRequest{
		Email: "invitee@acme.example",
		Role:  "member",
	}); err != nil {
		t.Fatalf("create should succeed: %v", err)
	}

	event := ports.UserCreatedEvent{
		EventID:        "evt-1",
		ProviderUserID: "prov-user-9",
		Email:          "invitee@acme.example",
		OccurredAt:     time.Now().UTC(),
	}
	if err := module.UserCreated.Handle(context.Background(), event); err != nil {
		t.Fatalf("consume should succeed: %v", err)
	}
	if len(memberships.added) != 1 || memberships.added[0] != "tenant-1/prov-user-9" {
		t.Fatalf("expected one membership for tenant-1/prov-user-9, got %v", memberships.added)
	}

	listed, err := module.Handler.ListInvitationsHandler(context.Background(), "tenant-1", string(entities.InvitationStatusAccepted))
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(listed.Invitations) != 1 {
		t.Fatalf("expected one accepted invitation, got %d", len(listed.Invitations))
	}

	// Redelivery of the same event id is a no-op.
	if err := module.UserCreated.Handle(context.Background(), event); err != nil {
		t.Fatalf("redelivery should succeed: %v", err)
	}
	if len(memberships.added) != 1 {
		t.Fatalf("expected dedup to skip replay, got %d memberships", len(memberships.added))
	}
}

func TestUserCreatedRedeliveryAfterTransientFailure(t *testing.T) {
	memberships := &membershipRecorder{}
	module := invitationservice.NewInMemoryModule(&fakeProvider{}, memberships, nil)

	if _, err := module.Handler.CreateInvitationHandler(context.Background(), "tenant-1", "user-admin", httptransport.CreateInvitationRequest{
		Email: "invitee@acme.example",
		Role:  "member",
	}); err != nil {
		t.Fatalf("create should succeed: %v", err)
	}

	event := ports.UserCreatedEvent{
		EventID:        "evt-flaky",
		ProviderUserID: "prov-user-9",
		Email:          "invitee@acme.example",
		OccurredAt:     time.Now().UTC(),
	}

	memberships.err = errors.New("tenant store unavailable")
	if err := module.UserCreated.Handle(context.Background(), event); err == nil {
		t.Fatalf("expected transient membership failure to surface")
	}

	// The failed delivery must not burn the event id: the provider's
	// redelivery has to complete the acceptance.
	memberships.err = nil
	if err := module.UserCreated.Handle(context.Background(), event); err != nil {
		t.Fatalf("redelivery should succeed: %v", err)
	}
	if len(memberships.added) != 1 || memberships.added[0] != "tenant-1/prov-user-9" {
		t.Fatalf("expected membership from redelivery, got %v", memberships.added)
	}

	listed, err := module.Handler.ListInvitationsHandler(context.Background(), "tenant-1", string(entities.InvitationStatusAccepted))
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(listed.Invitations) != 1 {
		t.Fatalf("expected one accepted invitation after redelivery, got %d", len(listed.Invitations))
	}
}

func TestInvitationExpirerMarksOverduePending(t *testing.T) {
	module := invitationservice.NewInMemoryModule(&fakeProvider{}, &membershipRecorder{}, nil)

	created, err := module.Handler.CreateInvitationHandler(context.Background(), "tenant-1", "user-admin", httptransport.CreateInvitationRequest{
		Email: "invitee@acme.example",
		Role:  "member",
	})
	if err != nil {
		t.Fatalf("create should succeed: %v", err)
	}

	expirer := workers.InvitationExpirer{
		Repo:  module.Store,
		Clock: fixedClock{at: time.Now().UTC().Add(15 * 24 * time.Hour)},
	}
	if err := expirer.RunOnce(context.Background()); err != nil {
		t.Fatalf("expirer should succeed: %v", err)
	}

	listed, err := module.Handler.ListInvitationsHandler(context.Background(), "tenant-1", string(entities.InvitationStatusExpired))
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(listed.Invitations) != 1 || listed.Invitations[0].InvitationID != created.InvitationID {
		t.Fatalf("expected the invitation to be expired, got %+v", listed.Invitations)
	}
}
