package httpserver

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	invoiceservice "hivedesk/contexts/finance-core/invoice-service"
	invitationservice "hivedesk/contexts/identity-access/invitation-service"
	tenantservice "hivedesk/contexts/identity-access/tenant-service"
	tenanthttp "hivedesk/contexts/identity-access/tenant-service/transport/http"
	reportingservice "hivedesk/contexts/internal-ops/reporting-service"
	localadapter "hivedesk/contexts/internal-ops/reporting-service/adapters/local"
	notificationservice "hivedesk/contexts/member-experience/notification-service"
	notificationmemory "hivedesk/contexts/member-experience/notification-service/adapters/memory"
	bookingservice "hivedesk/contexts/workspace-operations/booking-service"
	visitorservice "hivedesk/contexts/workspace-operations/visitor-service"
	"hivedesk/internal/platform/auth"
	"hivedesk/internal/platform/identity"
	"hivedesk/internal/shared/events"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSessionSecret = "test-session-secret"
	testWebhookSecret = "whsec-test"
	testAdminKey      = "test-admin-key"
)

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ string, _ events.Envelope) error {
	return nil
}

type stubProviderGateway struct{}

func (stubProviderGateway) CreateInvitation(_ context.Context, _, _, _ string) (string, error) {
	return "prov-inv-1", nil
}

func (stubProviderGateway) RevokeInvitation(_ context.Context, _ string) error {
	return nil
}

type recordingMembershipCreator struct {
	mu    sync.Mutex
	added []string
}

func (m *recordingMembershipCreator) CreateMembership(_ context.Context, tenantID, userID, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, tenantID+"/"+userID)
	return nil
}

type securityFixture struct {
	server      *Server
	tenants     tenantservice.Module
	invitations invitationservice.Module
	memberships *recordingMembershipCreator
}

func newSecurityFixture() securityFixture {
	logger := slog.Default()
	memberships := &recordingMembershipCreator{}

	tenants := tenantservice.NewInMemoryModule(logger)
	invitations := invitationservice.NewInMemoryModule(stubProviderGateway{}, memberships, logger)
	bookings := bookingservice.NewInMemoryModule(noopPublisher{}, logger)
	visitors := visitorservice.NewInMemoryModule(logger)
	invoices := invoiceservice.NewInMemoryModule(logger)
	notifications := notificationservice.NewInMemoryModule(notificationmemory.NewSender(), logger)
	reports := reportingservice.NewModule(reportingservice.Dependencies{
		Bookings: localadapter.BookingSource{Repo: bookings.Store},
		Invoices: localadapter.InvoiceSource{Repo: invoices.Store},
		Visits:   localadapter.VisitSource{Repo: visitors.Store},
		Logger:   logger,
	})

	server := New(Dependencies{
		Tenants:       tenants,
		Invitations:   invitations,
		Bookings:      bookings,
		Visitors:      visitors,
		Invoices:      invoices,
		Notifications: notifications,
		Reports:       reports,
		TokenParser:   auth.NewTokenParser(testSessionSecret),
		Webhooks:      identity.NewVerifier(testWebhookSecret, 5*time.Minute),
		AdminAPIKey:   testAdminKey,
		Logger:        logger,
		Addr:          ":0",
	})
	return securityFixture{
		server:      server,
		tenants:     tenants,
		invitations: invitations,
		memberships: memberships,
	}
}

func (f securityFixture) seedTenant(t *testing.T) string {
	t.Helper()
	resp, err := f.tenants.Handler.CreateTenantHandler(context.Background(), "seed-acme", tenanthttp.CreateTenantRequest{
		Name:        "Acme Coworking",
		Slug:        "acme-hq",
		OwnerUserID: "user-owner",
		OwnerEmail:  "owner@acme.example",
	})
	if err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	return resp.Tenant.TenantID
}

func (f securityFixture) addMember(t *testing.T, tenantID, userID, role string) {
	t.Helper()
	if _, err := f.tenants.Handler.AddMembershipHandler(context.Background(), tenantID, tenanthttp.AddMembershipRequest{
		UserID: userID,
		Email:  userID + "@acme.example",
		Role:   role,
	}); err != nil {
		t.Fatalf("seed membership: %v", err)
	}
}

func mintSession(t *testing.T, userID string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSessionSecret))
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}
	return raw
}

func TestTenantRoutesRequireBearerToken(t *testing.T) {
	fixture := newSecurityFixture()
	tenantID := fixture.seedTenant(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/"+tenantID, nil)
	rr := httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestExpiredSessionTokenRejected(t *testing.T) {
	fixture := newSecurityFixture()
	tenantID := fixture.seedTenant(t)

	token := mintSession(t, "user-owner", time.Now().UTC().Add(-time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/"+tenantID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUnknownTenantReturnsNotFound(t *testing.T) {
	fixture := newSecurityFixture()
	fixture.seedTenant(t)

	token := mintSession(t, "user-owner", time.Now().UTC().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/no-such-tenant", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestNonMemberIsForbidden(t *testing.T) {
	fixture := newSecurityFixture()
	tenantID := fixture.seedTenant(t)

	token := mintSession(t, "user-stranger", time.Now().UTC().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/"+tenantID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMemberRoleCannotManageMemberships(t *testing.T) {
	fixture := newSecurityFixture()
	tenantID := fixture.seedTenant(t)
	fixture.addMember(t, tenantID, "user-member", "member")

	token := mintSession(t, "user-member", time.Now().UTC().Add(time.Hour))
	body := []byte(`{"user_id":"user-new","email":"new@acme.example","role":"member"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/tenants/"+tenantID+"/memberships", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}

	// The owner may perform the same call.
	token = mintSession(t, "user-owner", time.Now().UTC().Add(time.Hour))
	req = httptest.NewRequest(http.MethodPost, "/v1/tenants/"+tenantID+"/memberships", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPlatformTenantRoutesRequireAdminKey(t *testing.T) {
	fixture := newSecurityFixture()
	body := []byte(`{"name":"Acme Coworking","slug":"acme-hq","owner_user_id":"user-owner","owner_email":"owner@acme.example"}`)

	req := httptest.NewRequest(http.MethodPost, "/v1/tenants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "create-1")
	rr := httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/tenants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "create-1")
	req.Header.Set("X-Admin-Key", "wrong-key")
	rr = httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/tenants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "create-1")
	req.Header.Set("X-Admin-Key", testAdminKey)
	rr = httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 with admin key, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSessionTokenClaimsAreNotTrustedForRole(t *testing.T) {
	fixture := newSecurityFixture()
	tenantID := fixture.seedTenant(t)
	fixture.addMember(t, tenantID, "user-member", "member")

	// Even a token with forged extra claims resolves to the stored role.
	claims := jwt.MapClaims{
		"sub":  "user-member",
		"role": "owner",
		"tid":  tenantID,
		"exp":  time.Now().UTC().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSessionSecret))
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	body := []byte(`{"user_id":"user-new","email":"new@acme.example","role":"member"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/tenants/"+tenantID+"/memberships", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+raw)
	rr := httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}
