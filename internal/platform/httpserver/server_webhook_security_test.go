package httpserver

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	invitationhttp "hivedesk/contexts/identity-access/invitation-service/transport/http"
)

func signIdentityWebhook(msgID, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func postIdentityWebhook(fixture securityFixture, msgID string, body []byte, sign bool) *httptest.ResponseRecorder {
	timestamp := strconv.FormatInt(time.Now().UTC().Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/identity", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("webhook-id", msgID)
	req.Header.Set("webhook-timestamp", timestamp)
	if sign {
		req.Header.Set("webhook-signature", signIdentityWebhook(msgID, timestamp, body))
	} else {
		req.Header.Set("webhook-signature", "v1,bm90LWEtcmVhbC1zaWduYXR1cmU=")
	}

	rr := httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)
	return rr
}

func TestIdentityWebhookRejectsBadSignature(t *testing.T) {
	fixture := newSecurityFixture()
	body := []byte(`{"type":"user.created","data":{"id":"prov-user-1","email":"invitee@acme.example"}}`)

	rr := postIdentityWebhook(fixture, "msg-1", body, false)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
	if len(fixture.memberships.added) != 0 {
		t.Fatalf("unsigned webhook must not reach consumers, got %v", fixture.memberships.added)
	}
}

func TestIdentityWebhookRejectsMissingHeaders(t *testing.T) {
	fixture := newSecurityFixture()
	body := []byte(`{"type":"user.created","data":{"id":"prov-user-1"}}`)

	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/identity", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	fixture.server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestIdentityWebhookAcceptsSignedUserCreated(t *testing.T) {
	fixture := newSecurityFixture()
	tenantID := fixture.seedTenant(t)

	if _, err := fixture.invitations.Handler.CreateInvitationHandler(context.Background(), tenantID, "user-owner", invitationhttp.CreateInvitationRequest{
		Email: "invitee@acme.example",
		Role:  "member",
	}); err != nil {
		t.Fatalf("seed invitation: %v", err)
	}

	body := []byte(`{"type":"user.created","data":{"id":"prov-user-1","email":"invitee@acme.example"}}`)
	rr := postIdentityWebhook(fixture, "msg-1", body, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if len(fixture.memberships.added) != 1 || fixture.memberships.added[0] != tenantID+"/prov-user-1" {
		t.Fatalf("expected membership for the invited user, got %v", fixture.memberships.added)
	}

	// Redelivery of the same webhook id is deduplicated by the consumer.
	rr = postIdentityWebhook(fixture, "msg-1", body, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on redelivery, got %d body=%s", rr.Code, rr.Body.String())
	}
	if len(fixture.memberships.added) != 1 {
		t.Fatalf("expected dedup to skip replay, got %v", fixture.memberships.added)
	}
}

func TestIdentityWebhookIgnoresUnknownEventTypes(t *testing.T) {
	fixture := newSecurityFixture()
	body := []byte(`{"type":"organization.updated","data":{"id":"org-1"}}`)

	rr := postIdentityWebhook(fixture, "msg-9", body, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}
