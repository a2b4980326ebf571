package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	invitationerrors "hivedesk/contexts/identity-access/invitation-service/domain/errors"
	invitationports "hivedesk/contexts/identity-access/invitation-service/ports"
	invitationhttp "hivedesk/contexts/identity-access/invitation-service/transport/http"
	tenantentities "hivedesk/contexts/identity-access/tenant-service/domain/entities"
	"hivedesk/internal/platform/identity"
)

func (s *Server) registerInvitationRoutes() {
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/invitations", s.handleCreateInvitation)
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/invitations", s.handleListInvitations)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/invitations/{invitation_id}/revoke", s.handleRevokeInvitation)
	s.mux.HandleFunc("POST /v1/webhooks/identity", s.handleIdentityWebhook)
}

func (s *Server) handleCreateInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin) {
		return
	}
	var req invitationhttp.CreateInvitationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.invitations.Handler.CreateInvitationHandler(r.Context(), r.PathValue("tenant_id"), id.UserID, req)
	if err != nil {
		writeInvitationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListInvitations(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin) {
		return
	}
	resp, err := s.invitations.Handler.ListInvitationsHandler(r.Context(), r.PathValue("tenant_id"), r.URL.Query().Get("status"))
	if err != nil {
		writeInvitationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevokeInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin) {
		return
	}
	resp, err := s.invitations.Handler.RevokeInvitationHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("invitation_id"))
	if err != nil {
		writeInvitationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// identityWebhookEnvelope is the provider's webhook body. Only the fields the
// consumers need are decoded.
type identityWebhookEnvelope struct {
	Type string `json:"type"`
	Data struct {
		ID        string `json:"id"`
		UserID    string `json:"user_id"`
		Email     string `json:"email"`
		CreatedAt int64  `json:"created_at"`
	} `json:"data"`
}

// handleIdentityWebhook is the only unauthenticated ingress. Authenticity
// comes from the HMAC signature, never from a session.
func (s *Server) handleIdentityWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writePlatformError(w, http.StatusBadRequest, "invalid_body", "request body could not be read")
		return
	}

	msgID := r.Header.Get("webhook-id")
	now := time.Now().UTC()
	if err := s.webhooks.Verify(msgID, r.Header.Get("webhook-timestamp"), r.Header.Get("webhook-signature"), body, now); err != nil {
		switch {
		case errors.Is(err, identity.ErrWebhookHeaders):
			writePlatformError(w, http.StatusBadRequest, "webhook_headers_invalid", "webhook headers missing or malformed")
		case errors.Is(err, identity.ErrWebhookTimestamp):
			writePlatformError(w, http.StatusBadRequest, "webhook_timestamp_invalid", "webhook timestamp outside tolerance")
		default:
			writePlatformError(w, http.StatusUnauthorized, "webhook_signature_invalid", "webhook signature mismatch")
		}
		return
	}

	var envelope identityWebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		writePlatformError(w, http.StatusBadRequest, "invalid_json", "webhook body must be valid JSON")
		return
	}

	occurredAt := now
	if envelope.Data.CreatedAt > 0 {
		occurredAt = time.UnixMilli(envelope.Data.CreatedAt).UTC()
	}

	switch envelope.Type {
	case "user.created":
		err = s.invitations.UserCreated.Handle(r.Context(), invitationports.UserCreatedEvent{
			EventID:        msgID,
			ProviderUserID: envelope.Data.ID,
			Email:          envelope.Data.Email,
			OccurredAt:     occurredAt,
		})
	case "session.created":
		err = s.invitations.SessionCreated.Handle(r.Context(), invitationports.SessionCreatedEvent{
			EventID:        msgID,
			ProviderUserID: envelope.Data.UserID,
			SessionID:      envelope.Data.ID,
			OccurredAt:     occurredAt,
		})
	default:
		s.logger.Info("identity webhook ignored",
			"event", "identity_webhook_ignored",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"type", envelope.Type,
		)
	}
	if err != nil {
		// Provider retries on non-2xx; consumers dedup by event id.
		writePlatformError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

func writeInvitationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, invitationerrors.ErrInvitationNotFound):
		writeInvitationError(w, http.StatusNotFound, "invitation_not_found", err.Error())
	case errors.Is(err, invitationerrors.ErrPendingInvitationExists):
		writeInvitationError(w, http.StatusConflict, "pending_invitation_exists", err.Error())
	case errors.Is(err, invitationerrors.ErrInvitationNotPending):
		writeInvitationError(w, http.StatusConflict, "invitation_not_pending", err.Error())
	case errors.Is(err, invitationerrors.ErrIdempotencyKeyConflict):
		writeInvitationError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, invitationerrors.ErrIdempotencyKeyRequired):
		writeInvitationError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, invitationerrors.ErrInvalidInvitationInput):
		writeInvitationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, identity.ErrProviderUnavailable):
		writeInvitationError(w, http.StatusBadGateway, "provider_unavailable", "identity provider is unavailable")
	default:
		writeInvitationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeInvitationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, invitationhttp.ErrorResponse{Code: code, Message: message})
}
