package httptransport

import "time"

type CreateInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type InvitationDTO struct {
	InvitationID string     `json:"invitation_id"`
	TenantID     string     `json:"tenant_id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	InvitedBy    string     `json:"invited_by"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

type ListInvitationsResponse struct {
	TenantID    string          `json:"tenant_id"`
	Invitations []InvitationDTO `json:"invitations"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
