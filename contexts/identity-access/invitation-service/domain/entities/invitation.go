package entities

import "time"

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRevoked  InvitationStatus = "revoked"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// Invitation is the database mirror of a provider-issued invitation.
type Invitation struct {
	InvitationID         string           `json:"invitation_id"`
	TenantID             string           `json:"tenant_id"`
	Email                string           `json:"email"`
	Role                 string           `json:"role"`
	Status               InvitationStatus `json:"status"`
	ProviderInvitationID string           `json:"provider_invitation_id"`
	InvitedBy            string           `json:"invited_by"`
	CreatedAt            time.Time        `json:"created_at"`
	ExpiresAt            time.Time        `json:"expires_at"`
	AcceptedAt           *time.Time       `json:"accepted_at,omitempty"`
	RevokedAt            *time.Time       `json:"revoked_at,omitempty"`
}
