package entities

import "time"

type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusSuspended MembershipStatus = "suspended"
)

const (
	RoleOwner     = "owner"
	RoleAdmin     = "admin"
	RoleMember    = "member"
	RoleFrontDesk = "front_desk"
)

// ValidRole reports whether role is one of the tenant role identifiers.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember, RoleFrontDesk:
		return true
	}
	return false
}

// Membership links a provider user account to a tenant with one role.
type Membership struct {
	MembershipID string           `json:"membership_id"`
	TenantID     string           `json:"tenant_id"`
	UserID       string           `json:"user_id"`
	Email        string           `json:"email"`
	Role         string           `json:"role"`
	Status       MembershipStatus `json:"status"`
	JoinedAt     time.Time        `json:"joined_at"`
	SuspendedAt  *time.Time       `json:"suspended_at,omitempty"`
}

// AccessDecision is the result of resolving session claims against tenant and
// membership state.
type AccessDecision struct {
	UserID     string    `json:"user_id"`
	TenantID   string    `json:"tenant_id"`
	Role       string    `json:"role,omitempty"`
	Allowed    bool      `json:"allowed"`
	Reason     string    `json:"reason"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Denial reasons, in precedence order.
const (
	AccessReasonAllowed             = "allowed"
	AccessReasonTenantNotFound      = "tenant_not_found"
	AccessReasonTenantSuspended     = "tenant_suspended"
	AccessReasonMembershipNotFound  = "membership_not_found"
	AccessReasonMembershipSuspended = "membership_suspended"
)
