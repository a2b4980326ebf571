package httptransport

import "time"

type CreateTenantRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Plan        string `json:"plan,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	OwnerUserID string `json:"owner_user_id"`
	OwnerEmail  string `json:"owner_email"`
}

type TenantDTO struct {
	TenantID    string     `json:"tenant_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Plan        string     `json:"plan"`
	Status      string     `json:"status"`
	Timezone    string     `json:"timezone"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SuspendedAt *time.Time `json:"suspended_at,omitempty"`
}

type CreateTenantResponse struct {
	Tenant          TenantDTO     `json:"tenant"`
	OwnerMembership MembershipDTO `json:"owner_membership"`
	Replayed        bool          `json:"replayed"`
}

type UpdateTenantRequest struct {
	Name     string `json:"name,omitempty"`
	Plan     string `json:"plan,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type ListTenantsResponse struct {
	Tenants []TenantDTO `json:"tenants"`
}

type MembershipDTO struct {
	MembershipID string     `json:"membership_id"`
	TenantID     string     `json:"tenant_id"`
	UserID       string     `json:"user_id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	JoinedAt     time.Time  `json:"joined_at"`
	SuspendedAt  *time.Time `json:"suspended_at,omitempty"`
}

type AddMembershipRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type ListMembershipsResponse struct {
	TenantID    string          `json:"tenant_id"`
	Memberships []MembershipDTO `json:"memberships"`
}

type RemoveMembershipResponse struct {
	Membership MembershipDTO `json:"membership"`
	Replayed   bool          `json:"replayed"`
}

type ResolveAccessRequest struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
}

type AccessDecisionResponse struct {
	UserID     string    `json:"user_id"`
	TenantID   string    `json:"tenant_id"`
	Role       string    `json:"role,omitempty"`
	Allowed    bool      `json:"allowed"`
	Reason     string    `json:"reason"`
	ResolvedAt time.Time `json:"resolved_at"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
