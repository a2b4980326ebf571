package entities

import "time"

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant is a coworking-space organization, the unit of data isolation.
type Tenant struct {
	TenantID    string       `json:"tenant_id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Plan        string       `json:"plan"`
	Status      TenantStatus `json:"status"`
	Timezone    string       `json:"timezone"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	SuspendedAt *time.Time   `json:"suspended_at,omitempty"`
}
