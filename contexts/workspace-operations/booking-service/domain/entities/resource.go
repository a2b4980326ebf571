package entities

import "time"

type ResourceKind string

const (
	ResourceKindDesk        ResourceKind = "desk"
	ResourceKindMeetingRoom ResourceKind = "meeting_room"
	ResourceKindOffice      ResourceKind = "office"
	ResourceKindPhoneBooth  ResourceKind = "phone_booth"
)

// ValidResourceKind reports whether kind names a bookable resource type.
func ValidResourceKind(kind ResourceKind) bool {
	switch kind {
	case ResourceKindDesk, ResourceKindMeetingRoom, ResourceKindOffice, ResourceKindPhoneBooth:
		return true
	}
	return false
}

// Resource is a bookable unit of space within a tenant.
type Resource struct {
	ResourceID      string       `json:"resource_id"`
	TenantID        string       `json:"tenant_id"`
	Name            string       `json:"name"`
	Kind            ResourceKind `json:"kind"`
	Capacity        int          `json:"capacity"`
	HourlyRateCents int64        `json:"hourly_rate_cents"`
	Active          bool         `json:"active"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
