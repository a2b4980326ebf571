package entities

import "time"

type VisitStatus string

const (
	VisitStatusExpected   VisitStatus = "expected"
	VisitStatusCheckedIn  VisitStatus = "checked_in"
	VisitStatusCheckedOut VisitStatus = "checked_out"
	VisitStatusNoShow     VisitStatus = "no_show"
)

// NoShowGracePeriod is how long after the expected arrival an expected visit
// stays open before the sweep marks it a no-show.
const NoShowGracePeriod = 4 * time.Hour

// Visit tracks a single visitor appearance at a tenant's space. BadgeNumber
// is assigned at check-in and restarts at 1 per tenant per calendar day (UTC).
type Visit struct {
	VisitID      string      `json:"visit_id"`
	TenantID     string      `json:"tenant_id"`
	VisitorName  string      `json:"visitor_name"`
	VisitorEmail string      `json:"visitor_email,omitempty"`
	Company      string      `json:"company,omitempty"`
	HostUserID   string      `json:"host_user_id"`
	ExpectedAt   time.Time   `json:"expected_at"`
	Status       VisitStatus `json:"status"`
	BadgeNumber  int         `json:"badge_number,omitempty"`
	CheckedInAt  *time.Time  `json:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time  `json:"checked_out_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// BadgeDay formats the UTC calendar day used for badge sequencing.
func BadgeDay(at time.Time) string {
	return at.UTC().Format("2006-01-02")
}
