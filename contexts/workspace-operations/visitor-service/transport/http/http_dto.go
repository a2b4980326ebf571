package httptransport

import "time"

type RegisterVisitRequest struct {
	VisitorName  string    `json:"visitor_name"`
	VisitorEmail string    `json:"visitor_email,omitempty"`
	Company      string    `json:"company,omitempty"`
	HostUserID   string    `json:"host_user_id"`
	ExpectedAt   time.Time `json:"expected_at"`
}

type VisitDTO struct {
	VisitID      string     `json:"visit_id"`
	TenantID     string     `json:"tenant_id"`
	VisitorName  string     `json:"visitor_name"`
	VisitorEmail string     `json:"visitor_email,omitempty"`
	Company      string     `json:"company,omitempty"`
	HostUserID   string     `json:"host_user_id"`
	ExpectedAt   time.Time  `json:"expected_at"`
	Status       string     `json:"status"`
	BadgeNumber  int        `json:"badge_number,omitempty"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type RegisterVisitResponse struct {
	Visit    VisitDTO `json:"visit"`
	Replayed bool     `json:"replayed"`
}

type ListVisitsResponse struct {
	Visits []VisitDTO `json:"visits"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
