package httptransport

import "time"

type CreateResourceRequest struct {
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	Capacity        int    `json:"capacity"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`
}

type UpdateResourceRequest struct {
	Name            string `json:"name,omitempty"`
	Capacity        int    `json:"capacity,omitempty"`
	HourlyRateCents *int64 `json:"hourly_rate_cents,omitempty"`
	Active          *bool  `json:"active,omitempty"`
}

type ResourceDTO struct {
	ResourceID      string    `json:"resource_id"`
	TenantID        string    `json:"tenant_id"`
	Name            string    `json:"name"`
	Kind            string    `json:"kind"`
	Capacity        int       `json:"capacity"`
	HourlyRateCents int64     `json:"hourly_rate_cents"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ListResourcesResponse struct {
	Resources []ResourceDTO `json:"resources"`
}

type CreateBookingRequest struct {
	ResourceID string    `json:"resource_id"`
	UserID     string    `json:"user_id"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Notes      string    `json:"notes,omitempty"`
}

type BookingDTO struct {
	BookingID      string     `json:"booking_id"`
	TenantID       string     `json:"tenant_id"`
	ResourceID     string     `json:"resource_id"`
	UserID         string     `json:"user_id"`
	StartsAt       time.Time  `json:"starts_at"`
	EndsAt         time.Time  `json:"ends_at"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	AmountDueCents int64      `json:"amount_due_cents"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
}

type CreateBookingResponse struct {
	Booking  BookingDTO `json:"booking"`
	Replayed bool       `json:"replayed"`
}

type ListBookingsResponse struct {
	Bookings []BookingDTO `json:"bookings"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
