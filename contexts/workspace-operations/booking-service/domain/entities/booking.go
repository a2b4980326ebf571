package entities

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// MaxBookingDuration caps a single reservation window.
const MaxBookingDuration = 12 * time.Hour

// CancellationCutoff is the minimum lead time for cancelling a booking.
const CancellationCutoff = 2 * time.Hour

// Booking reserves a resource for a half-open [StartsAt, EndsAt) window.
type Booking struct {
	BookingID      string        `json:"booking_id"`
	TenantID       string        `json:"tenant_id"`
	ResourceID     string        `json:"resource_id"`
	UserID         string        `json:"user_id"`
	StartsAt       time.Time     `json:"starts_at"`
	EndsAt         time.Time     `json:"ends_at"`
	Status         BookingStatus `json:"status"`
	Notes          string        `json:"notes,omitempty"`
	AmountDueCents int64         `json:"amount_due_cents"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`
}

// Overlaps reports half-open interval intersection with another window.
// Back-to-back bookings (one ends exactly when the next starts) do not overlap.
func (b Booking) Overlaps(startsAt, endsAt time.Time) bool {
	return b.StartsAt.Before(endsAt) && b.EndsAt.After(startsAt)
}

// PriceBooking computes the amount due: whole hours rounded up times the
// resource hourly rate.
func PriceBooking(startsAt, endsAt time.Time, hourlyRateCents int64) int64 {
	duration := endsAt.Sub(startsAt)
	hours := int64(duration / time.Hour)
	if duration%time.Hour != 0 {
		hours++
	}
	return hours * hourlyRateCents
}
