package entities

import (
	"testing"
	"time"
)

func TestOverlapsHalfOpenWindow(t *testing.T) {
	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	booking := Booking{StartsAt: start, EndsAt: start.Add(2 * time.Hour)}

	if !booking.Overlaps(start.Add(time.Hour), start.Add(3*time.Hour)) {
		t.Fatalf("expected intersecting windows to overlap")
	}
	if !booking.Overlaps(start.Add(-time.Hour), start.Add(time.Minute)) {
		t.Fatalf("expected window covering the start to overlap")
	}

	// Back-to-back windows share an instant but not a slot.
	if booking.Overlaps(start.Add(2*time.Hour), start.Add(3*time.Hour)) {
		t.Fatalf("expected window starting at the end not to overlap")
	}
	if booking.Overlaps(start.Add(-time.Hour), start) {
		t.Fatalf("expected window ending at the start not to overlap")
	}
}

func TestPriceBookingRoundsUpPartialHours(t *testing.T) {
	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	if got := PriceBooking(start, start.Add(2*time.Hour), 1500); got != 3000 {
		t.Fatalf("expected 3000 for two whole hours, got %d", got)
	}
	if got := PriceBooking(start, start.Add(90*time.Minute), 1500); got != 3000 {
		t.Fatalf("expected partial hour billed in full, got %d", got)
	}
	if got := PriceBooking(start, start.Add(time.Minute), 1500); got != 1500 {
		t.Fatalf("expected one minute billed as one hour, got %d", got)
	}
}
