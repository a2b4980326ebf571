package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "hivedesk/contexts/workspace-operations/booking-service/application"
	"hivedesk/contexts/workspace-operations/booking-service/domain/entities"
	domainerrors "hivedesk/contexts/workspace-operations/booking-service/domain/errors"
	"hivedesk/contexts/workspace-operations/booking-service/ports"
)

// CancelBookingUseCase cancels a confirmed future booking outside the cut-off
// window. Cancelling an already cancelled booking is a no-op.
type CancelBookingUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u CancelBookingUseCase) Execute(ctx context.Context, tenantID, bookingID string) (entities.Booking, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(bookingID) == "" {
		return entities.Booking{}, domainerrors.ErrBookingNotFound
	}

	booking, err := u.Repository.GetBooking(ctx, tenantID, bookingID)
	if err != nil {
		return entities.Booking{}, err
	}
	if booking.Status == entities.BookingStatusCancelled {
		return booking, nil
	}
	if booking.Status != entities.BookingStatusConfirmed {
		return entities.Booking{}, domainerrors.ErrBookingNotCancellable
	}

	now := u.now()
	if !booking.StartsAt.After(now) {
		return entities.Booking{}, domainerrors.ErrBookingNotCancellable
	}
	if booking.StartsAt.Sub(now) < entities.CancellationCutoff {
		return entities.Booking{}, domainerrors.ErrCancellationTooLate
	}

	booking.Status = entities.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.UpdatedAt = now
	if err := u.Repository.UpdateBooking(ctx, booking); err != nil {
		return entities.Booking{}, err
	}

	logger.Info("booking cancelled",
		"event", "booking_cancelled",
		"module", "workspace-operations/booking-service",
		"layer", "application",
		"tenant_id", booking.TenantID,
		"booking_id", booking.BookingID,
	)
	return booking, nil
}

func (u CancelBookingUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
