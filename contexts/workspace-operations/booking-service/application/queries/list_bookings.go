package queries

import (
	"context"
	"strings"

	"hivedesk/contexts/workspace-operations/booking-service/domain/entities"
	domainerrors "hivedesk/contexts/workspace-operations/booking-service/domain/errors"
	"hivedesk/contexts/workspace-operations/booking-service/ports"
)

type ListBookingsUseCase struct {
	Repository ports.Repository
}

func (u ListBookingsUseCase) Get(ctx context.Context, tenantID, bookingID string) (entities.Booking, error) {
	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(bookingID) == "" {
		return entities.Booking{}, domainerrors.ErrBookingNotFound
	}
	return u.Repository.GetBooking(ctx, tenantID, bookingID)
}

func (u ListBookingsUseCase) List(ctx context.Context, tenantID string, filter ports.BookingFilter) ([]entities.Booking, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domainerrors.ErrBookingNotFound
	}
	return u.Repository.ListBookings(ctx, tenantID, filter)
}
