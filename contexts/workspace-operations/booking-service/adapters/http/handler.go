package httpadapter

import (
	"context"
	"log/slog"

	application "hivedesk/contexts/workspace-operations/booking-service/application"
	"hivedesk/contexts/workspace-operations/booking-service/application/commands"
	"hivedesk/contexts/workspace-operations/booking-service/application/queries"
	"hivedesk/contexts/workspace-operations/booking-service/domain/entities"
	"hivedesk/contexts/workspace-operations/booking-service/ports"
	httptransport "hivedesk/contexts/workspace-operations/booking-service/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	CreateBooking commands.CreateBookingUseCase
	CancelBooking commands.CancelBookingUseCase
	Resources     commands.ResourceUseCase
	Bookings      queries.ListBookingsUseCase
	Logger        *slog.Logger
}

func (h Handler) CreateResourceHandler(
	ctx context.Context,
	tenantID string,
	request httptransport.CreateResourceRequest,
) (httptransport.ResourceDTO, error) {
	resource, err := h.Resources.Create(ctx, commands.CreateResourceCommand{
		TenantID:        tenantID,
		Name:            request.Name,
		Kind:            entities.ResourceKind(request.Kind),
		Capacity:        request.Capacity,
		HourlyRateCents: request.HourlyRateCents,
	})
	if err != nil {
		return httptransport.ResourceDTO{}, err
	}
	return resourceDTO(resource), nil
}

func (h Handler) UpdateResourceHandler(
	ctx context.Context,
	tenantID string,
	resourceID string,
	request httptransport.UpdateResourceRequest,
) (httptransport.ResourceDTO, error) {
	cmd := commands.UpdateResourceCommand{
		TenantID:        tenantID,
		ResourceID:      resourceID,
		Name:            request.Name,
		Capacity:        request.Capacity,
		HourlyRateCents: -1,
		Active:          request.Active,
	}
	if request.HourlyRateCents != nil {
		cmd.HourlyRateCents = *request.HourlyRateCents
	}
	resource, err := h.Resources.Update(ctx, cmd)
	if err != nil {
		return httptransport.ResourceDTO{}, err
	}
	return resourceDTO(resource), nil
}

func (h Handler) ListResourcesHandler(ctx context.Context, tenantID string) (httptransport.ListResourcesResponse, error) {
	resources, err := h.Resources.List(ctx, tenantID)
	if err != nil {
		return httptransport.ListResourcesResponse{}, err
	}

	items := make([]httptransport.ResourceDTO, 0, len(resources))
	for _, resource := range resources {
		items = append(items, resourceDTO(resource))
	}
	return httptransport.ListResourcesResponse{Resources: items}, nil
}

func (h Handler) CreateBookingHandler(
	ctx context.Context,
	idempotencyKey string,
	tenantID string,
	request httptransport.CreateBookingRequest,
) (httptransport.CreateBookingResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("http create booking received",
		"event", "booking_http_create_received",
		"module", "workspace-operations/booking-service",
		"layer", "transport",
		"tenant_id", tenantID,
		"resource_id", request.ResourceID,
	)

	result, err := h.CreateBooking.Execute(ctx, commands.CreateBookingCommand{
		IdempotencyKey: idempotencyKey,
		TenantID:       tenantID,
		ResourceID:     request.ResourceID,
		UserID:         request.UserID,
		StartsAt:       request.StartsAt,
		EndsAt:         request.EndsAt,
		Notes:          request.Notes,
	})
	if err != nil {
		return httptransport.CreateBookingResponse{}, err
	}
	return httptransport.CreateBookingResponse{
		Booking:  bookingDTO(result.Booking),
		Replayed: result.Replayed,
	}, nil
}

func (h Handler) CancelBookingHandler(ctx context.Context, tenantID, bookingID string) (httptransport.BookingDTO, error) {
	booking, err := h.CancelBooking.Execute(ctx, tenantID, bookingID)
	if err != nil {
		return httptransport.BookingDTO{}, err
	}
	return bookingDTO(booking), nil
}

func (h Handler) GetBookingHandler(ctx context.Context, tenantID, bookingID string) (httptransport.BookingDTO, error) {
	booking, err := h.Bookings.Get(ctx, tenantID, bookingID)
	if err != nil {
		return httptransport.BookingDTO{}, err
	}
	return bookingDTO(booking), nil
}

func (h Handler) ListBookingsHandler(
	ctx context.Context,
	tenantID string,
	filter ports.BookingFilter,
) (httptransport.ListBookingsResponse, error) {
	bookings, err := h.Bookings.List(ctx, tenantID, filter)
	if err != nil {
		return httptransport.ListBookingsResponse{}, err
	}

	items := make([]httptransport.BookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		items = append(items, bookingDTO(booking))
	}
	return httptransport.ListBookingsResponse{Bookings: items}, nil
}

func resourceDTO(item entities.Resource) httptransport.ResourceDTO {
	return httptransport.ResourceDTO{
		ResourceID:      item.ResourceID,
		TenantID:        item.TenantID,
		Name:            item.Name,
		Kind:            string(item.Kind),
		Capacity:        item.Capacity,
		HourlyRateCents: item.HourlyRateCents,
		Active:          item.Active,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

func bookingDTO(item entities.Booking) httptransport.BookingDTO {
	return httptransport.BookingDTO{
		BookingID:      item.BookingID,
		TenantID:       item.TenantID,
		ResourceID:     item.ResourceID,
		UserID:         item.UserID,
		StartsAt:       item.StartsAt,
		EndsAt:         item.EndsAt,
		Status:         string(item.Status),
		Notes:          item.Notes,
		AmountDueCents: item.AmountDueCents,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
		CancelledAt:    item.CancelledAt,
	}
}
