package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "hivedesk/contexts/workspace-operations/booking-service/application"
	"hivedesk/contexts/workspace-operations/booking-service/domain/entities"
	domainerrors "hivedesk/contexts/workspace-operations/booking-service/domain/errors"
	"hivedesk/contexts/workspace-operations/booking-service/ports"
)

// CreateBookingCommand contains transport-agnostic input for reservation.
type CreateBookingCommand struct {
	IdempotencyKey string
	TenantID       string
	ResourceID     string
	UserID         string
	StartsAt       time.Time
	EndsAt         time.Time
	Notes          string
}

// CreateBookingResult captures the booking and replay status.
type CreateBookingResult struct {
	Booking  entities.Booking `json:"booking"`
	Replayed bool             `json:"replayed"`
}

// CreateBookingUseCase validates the window, prices the reservation, and
// writes it with an atomic conflict check.
type CreateBookingUseCase struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (u CreateBookingUseCase) Execute(ctx context.Context, cmd CreateBookingCommand) (CreateBookingResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("create booking started",
		"event", "booking_create_started",
		"module", "workspace-operations/booking-service",
		"layer", "application",
		"tenant_id", cmd.TenantID,
		"resource_id", cmd.ResourceID,
		"user_id", cmd.UserID,
	)

	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CreateBookingResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	if strings.TrimSpace(cmd.TenantID) == "" ||
		strings.TrimSpace(cmd.ResourceID) == "" ||
		strings.TrimSpace(cmd.UserID) == "" {
		return CreateBookingResult{}, domainerrors.ErrInvalidBookingWindow
	}

	now := u.now()
	startsAt := cmd.StartsAt.UTC()
	endsAt := cmd.EndsAt.UTC()
	if !endsAt.After(startsAt) {
		return CreateBookingResult{}, domainerrors.ErrInvalidBookingWindow
	}
	if endsAt.Sub(startsAt) > entities.MaxBookingDuration {
		return CreateBookingResult{}, domainerrors.ErrInvalidBookingWindow
	}
	if startsAt.Before(now) {
		return CreateBookingResult{}, domainerrors.ErrInvalidBookingWindow
	}

	requestHash, err := hashRequest(struct {
		TenantID   string    `json:"tenant_id"`
		ResourceID string    `json:"resource_id"`
		UserID     string    `json:"user_id"`
		StartsAt   time.Time `json:"starts_at"`
		EndsAt     time.Time `json:"ends_at"`
	}{cmd.TenantID, cmd.ResourceID, cmd.UserID, startsAt, endsAt})
	if err != nil {
		return CreateBookingResult{}, err
	}

	idempotencyKey := "booking_create:" + cmd.IdempotencyKey
	existing, found, err := u.Idempotency.GetRecord(ctx, idempotencyKey, now)
	if err != nil {
		return CreateBookingResult{}, err
	}
	if found {
		if existing.RequestHash != requestHash {
			return CreateBookingResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var replay CreateBookingResult
		if err := json.Unmarshal(existing.ResponsePayload, &replay); err != nil {
			return CreateBookingResult{}, err
		}
		replay.Replayed = true
		return replay, nil
	}

	resource, err := u.Repository.GetResource(ctx, cmd.TenantID, cmd.ResourceID)
	if err != nil {
		return CreateBookingResult{}, err
	}
	if !resource.Active {
		return CreateBookingResult{}, domainerrors.ErrResourceInactive
	}

	bookingID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateBookingResult{}, err
	}

	booking := entities.Booking{
		BookingID:      bookingID,
		TenantID:       strings.TrimSpace(cmd.TenantID),
		ResourceID:     strings.TrimSpace(cmd.ResourceID),
		UserID:         strings.TrimSpace(cmd.UserID),
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		Status:         entities.BookingStatusConfirmed,
		Notes:          strings.TrimSpace(cmd.Notes),
		AmountDueCents: entities.PriceBooking(startsAt, endsAt, resource.HourlyRateCents),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.Repository.CreateBooking(ctx, booking); err != nil {
		logger.Error("create booking write failed",
			"event", "booking_create_write_failed",
			"module", "workspace-operations/booking-service",
			"layer", "application",
			"tenant_id", cmd.TenantID,
			"resource_id", cmd.ResourceID,
			"error", err.Error(),
		)
		return CreateBookingResult{}, err
	}

	result := CreateBookingResult{Booking: booking}
	responsePayload, err := json.Marshal(result)
	if err != nil {
		return CreateBookingResult{}, err
	}
	if err := u.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             idempotencyKey,
		Operation:       "create_booking",
		RequestHash:     requestHash,
		ResponsePayload: responsePayload,
		ExpiresAt:       now.Add(u.idempotencyTTL()),
	}); err != nil {
		return CreateBookingResult{}, err
	}

	logger.Info("create booking completed",
		"event", "booking_create_completed",
		"module", "workspace-operations/booking-service",
		"layer", "application",
		"tenant_id", booking.TenantID,
		"booking_id", booking.BookingID,
		"amount_due_cents", booking.AmountDueCents,
	)
	return result, nil
}

func (u CreateBookingUseCase) idempotencyTTL() time.Duration {
	if u.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return u.IdempotencyTTL
}

func (u CreateBookingUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
