package errors

import "errors"

var (
	ErrResourceNotFound       = errors.New("resource not found")
	ErrResourceInactive       = errors.New("resource is not bookable")
	ErrInvalidResourceInput   = errors.New("invalid resource input")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrInvalidBookingWindow   = errors.New("invalid booking window")
	ErrBookingConflict        = errors.New("booking conflicts with an existing reservation")
	ErrBookingNotCancellable  = errors.New("booking cannot be cancelled")
	ErrCancellationTooLate    = errors.New("cancellation is inside the cut-off window")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyKeyConflict = errors.New("idempotency key conflict")
)
