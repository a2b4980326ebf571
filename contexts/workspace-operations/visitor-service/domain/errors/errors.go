package domainerrors

import "errors"

var (
	ErrVisitNotFound          = errors.New("visit not found")
	ErrInvalidVisitInput      = errors.New("invalid visit input")
	ErrVisitNotExpected       = errors.New("visit is not awaiting check-in")
	ErrVisitNotCheckedIn      = errors.New("visit is not checked in")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyKeyConflict = errors.New("idempotency key reused with a different request")
)
