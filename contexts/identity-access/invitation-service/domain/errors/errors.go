package errors

import "errors"

var (
	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrInvalidInvitationInput  = errors.New("invalid invitation input")
	ErrPendingInvitationExists = errors.New("a pending invitation already exists for this email")
	ErrInvitationNotPending    = errors.New("invitation is not pending")
	ErrIdempotencyKeyRequired  = errors.New("idempotency key is required")
	ErrIdempotencyKeyConflict  = errors.New("idempotency key conflict")
)
