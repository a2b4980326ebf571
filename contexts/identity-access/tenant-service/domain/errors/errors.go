package errors

import "errors"

var (
	ErrTenantNotFound         = errors.New("tenant not found")
	ErrTenantSuspended        = errors.New("tenant is suspended")
	ErrInvalidTenantInput     = errors.New("invalid tenant input")
	ErrSlugTaken              = errors.New("tenant slug already in use")
	ErrMembershipNotFound     = errors.New("membership not found")
	ErrMembershipExists       = errors.New("user already has a membership in tenant")
	ErrInvalidMembershipInput = errors.New("invalid membership input")
	ErrLastOwner              = errors.New("tenant must retain at least one active owner")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyKeyConflict = errors.New("idempotency key conflict")
)
