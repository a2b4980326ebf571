package domainerrors

import "errors"

var (
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrLineItemNotFound       = errors.New("line item not found")
	ErrInvalidInvoiceInput    = errors.New("invalid invoice input")
	ErrInvoiceNotDraft        = errors.New("invoice is not a draft")
	ErrInvoiceNotIssued       = errors.New("invoice is not issued")
	ErrInvoiceNotVoidable     = errors.New("invoice cannot be voided")
	ErrInvoiceEmpty           = errors.New("invoice has no line items")
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyKeyConflict = errors.New("idempotency key reused with different request")
)
