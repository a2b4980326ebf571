package ports

import (
	"context"
	"time"

	"hivedesk/contexts/finance-core/invoice-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// IdempotencyRecord stores request hash and previous response payload.
type IdempotencyRecord struct {
	Key             string
	Operation       string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

// IdempotencyStore guarantees replay/conflict behavior for mutating endpoints.
type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type InvoiceFilter struct {
	Status entities.InvoiceStatus
}

// Repository is the persistence boundary for the invoice aggregate.
// SaveDraft replaces the line item set and totals in one transaction.
// Issue assigns the next per-tenant number inside the same transaction that
// flips the status, keeping the sequence gap-free.
type Repository interface {
	CreateInvoice(ctx context.Context, invoice entities.Invoice) error
	GetInvoice(ctx context.Context, tenantID, invoiceID string) (entities.Invoice, error)
	ListInvoices(ctx context.Context, tenantID string, filter InvoiceFilter) ([]entities.Invoice, error)
	SaveDraft(ctx context.Context, invoice entities.Invoice) error
	Issue(ctx context.Context, tenantID, invoiceID string, issuedAt, dueAt time.Time) (entities.Invoice, error)
	UpdateStatus(ctx context.Context, invoice entities.Invoice) error

	GetTaxRateBps(ctx context.Context, tenantID string) (int, error)
	SetTaxRateBps(ctx context.Context, tenantID string, rateBps int) error
}
