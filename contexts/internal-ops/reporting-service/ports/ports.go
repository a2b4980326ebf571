package ports

import (
	"context"
	"time"
)

// Reporting reads other modules' data through narrow source interfaces so the
// report queries never depend on those modules' domain packages.

type ResourceRecord struct {
	ResourceID string
	Kind       string
	Active     bool
}

type BookingRecord struct {
	ResourceID string
	StartsAt   time.Time
	EndsAt     time.Time
	Status     string
}

type InvoiceRecord struct {
	Status     string
	TotalCents int64
	IssuedAt   *time.Time
	PaidAt     *time.Time
}

type VisitRecord struct {
	ExpectedAt time.Time
	Status     string
}

type BookingSource interface {
	ListResources(ctx context.Context, tenantID string) ([]ResourceRecord, error)
	ListBookings(ctx context.Context, tenantID string, from, to time.Time) ([]BookingRecord, error)
}

type InvoiceSource interface {
	ListInvoices(ctx context.Context, tenantID string) ([]InvoiceRecord, error)
}

type VisitSource interface {
	ListVisits(ctx context.Context, tenantID string, from, to time.Time) ([]VisitRecord, error)
}
