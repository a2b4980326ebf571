package localadapter

import (
	"context"
	"time"

	invoiceports "hivedesk/contexts/finance-core/invoice-service/ports"
	"hivedesk/contexts/internal-ops/reporting-service/ports"
	bookingports "hivedesk/contexts/workspace-operations/booking-service/ports"
	visitorports "hivedesk/contexts/workspace-operations/visitor-service/ports"
)

// BookingSource adapts the booking repository to the reporting port.
type BookingSource struct {
	Repo bookingports.Repository
}

func (s BookingSource) ListResources(ctx context.Context, tenantID string) ([]ports.ResourceRecord, error) {
	resources, err := s.Repo.ListResources(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	records := make([]ports.ResourceRecord, 0, len(resources))
	for _, resource := range resources {
		records = append(records, ports.ResourceRecord{
			ResourceID: resource.ResourceID,
			Kind:       string(resource.Kind),
			Active:     resource.Active,
		})
	}
	return records, nil
}

func (s BookingSource) ListBookings(ctx context.Context, tenantID string, from, to time.Time) ([]ports.BookingRecord, error) {
	bookings, err := s.Repo.ListBookings(ctx, tenantID, bookingports.BookingFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	records := make([]ports.BookingRecord, 0, len(bookings))
	for _, booking := range bookings {
		records = append(records, ports.BookingRecord{
			ResourceID: booking.ResourceID,
			StartsAt:   booking.StartsAt,
			EndsAt:     booking.EndsAt,
			Status:     string(booking.Status),
		})
	}
	return records, nil
}

// InvoiceSource adapts the invoice repository to the reporting port.
type InvoiceSource struct {
	Repo invoiceports.Repository
}

func (s InvoiceSource) ListInvoices(ctx context.Context, tenantID string) ([]ports.InvoiceRecord, error) {
	invoices, err := s.Repo.ListInvoices(ctx, tenantID, invoiceports.InvoiceFilter{})
	if err != nil {
		return nil, err
	}

	records := make([]ports.InvoiceRecord, 0, len(invoices))
	for _, invoice := range invoices {
		records = append(records, ports.InvoiceRecord{
			Status:     string(invoice.Status),
			TotalCents: invoice.TotalCents,
			IssuedAt:   invoice.IssuedAt,
			PaidAt:     invoice.PaidAt,
		})
	}
	return records, nil
}

// VisitSource adapts the visitor repository to the reporting port. The visit
// filter has no range support, so the range is applied here.
type VisitSource struct {
	Repo visitorports.Repository
}

func (s VisitSource) ListVisits(ctx context.Context, tenantID string, from, to time.Time) ([]ports.VisitRecord, error) {
	visits, err := s.Repo.ListVisits(ctx, tenantID, visitorports.VisitFilter{})
	if err != nil {
		return nil, err
	}

	records := make([]ports.VisitRecord, 0, len(visits))
	for _, visit := range visits {
		if visit.ExpectedAt.Before(from) || !visit.ExpectedAt.Before(to) {
			continue
		}
		records = append(records, ports.VisitRecord{
			ExpectedAt: visit.ExpectedAt,
			Status:     string(visit.Status),
		})
	}
	return records, nil
}
