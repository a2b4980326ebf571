package unit

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	invoiceservice "hivedesk/contexts/finance-core/invoice-service"
	reportingservice "hivedesk/contexts/internal-ops/reporting-service"
	localadapter "hivedesk/contexts/internal-ops/reporting-service/adapters/local"
	"hivedesk/contexts/internal-ops/reporting-service/application/queries"
	bookingservice "hivedesk/contexts/workspace-operations/booking-service"
	httptransport "hivedesk/contexts/workspace-operations/booking-service/transport/http"
	visitorservice "hivedesk/contexts/workspace-operations/visitor-service"
	"hivedesk/contexts/workspace-operations/visitor-service/application/workers"
)

type reportingFixture struct {
	reports  reportingservice.Module
	bookings bookingservice.Module
	invoices invoiceservice.Module
	visitors visitorservice.Module
}

func newReportingFixture() reportingFixture {
	bookings := bookingservice.NewInMemoryModule(&recordingPublisher{}, nil)
	invoices := invoiceservice.NewInMemoryModule(nil)
	visitors := visitorservice.NewInMemoryModule(nil)

	reports := reportingservice.NewModule(reportingservice.Dependencies{
		Bookings: localadapter.BookingSource{Repo: bookings.Store},
		Invoices: localadapter.InvoiceSource{Repo: invoices.Store},
		Visits:   localadapter.VisitSource{Repo: visitors.Store},
	})
	return reportingFixture{
		reports:  reports,
		bookings: bookings,
		invoices: invoices,
		visitors: visitors,
	}
}

func tomorrowStart() time.Time {
	at := time.Now().UTC().Add(24 * time.Hour)
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
}

func TestOccupancyReportExcludesCancelledBookings(t *testing.T) {
	fixture := newReportingFixture()
	resource := newBookableResource(t, fixture.bookings, 2500)
	day := tomorrowStart()

	if _, err := fixture.bookings.Handler.CreateBookingHandler(context.Background(), "idem-1", "tenant-1", httptransport.CreateBookingRequest{
		ResourceID: resource.ResourceID,
		UserID:     "user-1",
		StartsAt:   day.Add(10 * time.Hour),
		EndsAt:     day.Add(12 * time.Hour),
	}); err != nil {
		t.Fatalf("create booking should succeed: %v", err)
	}

	cancelled, err := fixture.bookings.Handler.CreateBookingHandler(context.Background(), "idem-2", "tenant-1", httptransport.CreateBookingRequest{
		ResourceID: resource.ResourceID,
		UserID:     "user-1",
		StartsAt:   day.Add(13 * time.Hour),
		EndsAt:     day.Add(14 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create booking should succeed: %v", err)
	}
	if _, err := fixture.bookings.Handler.CancelBookingHandler(context.Background(), "tenant-1", cancelled.Booking.BookingID); err != nil {
		t.Fatalf("cancel should succeed: %v", err)
	}

	report, err := fixture.reports.Handler.OccupancyReportHandler(context.Background(), "tenant-1", day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("occupancy report should succeed: %v", err)
	}
	if len(report.Entries) != 1 {
		t.Fatalf("expected one occupancy entry, got %+v", report.Entries)
	}
	entry := report.Entries[0]
	if entry.Day != day.Format("2006-01-02") || entry.ResourceKind != "meeting_room" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.BookedHours != 2 || entry.BookableHours != 12 {
		t.Fatalf("expected 2 booked of 12 bookable hours, got %+v", entry)
	}
	if math.Abs(entry.OccupancyRate-2.0/12.0) > 1e-9 {
		t.Fatalf("expected occupancy rate 2/12, got %f", entry.OccupancyRate)
	}
}

func TestOccupancyReportRejectsEmptyRange(t *testing.T) {
	fixture := newReportingFixture()
	day := tomorrowStart()

	_, err := fixture.reports.Handler.OccupancyReportHandler(context.Background(), "tenant-1", day, day)
	if !errors.Is(err, queries.ErrInvalidReportRange) {
		t.Fatalf("expected invalid range, got %v", err)
	}
}

func TestRevenueReportSplitsCollectedAndOutstanding(t *testing.T) {
	fixture := newReportingFixture()
	month := time.Now().UTC().Format("2006-01")

	paid := newDraftInvoice(t, fixture.invoices, "idem-1")
	addLineItem(t, fixture.invoices, paid.InvoiceID, 1, 5000)
	if _, err := fixture.invoices.Handler.IssueInvoiceHandler(context.Background(), "tenant-1", paid.InvoiceID); err != nil {
		t.Fatalf("issue should succeed: %v", err)
	}
	if _, err := fixture.invoices.Handler.MarkInvoicePaidHandler(context.Background(), "tenant-1", paid.InvoiceID); err != nil {
		t.Fatalf("pay should succeed: %v", err)
	}

	outstanding := newDraftInvoice(t, fixture.invoices, "idem-2")
	addLineItem(t, fixture.invoices, outstanding.InvoiceID, 1, 3000)
	if _, err := fixture.invoices.Handler.IssueInvoiceHandler(context.Background(), "tenant-1", outstanding.InvoiceID); err != nil {
		t.Fatalf("issue should succeed: %v", err)
	}

	// Drafts and voided invoices never count toward revenue.
	draft := newDraftInvoice(t, fixture.invoices, "idem-3")
	addLineItem(t, fixture.invoices, draft.InvoiceID, 1, 900)
	voided := newDraftInvoice(t, fixture.invoices, "idem-4")
	addLineItem(t, fixture.invoices, voided.InvoiceID, 1, 700)
	if _, err := fixture.invoices.Handler.IssueInvoiceHandler(context.Background(), "tenant-1", voided.InvoiceID); err != nil {
		t.Fatalf("issue should succeed: %v", err)
	}
	if _, err := fixture.invoices.Handler.VoidInvoiceHandler(context.Background(), "tenant-1", voided.InvoiceID); err != nil {
		t.Fatalf("void should succeed: %v", err)
	}

	report, err := fixture.reports.Handler.RevenueReportHandler(context.Background(), "tenant-1", month)
	if err != nil {
		t.Fatalf("revenue report should succeed: %v", err)
	}
	if report.InvoicedCents != 8000 {
		t.Fatalf("expected 8000 invoiced, got %d", report.InvoicedCents)
	}
	if report.CollectedCents != 5000 {
		t.Fatalf("expected 5000 collected, got %d", report.CollectedCents)
	}
	if report.OutstandingCents != 3000 {
		t.Fatalf("expected 3000 outstanding, got %d", report.OutstandingCents)
	}
}

func TestRevenueReportRejectsBadMonth(t *testing.T) {
	fixture := newReportingFixture()

	_, err := fixture.reports.Handler.RevenueReportHandler(context.Background(), "tenant-1", "2026")
	if !errors.Is(err, queries.ErrInvalidReportRange) {
		t.Fatalf("expected invalid range, got %v", err)
	}
}

func TestVisitorTrafficReportCountsPerDay(t *testing.T) {
	fixture := newReportingFixture()
	day := tomorrowStart()
	morning := day.Add(9 * time.Hour)

	registerVisit(t, fixture.visitors, "Ada", day.Add(20*time.Hour))
	checkedIn := registerVisit(t, fixture.visitors, "Grace", morning)
	checkedOut := registerVisit(t, fixture.visitors, "Edsger", morning)
	registerVisit(t, fixture.visitors, "Alan", morning)

	if _, err := fixture.visitors.Handler.CheckInHandler(context.Background(), "tenant-1", checkedIn.VisitID); err != nil {
		t.Fatalf("check-in should succeed: %v", err)
	}
	if _, err := fixture.visitors.Handler.CheckInHandler(context.Background(), "tenant-1", checkedOut.VisitID); err != nil {
		t.Fatalf("check-in should succeed: %v", err)
	}
	if _, err := fixture.visitors.Handler.CheckOutHandler(context.Background(), "tenant-1", checkedOut.VisitID); err != nil {
		t.Fatalf("check-out should succeed: %v", err)
	}

	// The morning visitor who never arrived becomes a no-show once the
	// grace period lapses; the evening visit is still within its window.
	sweeper := workers.NoShowSweeper{
		Repo:  fixture.visitors.Store,
		Clock: fixedClock{at: day.Add(14 * time.Hour)},
	}
	if _, err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweeper should succeed: %v", err)
	}

	report, err := fixture.reports.Handler.VisitorTrafficReportHandler(context.Background(), "tenant-1", day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("traffic report should succeed: %v", err)
	}
	if len(report.Entries) != 1 {
		t.Fatalf("expected one traffic entry, got %+v", report.Entries)
	}
	entry := report.Entries[0]
	if entry.Day != day.Format("2006-01-02") {
		t.Fatalf("unexpected day %s", entry.Day)
	}
	if entry.Expected != 1 || entry.CheckedIn != 2 || entry.NoShow != 1 {
		t.Fatalf("expected 1 expected / 2 checked in / 1 no-show, got %+v", entry)
	}
}
