package queries

import (
	"context"
	"strings"
	"time"

	"hivedesk/contexts/internal-ops/reporting-service/ports"
)

type RevenueReport struct {
	TenantID         string `json:"tenant_id"`
	Month            string `json:"month"`
	InvoicedCents    int64  `json:"invoiced_cents"`
	CollectedCents   int64  `json:"collected_cents"`
	OutstandingCents int64  `json:"outstanding_cents"`
}

// RevenueUseCase totals invoiced, collected, and outstanding amounts for a
// calendar month. Invoiced covers invoices issued in the month (void
// excluded); collected covers payments received in the month; outstanding is
// what was issued in the month and remains unpaid.
type RevenueUseCase struct {
	Invoices ports.InvoiceSource
}

func (u RevenueUseCase) Execute(ctx context.Context, tenantID, month string) (RevenueReport, error) {
	if strings.TrimSpace(tenantID) == "" {
		return RevenueReport{}, ErrInvalidReportRange
	}
	monthStart, err := time.Parse("2006-01", strings.TrimSpace(month))
	if err != nil {
		return RevenueReport{}, ErrInvalidReportRange
	}
	monthEnd := monthStart.AddDate(0, 1, 0)

	invoices, err := u.Invoices.ListInvoices(ctx, tenantID)
	if err != nil {
		return RevenueReport{}, err
	}

	report := RevenueReport{TenantID: tenantID, Month: monthStart.Format("2006-01")}
	for _, invoice := range invoices {
		if invoice.Status == "void" || invoice.Status == "draft" {
			continue
		}
		issuedInMonth := invoice.IssuedAt != nil &&
			!invoice.IssuedAt.Before(monthStart) && invoice.IssuedAt.Before(monthEnd)
		if issuedInMonth {
			report.InvoicedCents += invoice.TotalCents
			if invoice.PaidAt == nil {
				report.OutstandingCents += invoice.TotalCents
			}
		}
		if invoice.PaidAt != nil &&
			!invoice.PaidAt.Before(monthStart) && invoice.PaidAt.Before(monthEnd) {
			report.CollectedCents += invoice.TotalCents
		}
	}
	return report, nil
}
