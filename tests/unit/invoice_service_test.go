package unit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	invoiceservice "hivedesk/contexts/finance-core/invoice-service"
	domainerrors "hivedesk/contexts/finance-core/invoice-service/domain/errors"
	httptransport "hivedesk/contexts/finance-core/invoice-service/transport/http"
)

func newDraftInvoice(t *testing.T, module invoiceservice.Module, idempotencyKey string) httptransport.InvoiceDTO {
	t.Helper()
	created, err := module.Handler.CreateDraftInvoiceHandler(context.Background(), idempotencyKey, "tenant-1", httptransport.CreateDraftInvoiceRequest{})
	if err != nil {
		t.Fatalf("create draft should succeed: %v", err)
	}
	return created.Invoice
}

func addLineItem(t *testing.T, module invoiceservice.Module, invoiceID string, quantity int, unitCents int64) httptransport.InvoiceDTO {
	t.Helper()
	invoice, err := module.Handler.AddLineItemHandler(context.Background(), "tenant-1", invoiceID, httptransport.AddLineItemRequest{
		Description: "Desk rental",
		Quantity:    quantity,
		UnitCents:   unitCents,
	})
	if err != nil {
		t.Fatalf("add line item should succeed: %v", err)
	}
	return invoice
}

func TestCreateDraftInvoiceIdempotencyReplay(t *testing.T) {
	module := invoiceservice.NewInMemoryModule(nil)

	first, err := module.Handler.CreateDraftInvoiceHandler(context.Background(), "idem-1", "tenant-1", httptransport.CreateDraftInvoiceRequest{})
	if err != nil {
		t.Fatalf("create draft should succeed: %v", err)
	}
	if first.Invoice.Status != "draft" || first.Invoice.CurrencyCode != "USD" {
		t.Fatalf("expected USD draft, got %+v", first.Invoice)
	}

	second, err := module.Handler.CreateDraftInvoiceHandler(context.Background(), "idem-1", "tenant-1", httptransport.CreateDraftInvoiceRequest{})
	if err != nil {
		t.Fatalf("replay should succeed: %v", err)
	}
	if !second.Replayed || second.Invoice.InvoiceID != first.Invoice.InvoiceID {
		t.Fatalf("expected replay of invoice %s, got %+v", first.Invoice.InvoiceID, second)
	}

	_, err = module.Handler.CreateDraftInvoiceHandler(context.Background(), "idem-1", "tenant-1", httptransport.CreateDraftInvoiceRequest{
		CurrencyCode: "EUR",
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
}

func TestDraftCapturesTenantTaxRate(t *testing.T) {
	module := invoiceservice.NewInMemoryModule(nil)

	if err := module.Handler.SetTaxRateHandler(context.Background(), "tenant-1", httptransport.SetTaxRateRequest{TaxRateBps: 825}); err != nil {
		t.Fatalf("set tax rate should succeed: %v", err)
	}
	draft := newDraftInvoice(t, module, "idem-1")
	if draft.TaxRateBps != 825 {
		t.Fatalf("expected captured rate 825, got %d", draft.TaxRateBps)
	}

	// Later rate changes do not touch existing invoices.
	if err := module.Handler.SetTaxRateHandler(context.Background(), "tenant-1", httptransport.SetTaxRateRequest{TaxRateBps: 0}); err != nil {
		t.Fatalf("set tax rate should succeed: %v", err)
	}
	invoice := addLineItem(t, module, draft.InvoiceID, 3, 1000)
	if invoice.SubtotalCents != 3000 {
		t.Fatalf("expected subtotal 3000, got %d", invoice.SubtotalCents)
	}
	if invoice.TaxCents != 247 {
		t.Fatalf("expected tax 3000*825/10000 truncated to 247, got %d", invoice.TaxCents)
	}
	if invoice.TotalCents != 3247 {
		t.Fatalf("expected total 3247, got %d", invoice.TotalCents)
	}
}

func TestRemoveLineItemRecomputesTotals(t *testing.T) {
	module := invoiceservice.NewInMemoryModule(nil)
	draft := newDraftInvoice(t, module, "idem-1")

	addLineItem(t, module, draft.InvoiceID, 1, 5000)
	withBoth := addLineItem(t, module, draft.InvoiceID, 2, 1200)
	if withBoth.TotalCents != 7400 {
		t.Fatalf("expected total 7400, got %d", withBoth.TotalCents)
	}

	removed, err := module.Handler.RemoveLineItemHandler(context.Background(), "tenant-1", draft.InvoiceID, withBoth.LineItems[1].LineItemID)
	if err != nil {
		t.Fatalf("remove line item should succeed: %v", err)
	}
	if len(removed.LineItems) != 1 || removed.TotalCents != 5000 {
		t.Fatalf("expected one line item totalling 5000, got %+v", removed)
	}

	_, err = module.Handler.RemoveLineItemHandler(context.Background(), "tenant-1", draft.InvoiceID, "missing-item")
	if !errors.Is(err, domainerrors.ErrLineItemNotFound) {
		t.Fatalf("expected line item not found, got %v", err)
	}
}

func TestIssueInvoiceAssignsSequentialNumbers(t *testing.T) {
	module := invoiceservice.NewInMemoryModule(nil)
	year := time.Now().UTC().Year()

	first := newDraftInvoice(t, module, "idem-1")
	addLineItem(t, module, first.InvoiceID, 1, 5000)
	second := newDraftInvoice(t, module, "idem-2")
	addLineItem(t, module, second.InvoiceID, 1, 5000)

	issuedFirst, err := module.Handler.IssueInvoiceHandler(context.Background(), "tenant-1", first.InvoiceID)
	if err != nil {
		t.Fatalf("issue should succeed: %v", err)
	}
	if issuedFirst.Number != fmt.Sprintf("INV-%d-0001", year) {
		t.Fatalf("expected first number of the year, got %s", issuedFirst.Number)
	}
	if issuedFirst.Status != "issued" || issuedFirst.IssuedAt == nil || issuedFirst.DueAt == nil {
		t.Fatalf("expected issued invoice with terms, got %+v", issuedFirst)
	}

	issuedSecond, err := module.Handler.IssueInvoiceHandler(context.Background(), "tenant-1", second.InvoiceID)
	if err != nil {
		t.Fatalf("issue should succeed: %v", err)
	}
	if issuedSecond.Number != fmt.Sprintf("INV-%d-0002", year) {
		t.Fatalf("expected sequential number, got %s", issuedSecond.Number)
	}
}

func TestIssueInvoiceRejectsEmptyDraft(t *testing.T) {
	module := invoiceservice.NewInMemoryModule(nil)
	draft := newDraftInvoice(t, module, "idem-1")

	_, err := module.Handler.IssueInvoiceHandler(context.Background(), "tenant-1", draft.InvoiceID)
	if !errors.Is(err, domainerrors.ErrInvoiceEmpty) {
		t.Fatalf("expected empty draft refusal, got %v", err)
	}
}

func TestIssuedInvoiceRefusesLineItemEdits(t *testing.T) {
	module := invoiceservice.NewInMemoryModule(nil)
	draft := newDraftInvoice(t, module, "idem-1")
	issued := addLineItem(t, module, draft.InvoiceID, 1, 5000)

	if _, err := module.Handler.IssueInvoiceHandler(context.Background(), "tenant-1", draft.InvoiceID); err != nil {
		t.Fatalf("issue should succeed: %v", err)
	}

	_, err := module.Handler.AddLineItemHandler(context.Background(), "tenant-1", draft.InvoiceID, httptransport.AddLineItemRequest{
		Description: "Extra",
		Quantity:    1,
		UnitCents:   100,
	})
	if !errors.Is(err, domainerrors.ErrInvoiceNotDraft) {
		t.Fatalf("expected draft-only refusal, got %v", err)
	}
	_, err = module.Handler.RemoveLineItemHandler(context.Background(), "tenant-1", draft.InvoiceID, issued.LineItems[0].LineItemID)
	if !errors.Is(err, domainerrors.ErrInvoiceNotDraft) {
		t.Fatalf("expected draft-only refusal, got %v", err)
	}
}

func TestMarkInvoicePaidStateMachine(t *testing.T) {
	module := invoiceservice.NewInMemoryModule(nil)
	draft := newDraftInvoice(t, module, "idem-1")
	addLineItem(t, module, draft.InvoiceID, 1, 5000)

	if _, err := module.Handler.MarkInvoicePaidHandler(context.Background(), "tenant-1", draft.InvoiceID); !errors.Is(err, domainerrors.ErrInvoiceNotIssued) {
		t.Fatalf("expected not-issued refusal, got %v", err)
	}

	if _, err := module.Handler.IssueInvoiceHandler(context.Background(), "tenant-1", draft.InvoiceID); err != nil {
		t.Fatalf("issue should succeed: %v", err)
	}
	paid, err := module.Handler.MarkInvoicePaidHandler(context.Background(), "tenant-1", draft.InvoiceID)
	if err != nil {
		t.Fatalf("pay should succeed: %v", err)
	}
	if paid.Status != "paid" || paid.PaidAt == nil {
		t.Fatalf("expected paid invoice with timestamp, got %+v", paid)
	}

	// Paying again is a no-op.
	again, err := module.Handler.MarkInvoicePaidHandler(context.Background(), "tenant-1", draft.InvoiceID)
	if err != nil {
		t.Fatalf("repeat pay should be a no-op: %v", err)
	}
	if again.Status != "paid" {
		t.Fatalf("expected paid status, got %s", again.Status)
	}
}

func TestVoidInvoiceStateMachine(t *testing.T) {
	module := invoiceservice.NewInMemoryModule(nil)

	draft := newDraftInvoice(t, module, "idem-1")
	voided, err := module.Handler.VoidInvoiceHandler(context.Background(), "tenant-1", draft.InvoiceID)
	if err != nil {
		t.Fatalf("void draft should succeed: %v", err)
	}
	if voided.Status != "void" || voided.VoidedAt == nil {
		t.Fatalf("expected void invoice with timestamp, got %+v", voided)
	}
	if _, err := module.Handler.VoidInvoiceHandler(context.Background(), "tenant-1", draft.InvoiceID); err != nil {
		t.Fatalf("repeat void should be a no-op: %v", err)
	}

	paid := newDraftInvoice(t, module, "idem-2")
	addLineItem(t, module, paid.InvoiceID, 1, 5000)
	if _, err := module.Handler.IssueInvoiceHandler(context.Background(), "tenant-1", paid.InvoiceID); err != nil {
		t.Fatalf("issue should succeed: %v", err)
	}
	if _, err := module.Handler.MarkInvoicePaidHandler(context.Background(), "tenant-1", paid.InvoiceID); err != nil {
		t.Fatalf("pay should succeed: %v", err)
	}
	if _, err := module.Handler.VoidInvoiceHandler(context.Background(), "tenant-1", paid.InvoiceID); !errors.Is(err, domainerrors.ErrInvoiceNotVoidable) {
		t.Fatalf("expected paid invoices to be final, got %v", err)
	}
}

func TestSetTaxRateBounds(t *testing.T) {
	module := invoiceservice.NewInMemoryModule(nil)

	for _, rate := range []int{-1, 10001} {
		err := module.Handler.SetTaxRateHandler(context.Background(), "tenant-1", httptransport.SetTaxRateRequest{TaxRateBps: rate})
		if !errors.Is(err, domainerrors.ErrInvalidInvoiceInput) {
			t.Fatalf("rate %d: expected invalid input, got %v", rate, err)
		}
	}
}
