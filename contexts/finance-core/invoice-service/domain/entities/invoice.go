package entities

import (
	"fmt"
	"time"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusVoid   InvoiceStatus = "void"
)

// NetTermsDays is the payment window stamped on issue.
const NetTermsDays = 30

// Invoice is the billing aggregate. Line items are mutable only while the
// invoice is a draft; the number is assigned at issue time and is gap-free
// per tenant.
type Invoice struct {
	InvoiceID     string        `json:"invoice_id"`
	TenantID      string        `json:"tenant_id"`
	Number        string        `json:"number,omitempty"`
	Status        InvoiceStatus `json:"status"`
	CurrencyCode  string        `json:"currency_code"`
	SubtotalCents int64         `json:"subtotal_cents"`
	TaxRateBps    int           `json:"tax_rate_bps"`
	TaxCents      int64         `json:"tax_cents"`
	TotalCents    int64         `json:"total_cents"`
	LineItems     []LineItem    `json:"line_items"`
	IssuedAt      *time.Time    `json:"issued_at,omitempty"`
	DueAt         *time.Time    `json:"due_at,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	VoidedAt      *time.Time    `json:"voided_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type LineItem struct {
	LineItemID  string `json:"line_item_id"`
	InvoiceID   string `json:"invoice_id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitCents   int64  `json:"unit_cents"`
	AmountCents int64  `json:"amount_cents"`
}

// RecomputeTotals refreshes subtotal, tax, and total from the line items.
// Tax is applied at the invoice's basis-point rate, truncated toward zero.
func (inv *Invoice) RecomputeTotals() {
	var subtotal int64
	for _, item := range inv.LineItems {
		subtotal += item.AmountCents
	}
	inv.SubtotalCents = subtotal
	inv.TaxCents = subtotal * int64(inv.TaxRateBps) / 10000
	inv.TotalCents = inv.SubtotalCents + inv.TaxCents
}

// FormatNumber renders the tenant-sequential invoice number.
func FormatNumber(year, sequence int) string {
	return fmt.Sprintf("INV-%d-%04d", year, sequence)
}
