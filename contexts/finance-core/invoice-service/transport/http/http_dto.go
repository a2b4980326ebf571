package httptransport

import "time"

type CreateDraftInvoiceRequest struct {
	CurrencyCode string `json:"currency_code,omitempty"`
}

type AddLineItemRequest struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitCents   int64  `json:"unit_cents"`
}

type SetTaxRateRequest struct {
	TaxRateBps int `json:"tax_rate_bps"`
}

type LineItemDTO struct {
	LineItemID  string `json:"line_item_id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitCents   int64  `json:"unit_cents"`
	AmountCents int64  `json:"amount_cents"`
}

type InvoiceDTO struct {
	InvoiceID     string        `json:"invoice_id"`
	TenantID      string        `json:"tenant_id"`
	Number        string        `json:"number,omitempty"`
	Status        string        `json:"status"`
	CurrencyCode  string        `json:"currency_code"`
	SubtotalCents int64         `json:"subtotal_cents"`
	TaxRateBps    int           `json:"tax_rate_bps"`
	TaxCents      int64         `json:"tax_cents"`
	TotalCents    int64         `json:"total_cents"`
	LineItems     []LineItemDTO `json:"line_items"`
	IssuedAt      *time.Time    `json:"issued_at,omitempty"`
	DueAt         *time.Time    `json:"due_at,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	VoidedAt      *time.Time    `json:"voided_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type CreateDraftInvoiceResponse struct {
	Invoice  InvoiceDTO `json:"invoice"`
	Replayed bool       `json:"replayed"`
}

type ListInvoicesResponse struct {
	Invoices []InvoiceDTO `json:"invoices"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
