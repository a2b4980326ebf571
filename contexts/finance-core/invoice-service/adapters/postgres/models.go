package postgresadapter

import (
	"strings"
	"time"

	"hivedesk/contexts/finance-core/invoice-service/domain/entities"
)

type invoiceModel struct {
	InvoiceID     string `gorm:"primaryKey;column:invoice_id"`
	TenantID      string `gorm:"index"`
	Number        string `gorm:"uniqueIndex"`
	Status        string
	CurrencyCode  string
	SubtotalCents int64
	TaxRateBps    int
	TaxCents      int64
	TotalCents    int64
	IssuedAt      *time.Time
	DueAt         *time.Time
	PaidAt        *time.Time
	VoidedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (invoiceModel) TableName() string {
	return "invoices"
}

func invoiceModelFromEntity(item entities.Invoice) invoiceModel {
	return invoiceModel{
		InvoiceID:     strings.TrimSpace(item.InvoiceID),
		TenantID:      strings.TrimSpace(item.TenantID),
		Number:        strings.TrimSpace(item.Number),
		Status:        string(item.Status),
		CurrencyCode:  strings.TrimSpace(item.CurrencyCode),
		SubtotalCents: item.SubtotalCents,
		TaxRateBps:    item.TaxRateBps,
		TaxCents:      item.TaxCents,
		TotalCents:    item.TotalCents,
		IssuedAt:      normalizeOptionalTime(item.IssuedAt),
		DueAt:         normalizeOptionalTime(item.DueAt),
		PaidAt:        normalizeOptionalTime(item.PaidAt),
		VoidedAt:      normalizeOptionalTime(item.VoidedAt),
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}

func (m invoiceModel) toEntity() entities.Invoice {
	return entities.Invoice{
		InvoiceID:     m.InvoiceID,
		TenantID:      m.TenantID,
		Number:        m.Number,
		Status:        entities.InvoiceStatus(m.Status),
		CurrencyCode:  m.CurrencyCode,
		SubtotalCents: m.SubtotalCents,
		TaxRateBps:    m.TaxRateBps,
		TaxCents:      m.TaxCents,
		TotalCents:    m.TotalCents,
		LineItems:     []entities.LineItem{},
		IssuedAt:      normalizeOptionalTime(m.IssuedAt),
		DueAt:         normalizeOptionalTime(m.DueAt),
		PaidAt:        normalizeOptionalTime(m.PaidAt),
		VoidedAt:      normalizeOptionalTime(m.VoidedAt),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type lineItemModel struct {
	LineItemID  string `gorm:"primaryKey;column:line_item_id"`
	InvoiceID   string `gorm:"index"`
	Description string
	Quantity    int
	UnitCents   int64
	AmountCents int64
}

func (lineItemModel) TableName() string {
	return "invoice_line_items"
}

func lineItemModelFromEntity(item entities.LineItem) lineItemModel {
	return lineItemModel{
		LineItemID:  strings.TrimSpace(item.LineItemID),
		InvoiceID:   strings.TrimSpace(item.InvoiceID),
		Description: strings.TrimSpace(item.Description),
		Quantity:    item.Quantity,
		UnitCents:   item.UnitCents,
		AmountCents: item.AmountCents,
	}
}

func (m lineItemModel) toEntity() entities.LineItem {
	return entities.LineItem{
		LineItemID:  m.LineItemID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitCents:   m.UnitCents,
		AmountCents: m.AmountCents,
	}
}

type invoiceSequenceModel struct {
	TenantID string `gorm:"primaryKey"`
	Year     int    `gorm:"primaryKey"`
	Value    int
}

func (invoiceSequenceModel) TableName() string {
	return "invoice_number_sequences"
}

type billingSettingsModel struct {
	TenantID   string `gorm:"primaryKey"`
	TaxRateBps int
}

func (billingSettingsModel) TableName() string {
	return "billing_settings"
}

type idempotencyModel struct {
	Key             string `gorm:"primaryKey"`
	Operation       string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

func (idempotencyModel) TableName() string {
	return "invoice_idempotency_records"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil || value.IsZero() {
		return nil
	}
	utc := value.UTC()
	return &utc
}
