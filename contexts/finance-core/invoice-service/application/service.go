package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"hivedesk/contexts/finance-core/invoice-service/domain/entities"
	domainerrors "hivedesk/contexts/finance-core/invoice-service/domain/errors"
	"hivedesk/contexts/finance-core/invoice-service/ports"
)

const defaultCurrencyCode = "USD"

// Service drives the invoice state machine: draft to issued to paid, with
// void available from draft or issued.
type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type CreateDraftInput struct {
	IdempotencyKey string
	TenantID       string
	CurrencyCode   string
}

// CreateDraftResult captures the invoice and replay status.
type CreateDraftResult struct {
	Invoice  entities.Invoice `json:"invoice"`
	Replayed bool             `json:"replayed"`
}

func (s Service) CreateDraftInvoice(ctx context.Context, input CreateDraftInput) (CreateDraftResult, error) {
	logger := ResolveLogger(s.Logger)

	if strings.TrimSpace(input.IdempotencyKey) == "" {
		return CreateDraftResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	tenantID := strings.TrimSpace(input.TenantID)
	if tenantID == "" {
		return CreateDraftResult{}, domainerrors.ErrInvalidInvoiceInput
	}
	currency := strings.ToUpper(strings.TrimSpace(input.CurrencyCode))
	if currency == "" {
		currency = defaultCurrencyCode
	}
	if len(currency) != 3 {
		return CreateDraftResult{}, domainerrors.ErrInvalidInvoiceInput
	}

	now := s.now()
	requestHash := hashRequest(tenantID + "|" + currency)
	idempotencyKey := "invoice_draft:" + input.IdempotencyKey
	existing, found, err := s.Idempotency.GetRecord(ctx, idempotencyKey, now)
	if err != nil {
		return CreateDraftResult{}, err
	}
	if found {
		if existing.RequestHash != requestHash {
			return CreateDraftResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var replay CreateDraftResult
		if err := json.Unmarshal(existing.ResponsePayload, &replay); err != nil {
			return CreateDraftResult{}, err
		}
		replay.Replayed = true
		return replay, nil
	}

	taxRateBps, err := s.Repo.GetTaxRateBps(ctx, tenantID)
	if err != nil {
		return CreateDraftResult{}, err
	}

	invoiceID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateDraftResult{}, err
	}

	invoice := entities.Invoice{
		InvoiceID:    invoiceID,
		TenantID:     tenantID,
		Status:       entities.InvoiceStatusDraft,
		CurrencyCode: currency,
		TaxRateBps:   taxRateBps,
		LineItems:    []entities.LineItem{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.CreateInvoice(ctx, invoice); err != nil {
		return CreateDraftResult{}, err
	}

	result := CreateDraftResult{Invoice: invoice}
	responsePayload, err := json.Marshal(result)
	if err != nil {
		return CreateDraftResult{}, err
	}
	if err := s.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             idempotencyKey,
		Operation:       "create_draft_invoice",
		RequestHash:     requestHash,
		ResponsePayload: responsePayload,
		ExpiresAt:       now.Add(s.idempotencyTTL()),
	}); err != nil {
		return CreateDraftResult{}, err
	}

	logger.Info("draft invoice created",
		"event", "invoice_draft_created",
		"module", "finance-core/invoice-service",
		"layer", "application",
		"tenant_id", invoice.TenantID,
		"invoice_id", invoice.InvoiceID,
	)
	return result, nil
}

type AddLineItemInput struct {
	TenantID    string
	InvoiceID   string
	Description string
	Quantity    int
	UnitCents   int64
}

func (s Service) AddLineItem(ctx context.Context, input AddLineItemInput) (entities.Invoice, error) {
	if strings.TrimSpace(input.Description) == "" || input.Quantity <= 0 || input.UnitCents < 0 {
		return entities.Invoice{}, domainerrors.ErrInvalidInvoiceInput
	}

	invoice, err := s.Repo.GetInvoice(ctx, input.TenantID, input.InvoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if invoice.Status != entities.InvoiceStatusDraft {
		return entities.Invoice{}, domainerrors.ErrInvoiceNotDraft
	}

	lineItemID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Invoice{}, err
	}

	invoice.LineItems = append(invoice.LineItems, entities.LineItem{
		LineItemID:  lineItemID,
		InvoiceID:   invoice.InvoiceID,
		Description: strings.TrimSpace(input.Description),
		Quantity:    input.Quantity,
		UnitCents:   input.UnitCents,
		AmountCents: int64(input.Quantity) * input.UnitCents,
	})
	invoice.RecomputeTotals()
	invoice.UpdatedAt = s.now()

	if err := s.Repo.SaveDraft(ctx, invoice); err != nil {
		return entities.Invoice{}, err
	}
	return invoice, nil
}

func (s Service) RemoveLineItem(ctx context.Context, tenantID, invoiceID, lineItemID string) (entities.Invoice, error) {
	invoice, err := s.Repo.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if invoice.Status != entities.InvoiceStatusDraft {
		return entities.Invoice{}, domainerrors.ErrInvoiceNotDraft
	}

	kept := invoice.LineItems[:0]
	removed := false
	for _, item := range invoice.LineItems {
		if item.LineItemID == lineItemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return entities.Invoice{}, domainerrors.ErrLineItemNotFound
	}
	invoice.LineItems = kept
	invoice.RecomputeTotals()
	invoice.UpdatedAt = s.now()

	if err := s.Repo.SaveDraft(ctx, invoice); err != nil {
		return entities.Invoice{}, err
	}
	return invoice, nil
}

// IssueInvoice assigns the tenant-sequential number and stamps net-30 terms.
// Empty drafts cannot be issued.
func (s Service) IssueInvoice(ctx context.Context, tenantID, invoiceID string) (entities.Invoice, error) {
	logger := ResolveLogger(s.Logger)

	invoice, err := s.Repo.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if invoice.Status != entities.InvoiceStatusDraft {
		return entities.Invoice{}, domainerrors.ErrInvoiceNotDraft
	}
	if len(invoice.LineItems) == 0 {
		return entities.Invoice{}, domainerrors.ErrInvoiceEmpty
	}

	now := s.now()
	issued, err := s.Repo.Issue(ctx, tenantID, invoiceID, now, now.Add(entities.NetTermsDays*24*time.Hour))
	if err != nil {
		return entities.Invoice{}, err
	}

	logger.Info("invoice issued",
		"event", "invoice_issued",
		"module", "finance-core/invoice-service",
		"layer", "application",
		"tenant_id", issued.TenantID,
		"invoice_id", issued.InvoiceID,
		"number", issued.Number,
		"total_cents", issued.TotalCents,
	)
	return issued, nil
}

func (s Service) MarkInvoicePaid(ctx context.Context, tenantID, invoiceID string) (entities.Invoice, error) {
	invoice, err := s.Repo.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if invoice.Status == entities.InvoiceStatusPaid {
		return invoice, nil
	}
	if invoice.Status != entities.InvoiceStatusIssued {
		return entities.Invoice{}, domainerrors.ErrInvoiceNotIssued
	}

	now := s.now()
	invoice.Status = entities.InvoiceStatusPaid
	invoice.PaidAt = &now
	invoice.UpdatedAt = now
	if err := s.Repo.UpdateStatus(ctx, invoice); err != nil {
		return entities.Invoice{}, err
	}
	return invoice, nil
}

// VoidInvoice cancels a draft or issued invoice. Paid invoices are final.
func (s Service) VoidInvoice(ctx context.Context, tenantID, invoiceID string) (entities.Invoice, error) {
	invoice, err := s.Repo.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if invoice.Status == entities.InvoiceStatusVoid {
		return invoice, nil
	}
	if invoice.Status != entities.InvoiceStatusDraft && invoice.Status != entities.InvoiceStatusIssued {
		return entities.Invoice{}, domainerrors.ErrInvoiceNotVoidable
	}

	now := s.now()
	invoice.Status = entities.InvoiceStatusVoid
	invoice.VoidedAt = &now
	invoice.UpdatedAt = now
	if err := s.Repo.UpdateStatus(ctx, invoice); err != nil {
		return entities.Invoice{}, err
	}
	return invoice, nil
}

func (s Service) GetInvoice(ctx context.Context, tenantID, invoiceID string) (entities.Invoice, error) {
	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(invoiceID) == "" {
		return entities.Invoice{}, domainerrors.ErrInvoiceNotFound
	}
	return s.Repo.GetInvoice(ctx, tenantID, invoiceID)
}

func (s Service) ListInvoices(ctx context.Context, tenantID string, filter ports.InvoiceFilter) ([]entities.Invoice, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domainerrors.ErrInvalidInvoiceInput
	}
	return s.Repo.ListInvoices(ctx, tenantID, filter)
}

func (s Service) SetTaxRate(ctx context.Context, tenantID string, rateBps int) error {
	if strings.TrimSpace(tenantID) == "" || rateBps < 0 || rateBps > 10000 {
		return domainerrors.ErrInvalidInvoiceInput
	}
	return s.Repo.SetTaxRateBps(ctx, strings.TrimSpace(tenantID), rateBps)
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func hashRequest(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
