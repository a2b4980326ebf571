package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"hivedesk/contexts/finance-core/invoice-service/domain/entities"
	domainerrors "hivedesk/contexts/finance-core/invoice-service/domain/errors"
	"hivedesk/contexts/finance-core/invoice-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the invoice repository and
// idempotency ports.
type Store struct {
	mu sync.RWMutex

	invoices    map[string]entities.Invoice
	sequences   map[string]int
	taxRates    map[string]int
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		invoices:    make(map[string]entities.Invoice),
		sequences:   make(map[string]int),
		taxRates:    make(map[string]int),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) CreateInvoice(_ context.Context, invoice entities.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invoices[invoice.InvoiceID] = cloneInvoice(invoice)
	return nil
}

func (s *Store) GetInvoice(_ context.Context, tenantID, invoiceID string) (entities.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoice, ok := s.invoices[invoiceID]
	if !ok || invoice.TenantID != tenantID {
		return entities.Invoice{}, domainerrors.ErrInvoiceNotFound
	}
	return cloneInvoice(invoice), nil
}

func (s *Store) ListInvoices(_ context.Context, tenantID string, filter ports.InvoiceFilter) ([]entities.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Invoice, 0)
	for _, invoice := range s.invoices {
		if invoice.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && invoice.Status != filter.Status {
			continue
		}
		items = append(items, cloneInvoice(invoice))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) SaveDraft(_ context.Context, invoice entities.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.invoices[invoice.InvoiceID]
	if !ok || existing.TenantID != invoice.TenantID {
		return domainerrors.ErrInvoiceNotFound
	}
	s.invoices[invoice.InvoiceID] = cloneInvoice(invoice)
	return nil
}

func (s *Store) Issue(_ context.Context, tenantID, invoiceID string, issuedAt, dueAt time.Time) (entities.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice, ok := s.invoices[invoiceID]
	if !ok || invoice.TenantID != tenantID {
		return entities.Invoice{}, domainerrors.ErrInvoiceNotFound
	}
	if invoice.Status != entities.InvoiceStatusDraft {
		return entities.Invoice{}, domainerrors.ErrInvoiceNotDraft
	}

	year := issuedAt.UTC().Year()
	key := tenantID + ":" + strconv.Itoa(year)
	s.sequences[key]++

	issued := issuedAt.UTC()
	due := dueAt.UTC()
	invoice.Number = entities.FormatNumber(year, s.sequences[key])
	invoice.Status = entities.InvoiceStatusIssued
	invoice.IssuedAt = &issued
	invoice.DueAt = &due
	invoice.UpdatedAt = issued
	s.invoices[invoiceID] = cloneInvoice(invoice)
	return cloneInvoice(invoice), nil
}

func (s *Store) UpdateStatus(_ context.Context, invoice entities.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.invoices[invoice.InvoiceID]
	if !ok || existing.TenantID != invoice.TenantID {
		return domainerrors.ErrInvoiceNotFound
	}
	s.invoices[invoice.InvoiceID] = cloneInvoice(invoice)
	return nil
}

func (s *Store) GetTaxRateBps(_ context.Context, tenantID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.taxRates[tenantID], nil
}

func (s *Store) SetTaxRateBps(_ context.Context, tenantID string, rateBps int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.taxRates[tenantID] = rateBps
	return nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.idempotency[key]
	if !ok || record.ExpiresAt.Before(now) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.idempotency[record.Key] = record
	return nil
}

func cloneInvoice(invoice entities.Invoice) entities.Invoice {
	clone := invoice
	clone.LineItems = append([]entities.LineItem(nil), invoice.LineItems...)
	return clone
}
