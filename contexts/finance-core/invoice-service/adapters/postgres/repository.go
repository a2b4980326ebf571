package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hivedesk/contexts/finance-core/invoice-service/domain/entities"
	domainerrors "hivedesk/contexts/finance-core/invoice-service/domain/errors"
	"hivedesk/contexts/finance-core/invoice-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateInvoice(ctx context.Context, invoice entities.Invoice) error {
	row := invoiceModelFromEntity(invoice)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetInvoice(ctx context.Context, tenantID, invoiceID string) (entities.Invoice, error) {
	var row invoiceModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_id = ?", strings.TrimSpace(tenantID), strings.TrimSpace(invoiceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Invoice{}, domainerrors.ErrInvoiceNotFound
		}
		return entities.Invoice{}, err
	}

	invoice := row.toEntity()
	items, err := r.loadLineItems(ctx, invoice.InvoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}
	invoice.LineItems = items
	return invoice, nil
}

func (r *Repository) ListInvoices(ctx context.Context, tenantID string, filter ports.InvoiceFilter) ([]entities.Invoice, error) {
	tx := r.db.WithContext(ctx).
		Model(&invoiceModel{}).
		Where("tenant_id = ?", strings.TrimSpace(tenantID))
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []invoiceModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Invoice, 0, len(rows))
	for _, row := range rows {
		invoice := row.toEntity()
		lineItems, err := r.loadLineItems(ctx, invoice.InvoiceID)
		if err != nil {
			return nil, err
		}
		invoice.LineItems = lineItems
		items = append(items, invoice)
	}
	return items, nil
}

// SaveDraft rewrites the line item set and totals in one transaction.
func (r *Repository) SaveDraft(ctx context.Context, invoice entities.Invoice) error {
	row := invoiceModelFromEntity(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&invoiceModel{}).
			Where("tenant_id = ? AND invoice_id = ? AND status = ?",
				row.TenantID, row.InvoiceID, string(entities.InvoiceStatusDraft)).
			Updates(map[string]any{
				"subtotal_cents": row.SubtotalCents,
				"tax_cents":      row.TaxCents,
				"total_cents":    row.TotalCents,
				"updated_at":     row.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrInvoiceNotFound
		}

		if err := tx.
			Where("invoice_id = ?", row.InvoiceID).
			Delete(&lineItemModel{}).
			Error; err != nil {
			return err
		}
		for _, item := range invoice.LineItems {
			itemRow := lineItemModelFromEntity(item)
			if err := tx.Create(&itemRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Issue locks the per-tenant per-year sequence row, assigns the next number,
// and flips the invoice to issued, all in one transaction.
func (r *Repository) Issue(ctx context.Context, tenantID, invoiceID string, issuedAt, dueAt time.Time) (entities.Invoice, error) {
	var issued entities.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row invoiceModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND invoice_id = ?", strings.TrimSpace(tenantID), strings.TrimSpace(invoiceID)).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrInvoiceNotFound
			}
			return err
		}
		if row.Status != string(entities.InvoiceStatusDraft) {
			return domainerrors.ErrInvoiceNotDraft
		}

		year := issuedAt.UTC().Year()
		var sequence int
		err = tx.
			Raw(`INSERT INTO invoice_number_sequences (tenant_id, year, value)
				VALUES (?, ?, 1)
				ON CONFLICT (tenant_id, year)
				DO UPDATE SET value = invoice_number_sequences.value + 1
				RETURNING value`,
				row.TenantID, year).
			Scan(&sequence).
			Error
		if err != nil {
			return err
		}

		at := issuedAt.UTC()
		due := dueAt.UTC()
		number := entities.FormatNumber(year, sequence)
		result := tx.
			Model(&invoiceModel{}).
			Where("invoice_id = ?", row.InvoiceID).
			Updates(map[string]any{
				"number":     number,
				"status":     string(entities.InvoiceStatusIssued),
				"issued_at":  &at,
				"due_at":     &due,
				"updated_at": at,
			})
		if result.Error != nil {
			return result.Error
		}

		row.Number = number
		row.Status = string(entities.InvoiceStatusIssued)
		row.IssuedAt = &at
		row.DueAt = &due
		row.UpdatedAt = at
		issued = row.toEntity()

		items, err := loadLineItemsTx(tx, row.InvoiceID)
		if err != nil {
			return err
		}
		issued.LineItems = items
		return nil
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	return issued, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, invoice entities.Invoice) error {
	row := invoiceModelFromEntity(invoice)
	result := r.db.WithContext(ctx).
		Model(&invoiceModel{}).
		Where("tenant_id = ? AND invoice_id = ?", row.TenantID, row.InvoiceID).
		Updates(map[string]any{
			"status":     row.Status,
			"paid_at":    row.PaidAt,
			"voided_at":  row.VoidedAt,
			"updated_at": row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvoiceNotFound
	}
	return nil
}

func (r *Repository) GetTaxRateBps(ctx context.Context, tenantID string) (int, error) {
	var row billingSettingsModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", strings.TrimSpace(tenantID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.TaxRateBps, nil
}

func (r *Repository) SetTaxRateBps(ctx context.Context, tenantID string, rateBps int) error {
	row := billingSettingsModel{TenantID: strings.TrimSpace(tenantID), TaxRateBps: rateBps}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tax_rate_bps"}),
		}).
		Create(&row).
		Error
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return ports.IdempotencyRecord{
		Key:             row.Key,
		Operation:       row.Operation,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		Operation:       record.Operation,
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != row.RequestHash {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

func (r *Repository) loadLineItems(ctx context.Context, invoiceID string) ([]entities.LineItem, error) {
	return loadLineItemsTx(r.db.WithContext(ctx), invoiceID)
}

func loadLineItemsTx(tx *gorm.DB, invoiceID string) ([]entities.LineItem, error) {
	var rows []lineItemModel
	if err := tx.
		Where("invoice_id = ?", invoiceID).
		Order("line_item_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}
