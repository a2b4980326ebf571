package httpadapter

import (
	"context"
	"log/slog"

	application "hivedesk/contexts/finance-core/invoice-service/application"
	"hivedesk/contexts/finance-core/invoice-service/domain/entities"
	"hivedesk/contexts/finance-core/invoice-service/ports"
	httptransport "hivedesk/contexts/finance-core/invoice-service/transport/http"
)

// Handler maps HTTP DTOs to the invoice service.
type Handler struct {
	Invoices application.Service
	Logger   *slog.Logger
}

func (h Handler) CreateDraftInvoiceHandler(
	ctx context.Context,
	idempotencyKey string,
	tenantID string,
	request httptransport.CreateDraftInvoiceRequest,
) (httptransport.CreateDraftInvoiceResponse, error) {
	result, err := h.Invoices.CreateDraftInvoice(ctx, application.CreateDraftInput{
		IdempotencyKey: idempotencyKey,
		TenantID:       tenantID,
		CurrencyCode:   request.CurrencyCode,
	})
	if err != nil {
		return httptransport.CreateDraftInvoiceResponse{}, err
	}
	return httptransport.CreateDraftInvoiceResponse{
		Invoice:  invoiceDTO(result.Invoice),
		Replayed: result.Replayed,
	}, nil
}

func (h Handler) AddLineItemHandler(
	ctx context.Context,
	tenantID string,
	invoiceID string,
	request httptransport.AddLineItemRequest,
) (httptransport.InvoiceDTO, error) {
	invoice, err := h.Invoices.AddLineItem(ctx, application.AddLineItemInput{
		TenantID:    tenantID,
		InvoiceID:   invoiceID,
		Description: request.Description,
		Quantity:    request.Quantity,
		UnitCents:   request.UnitCents,
	})
	if err != nil {
		return httptransport.InvoiceDTO{}, err
	}
	return invoiceDTO(invoice), nil
}

func (h Handler) RemoveLineItemHandler(ctx context.Context, tenantID, invoiceID, lineItemID string) (httptransport.InvoiceDTO, error) {
	invoice, err := h.Invoices.RemoveLineItem(ctx, tenantID, invoiceID, lineItemID)
	if err != nil {
		return httptransport.InvoiceDTO{}, err
	}
	return invoiceDTO(invoice), nil
}

func (h Handler) IssueInvoiceHandler(ctx context.Context, tenantID, invoiceID string) (httptransport.InvoiceDTO, error) {
	invoice, err := h.Invoices.IssueInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return httptransport.InvoiceDTO{}, err
	}
	return invoiceDTO(invoice), nil
}

func (h Handler) MarkInvoicePaidHandler(ctx context.Context, tenantID, invoiceID string) (httptransport.InvoiceDTO, error) {
	invoice, err := h.Invoices.MarkInvoicePaid(ctx, tenantID, invoiceID)
	if err != nil {
		return httptransport.InvoiceDTO{}, err
	}
	return invoiceDTO(invoice), nil
}

func (h Handler) VoidInvoiceHandler(ctx context.Context, tenantID, invoiceID string) (httptransport.InvoiceDTO, error) {
	invoice, err := h.Invoices.VoidInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return httptransport.InvoiceDTO{}, err
	}
	return invoiceDTO(invoice), nil
}

func (h Handler) GetInvoiceHandler(ctx context.Context, tenantID, invoiceID string) (httptransport.InvoiceDTO, error) {
	invoice, err := h.Invoices.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return httptransport.InvoiceDTO{}, err
	}
	return invoiceDTO(invoice), nil
}

func (h Handler) ListInvoicesHandler(ctx context.Context, tenantID, status string) (httptransport.ListInvoicesResponse, error) {
	invoices, err := h.Invoices.ListInvoices(ctx, tenantID, ports.InvoiceFilter{
		Status: entities.InvoiceStatus(status),
	})
	if err != nil {
		return httptransport.ListInvoicesResponse{}, err
	}

	items := make([]httptransport.InvoiceDTO, 0, len(invoices))
	for _, invoice := range invoices {
		items = append(items, invoiceDTO(invoice))
	}
	return httptransport.ListInvoicesResponse{Invoices: items}, nil
}

func (h Handler) SetTaxRateHandler(
	ctx context.Context,
	tenantID string,
	request httptransport.SetTaxRateRequest,
) error {
	return h.Invoices.SetTaxRate(ctx, tenantID, request.TaxRateBps)
}

func invoiceDTO(item entities.Invoice) httptransport.InvoiceDTO {
	lineItems := make([]httptransport.LineItemDTO, 0, len(item.LineItems))
	for _, lineItem := range item.LineItems {
		lineItems = append(lineItems, httptransport.LineItemDTO{
			LineItemID:  lineItem.LineItemID,
			Description: lineItem.Description,
			Quantity:    lineItem.Quantity,
			UnitCents:   lineItem.UnitCents,
			AmountCents: lineItem.AmountCents,
		})
	}
	return httptransport.InvoiceDTO{
		InvoiceID:     item.InvoiceID,
		TenantID:      item.TenantID,
		Number:        item.Number,
		Status:        string(item.Status),
		CurrencyCode:  item.CurrencyCode,
		SubtotalCents: item.SubtotalCents,
		TaxRateBps:    item.TaxRateBps,
		TaxCents:      item.TaxCents,
		TotalCents:    item.TotalCents,
		LineItems:     lineItems,
		IssuedAt:      item.IssuedAt,
		DueAt:         item.DueAt,
		PaidAt:        item.PaidAt,
		VoidedAt:      item.VoidedAt,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}
