package httpserver

import (
	"errors"
	"net/http"

	invoiceerrors "hivedesk/contexts/finance-core/invoice-service/domain/errors"
	invoicehttp "hivedesk/contexts/finance-core/invoice-service/transport/http"
	tenantentities "hivedesk/contexts/identity-access/tenant-service/domain/entities"
)

func (s *Server) registerInvoiceRoutes() {
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/invoices", s.handleCreateDraftInvoice)
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/invoices", s.handleListInvoices)
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/invoices/{invoice_id}", s.handleGetInvoice)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/invoices/{invoice_id}/line-items", s.handleAddLineItem)
	s.mux.HandleFunc("DELETE /v1/tenants/{tenant_id}/invoices/{invoice_id}/line-items/{line_item_id}", s.handleRemoveLineItem)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/invoices/{invoice_id}/issue", s.handleIssueInvoice)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/invoices/{invoice_id}/pay", s.handleMarkInvoicePaid)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/invoices/{invoice_id}/void", s.handleVoidInvoice)
	s.mux.HandleFunc("PUT /v1/tenants/{tenant_id}/billing/tax-rate", s.handleSetTaxRate)
}

func (s *Server) requireBilling(w http.ResponseWriter, r *http.Request) bool {
	id, ok := s.authenticate(w, r)
	if !ok {
		return false
	}
	return requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin)
}

func (s *Server) handleCreateDraftInvoice(w http.ResponseWriter, r *http.Request) {
	if !s.requireBilling(w, r) {
		return
	}
	var req invoicehttp.CreateDraftInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.invoices.Handler.CreateDraftInvoiceHandler(r.Context(), r.Header.Get("Idempotency-Key"), r.PathValue("tenant_id"), req)
	if err != nil {
		writeInvoiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	if !s.requireBilling(w, r) {
		return
	}
	resp, err := s.invoices.Handler.ListInvoicesHandler(r.Context(), r.PathValue("tenant_id"), r.URL.Query().Get("status"))
	if err != nil {
		writeInvoiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	if !s.requireBilling(w, r) {
		return
	}
	resp, err := s.invoices.Handler.GetInvoiceHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("invoice_id"))
	if err != nil {
		writeInvoiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddLineItem(w http.ResponseWriter, r *http.Request) {
	if !s.requireBilling(w, r) {
		return
	}
	var req invoicehttp.AddLineItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.invoices.Handler.AddLineItemHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("invoice_id"), req)
	if err != nil {
		writeInvoiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveLineItem(w http.ResponseWriter, r *http.Request) {
	if !s.requireBilling(w, r) {
		return
	}
	resp, err := s.invoices.Handler.RemoveLineItemHandler(
		r.Context(),
		r.PathValue("tenant_id"),
		r.PathValue("invoice_id"),
		r.PathValue("line_item_id"),
	)
	if err != nil {
		writeInvoiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIssueInvoice(w http.ResponseWriter, r *http.Request) {
	if !s.requireBilling(w, r) {
		return
	}
	resp, err := s.invoices.Handler.IssueInvoiceHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("invoice_id"))
	if err != nil {
		writeInvoiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkInvoicePaid(w http.ResponseWriter, r *http.Request) {
	if !s.requireBilling(w, r) {
		return
	}
	resp, err := s.invoices.Handler.MarkInvoicePaidHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("invoice_id"))
	if err != nil {
		writeInvoiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoidInvoice(w http.ResponseWriter, r *http.Request) {
	if !s.requireBilling(w, r) {
		return
	}
	resp, err := s.invoices.Handler.VoidInvoiceHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("invoice_id"))
	if err != nil {
		writeInvoiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetTaxRate(w http.ResponseWriter, r *http.Request) {
	if !s.requireBilling(w, r) {
		return
	}
	var req invoicehttp.SetTaxRateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.invoices.Handler.SetTaxRateHandler(r.Context(), r.PathValue("tenant_id"), req); err != nil {
		writeInvoiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func writeInvoiceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, invoiceerrors.ErrInvoiceNotFound):
		writeInvoiceError(w, http.StatusNotFound, "invoice_not_found", err.Error())
	case errors.Is(err, invoiceerrors.ErrLineItemNotFound):
		writeInvoiceError(w, http.StatusNotFound, "line_item_not_found", err.Error())
	case errors.Is(err, invoiceerrors.ErrInvoiceNotDraft):
		writeInvoiceError(w, http.StatusConflict, "invoice_not_draft", err.Error())
	case errors.Is(err, invoiceerrors.ErrInvoiceNotIssued):
		writeInvoiceError(w, http.StatusConflict, "invoice_not_issued", err.Error())
	case errors.Is(err, invoiceerrors.ErrInvoiceNotVoidable):
		writeInvoiceError(w, http.StatusConflict, "invoice_not_voidable", err.Error())
	case errors.Is(err, invoiceerrors.ErrInvoiceEmpty):
		writeInvoiceError(w, http.StatusConflict, "invoice_empty", err.Error())
	case errors.Is(err, invoiceerrors.ErrIdempotencyKeyConflict):
		writeInvoiceError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, invoiceerrors.ErrIdempotencyKeyRequired):
		writeInvoiceError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, invoiceerrors.ErrInvalidInvoiceInput):
		writeInvoiceError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeInvoiceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeInvoiceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, invoicehttp.ErrorResponse{Code: code, Message: message})
}
