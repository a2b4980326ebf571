package httpserver

import (
	"errors"
	"net/http"

	tenantentities "hivedesk/contexts/identity-access/tenant-service/domain/entities"
	tenanterrors "hivedesk/contexts/identity-access/tenant-service/domain/errors"
	tenanthttp "hivedesk/contexts/identity-access/tenant-service/transport/http"
)

func (s *Server) registerTenantRoutes() {
	s.mux.HandleFunc("POST /v1/tenants", s.handleCreateTenant)
	s.mux.HandleFunc("GET /v1/tenants", s.handleListTenants)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/suspend", s.handleSuspendTenant)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/reinstate", s.handleReinstateTenant)
	s.mux.HandleFunc("POST /v1/access/resolve", s.handleResolveAccess)

	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}", s.handleGetTenant)
	s.mux.HandleFunc("PATCH /v1/tenants/{tenant_id}", s.handleUpdateTenant)
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/memberships", s.handleListMemberships)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/memberships", s.handleAddMembership)
	s.mux.HandleFunc("DELETE /v1/tenants/{tenant_id}/memberships/{user_id}", s.handleRemoveMembership)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/memberships/{user_id}/role", s.handleChangeRole)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/memberships/{user_id}/suspend", s.handleSuspendMembership)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/memberships/{user_id}/reinstate", s.handleReinstateMembership)
}

func (s *Server) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req tenanthttp.CreateTenantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tenants.Handler.CreateTenantHandler(r.Context(), r.Header.Get("Idempotency-Key"), req)
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	query := r.URL.Query()
	resp, err := s.tenants.Handler.ListTenantsHandler(r.Context(), query.Get("status"), query.Get("plan"))
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSuspendTenant(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	resp, err := s.tenants.Handler.SuspendTenantHandler(r.Context(), r.PathValue("tenant_id"))
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReinstateTenant(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	resp, err := s.tenants.Handler.ReinstateTenantHandler(r.Context(), r.PathValue("tenant_id"))
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleResolveAccess is a service-to-service endpoint; callers hold the
// admin key, not a member session.
func (s *Server) handleResolveAccess(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req tenanthttp.ResolveAccessRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tenants.Handler.ResolveAccessHandler(r.Context(), req)
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	resp, err := s.tenants.Handler.GetTenantHandler(r.Context(), r.PathValue("tenant_id"))
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin) {
		return
	}
	var req tenanthttp.UpdateTenantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tenants.Handler.UpdateTenantHandler(r.Context(), r.PathValue("tenant_id"), req)
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMemberships(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	resp, err := s.tenants.Handler.ListMembershipsHandler(r.Context(), r.PathValue("tenant_id"))
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin) {
		return
	}
	var req tenanthttp.AddMembershipRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tenants.Handler.AddMembershipHandler(r.Context(), r.PathValue("tenant_id"), req)
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRemoveMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin) {
		return
	}
	resp, err := s.tenants.Handler.RemoveMembershipHandler(
		r.Context(),
		r.Header.Get("Idempotency-Key"),
		r.PathValue("tenant_id"),
		r.PathValue("user_id"),
	)
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin) {
		return
	}
	var req tenanthttp.ChangeRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.tenants.Handler.ChangeRoleHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("user_id"), req)
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSuspendMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin) {
		return
	}
	resp, err := s.tenants.Handler.SuspendMembershipHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("user_id"))
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReinstateMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin) {
		return
	}
	resp, err := s.tenants.Handler.ReinstateMembershipHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("user_id"))
	if err != nil {
		writeTenantDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeTenantDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tenanterrors.ErrTenantNotFound):
		writeTenantError(w, http.StatusNotFound, "tenant_not_found", err.Error())
	case errors.Is(err, tenanterrors.ErrMembershipNotFound):
		writeTenantError(w, http.StatusNotFound, "membership_not_found", err.Error())
	case errors.Is(err, tenanterrors.ErrTenantSuspended):
		writeTenantError(w, http.StatusConflict, "tenant_suspended", err.Error())
	case errors.Is(err, tenanterrors.ErrSlugTaken):
		writeTenantError(w, http.StatusConflict, "slug_taken", err.Error())
	case errors.Is(err, tenanterrors.ErrMembershipExists):
		writeTenantError(w, http.StatusConflict, "membership_exists", err.Error())
	case errors.Is(err, tenanterrors.ErrLastOwner):
		writeTenantError(w, http.StatusConflict, "last_owner", err.Error())
	case errors.Is(err, tenanterrors.ErrIdempotencyKeyConflict):
		writeTenantError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, tenanterrors.ErrIdempotencyKeyRequired):
		writeTenantError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, tenanterrors.ErrInvalidTenantInput),
		errors.Is(err, tenanterrors.ErrInvalidMembershipInput):
		writeTenantError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeTenantError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeTenantError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, tenanthttp.ErrorResponse{Code: code, Message: message})
}
