package httpserver

import (
	"errors"
	"net/http"

	tenantentities "hivedesk/contexts/identity-access/tenant-service/domain/entities"
	visitorerrors "hivedesk/contexts/workspace-operations/visitor-service/domain/errors"
	visitorhttp "hivedesk/contexts/workspace-operations/visitor-service/transport/http"
)

func (s *Server) registerVisitorRoutes() {
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/visits", s.handleRegisterVisit)
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/visits", s.handleListVisits)
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/visits/{visit_id}", s.handleGetVisit)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/visits/{visit_id}/check-in", s.handleCheckIn)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/visits/{visit_id}/check-out", s.handleCheckOut)
}

func (s *Server) requireFrontDesk(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return "", false
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin, tenantentities.RoleFrontDesk) {
		return "", false
	}
	return id.UserID, true
}

func (s *Server) handleRegisterVisit(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireFrontDesk(w, r); !ok {
		return
	}
	var req visitorhttp.RegisterVisitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.visitors.Handler.RegisterVisitHandler(r.Context(), r.Header.Get("Idempotency-Key"), r.PathValue("tenant_id"), req)
	if err != nil {
		writeVisitorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListVisits(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireFrontDesk(w, r); !ok {
		return
	}
	query := r.URL.Query()
	resp, err := s.visitors.Handler.ListVisitsHandler(
		r.Context(),
		r.PathValue("tenant_id"),
		query.Get("status"),
		query.Get("host_user_id"),
		query.Get("day"),
	)
	if err != nil {
		writeVisitorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetVisit(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireFrontDesk(w, r); !ok {
		return
	}
	resp, err := s.visitors.Handler.GetVisitHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("visit_id"))
	if err != nil {
		writeVisitorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireFrontDesk(w, r); !ok {
		return
	}
	resp, err := s.visitors.Handler.CheckInHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("visit_id"))
	if err != nil {
		writeVisitorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireFrontDesk(w, r); !ok {
		return
	}
	resp, err := s.visitors.Handler.CheckOutHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("visit_id"))
	if err != nil {
		writeVisitorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVisitorDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, visitorerrors.ErrVisitNotFound):
		writeVisitorError(w, http.StatusNotFound, "visit_not_found", err.Error())
	case errors.Is(err, visitorerrors.ErrVisitNotExpected):
		writeVisitorError(w, http.StatusConflict, "visit_not_expected", err.Error())
	case errors.Is(err, visitorerrors.ErrVisitNotCheckedIn):
		writeVisitorError(w, http.StatusConflict, "visit_not_checked_in", err.Error())
	case errors.Is(err, visitorerrors.ErrIdempotencyKeyConflict):
		writeVisitorError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, visitorerrors.ErrIdempotencyKeyRequired):
		writeVisitorError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, visitorerrors.ErrInvalidVisitInput):
		writeVisitorError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeVisitorError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVisitorError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, visitorhttp.ErrorResponse{Code: code, Message: message})
}
