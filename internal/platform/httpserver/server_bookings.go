package httpserver

import (
	"errors"
	"net/http"
	"time"

	tenantentities "hivedesk/contexts/identity-access/tenant-service/domain/entities"
	bookingentities "hivedesk/contexts/workspace-operations/booking-service/domain/entities"
	bookingerrors "hivedesk/contexts/workspace-operations/booking-service/domain/errors"
	bookingports "hivedesk/contexts/workspace-operations/booking-service/ports"
	bookinghttp "hivedesk/contexts/workspace-operations/booking-service/transport/http"
)

func (s *Server) registerBookingRoutes() {
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/resources", s.handleCreateResource)
	s.mux.HandleFunc("PATCH /v1/tenants/{tenant_id}/resources/{resource_id}", s.handleUpdateResource)
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/resources", s.handleListResources)

	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/bookings", s.handleCreateBooking)
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/bookings", s.handleListBookings)
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/bookings/{booking_id}", s.handleGetBooking)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/bookings/{booking_id}/cancel", s.handleCancelBooking)
}

func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin) {
		return
	}
	var req bookinghttp.CreateResourceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.bookings.Handler.CreateResourceHandler(r.Context(), r.PathValue("tenant_id"), req)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin) {
		return
	}
	var req bookinghttp.UpdateResourceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.bookings.Handler.UpdateResourceHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("resource_id"), req)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	resp, err := s.bookings.Handler.ListResourcesHandler(r.Context(), r.PathValue("tenant_id"))
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	var req bookinghttp.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// Members book for themselves; staff may book on behalf of another user.
	if req.UserID == "" || (id.Role != tenantentities.RoleOwner && id.Role != tenantentities.RoleAdmin && id.Role != tenantentities.RoleFrontDesk) {
		req.UserID = id.UserID
	}
	resp, err := s.bookings.Handler.CreateBookingHandler(r.Context(), r.Header.Get("Idempotency-Key"), r.PathValue("tenant_id"), req)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	query := r.URL.Query()
	filter := bookingports.BookingFilter{
		ResourceID: query.Get("resource_id"),
		UserID:     query.Get("user_id"),
		Status:     bookingentities.BookingStatus(query.Get("status")),
	}
	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writePlatformError(w, http.StatusBadRequest, "invalid_request", "from must be RFC 3339")
			return
		}
		filter.From = from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writePlatformError(w, http.StatusBadRequest, "invalid_request", "to must be RFC 3339")
			return
		}
		filter.To = to
	}
	resp, err := s.bookings.Handler.ListBookingsHandler(r.Context(), r.PathValue("tenant_id"), filter)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	resp, err := s.bookings.Handler.GetBookingHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("booking_id"))
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	resp, err := s.bookings.Handler.CancelBookingHandler(r.Context(), r.PathValue("tenant_id"), r.PathValue("booking_id"))
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBookingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookingerrors.ErrResourceNotFound):
		writeBookingError(w, http.StatusNotFound, "resource_not_found", err.Error())
	case errors.Is(err, bookingerrors.ErrBookingNotFound):
		writeBookingError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, bookingerrors.ErrBookingConflict):
		writeBookingError(w, http.StatusConflict, "booking_conflict", err.Error())
	case errors.Is(err, bookingerrors.ErrResourceInactive):
		writeBookingError(w, http.StatusConflict, "resource_inactive", err.Error())
	case errors.Is(err, bookingerrors.ErrBookingNotCancellable):
		writeBookingError(w, http.StatusConflict, "booking_not_cancellable", err.Error())
	case errors.Is(err, bookingerrors.ErrCancellationTooLate):
		writeBookingError(w, http.StatusConflict, "cancellation_too_late", err.Error())
	case errors.Is(err, bookingerrors.ErrIdempotencyKeyConflict):
		writeBookingError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, bookingerrors.ErrIdempotencyKeyRequired):
		writeBookingError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, bookingerrors.ErrInvalidResourceInput),
		errors.Is(err, bookingerrors.ErrInvalidBookingWindow):
		writeBookingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeBookingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBookingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, bookinghttp.ErrorResponse{Code: code, Message: message})
}
