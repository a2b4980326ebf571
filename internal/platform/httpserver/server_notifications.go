package httpserver

import (
	"errors"
	"net/http"

	notificationerrors "hivedesk/contexts/member-experience/notification-service/domain/errors"
	notificationhttp "hivedesk/contexts/member-experience/notification-service/transport/http"
)

func (s *Server) registerNotificationRoutes() {
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/notifications", s.handleListNotifications)
	s.mux.HandleFunc("POST /v1/tenants/{tenant_id}/notifications/{notification_id}/read", s.handleMarkNotificationRead)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	resp, err := s.notifications.Handler.ListNotificationsHandler(r.Context(), r.PathValue("tenant_id"), id.UserID, unreadOnly)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.MarkReadHandler(r.Context(), r.PathValue("tenant_id"), id.UserID, r.PathValue("notification_id"))
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeNotificationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notificationerrors.ErrNotificationNotFound):
		writeNotificationError(w, http.StatusNotFound, "notification_not_found", err.Error())
	case errors.Is(err, notificationerrors.ErrNotificationNotReadable):
		writeNotificationError(w, http.StatusConflict, "notification_not_readable", err.Error())
	case errors.Is(err, notificationerrors.ErrInvalidNotificationInput):
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeNotificationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeNotificationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, notificationhttp.ErrorResponse{Code: code, Message: message})
}
