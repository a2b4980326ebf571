package httpserver

import (
	"errors"
	"net/http"
	"time"

	tenantentities "hivedesk/contexts/identity-access/tenant-service/domain/entities"
	"hivedesk/contexts/internal-ops/reporting-service/application/queries"
)

func (s *Server) registerReportRoutes() {
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/reports/occupancy", s.handleOccupancyReport)
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/reports/revenue", s.handleRevenueReport)
	s.mux.HandleFunc("GET /v1/tenants/{tenant_id}/reports/visitor-traffic", s.handleVisitorTrafficReport)
}

func (s *Server) requireReporting(w http.ResponseWriter, r *http.Request) bool {
	id, ok := s.authenticate(w, r)
	if !ok {
		return false
	}
	return requireRole(w, id, tenantentities.RoleOwner, tenantentities.RoleAdmin)
}

// reportRange parses the from/to query parameters as calendar days. The to
// day is inclusive, so the range extends to the following midnight.
func reportRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	query := r.URL.Query()
	from, err := time.Parse("2006-01-02", query.Get("from"))
	if err != nil {
		writePlatformError(w, http.StatusBadRequest, "invalid_request", "from must be formatted as YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", query.Get("to"))
	if err != nil {
		writePlatformError(w, http.StatusBadRequest, "invalid_request", "to must be formatted as YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return from.UTC(), to.UTC().Add(24 * time.Hour), true
}

func (s *Server) handleOccupancyReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireReporting(w, r) {
		return
	}
	from, to, ok := reportRange(w, r)
	if !ok {
		return
	}
	resp, err := s.reports.Handler.OccupancyReportHandler(r.Context(), r.PathValue("tenant_id"), from, to)
	if err != nil {
		writeReportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevenueReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireReporting(w, r) {
		return
	}
	resp, err := s.reports.Handler.RevenueReportHandler(r.Context(), r.PathValue("tenant_id"), r.URL.Query().Get("month"))
	if err != nil {
		writeReportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVisitorTrafficReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireReporting(w, r) {
		return
	}
	from, to, ok := reportRange(w, r)
	if !ok {
		return
	}
	resp, err := s.reports.Handler.VisitorTrafficReportHandler(r.Context(), r.PathValue("tenant_id"), from, to)
	if err != nil {
		writeReportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeReportError(w http.ResponseWriter, err error) {
	if errors.Is(err, queries.ErrInvalidReportRange) {
		writePlatformError(w, http.StatusBadRequest, "invalid_report_range", err.Error())
		return
	}
	writePlatformError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
