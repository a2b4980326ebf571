package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	invoiceservice "hivedesk/contexts/finance-core/invoice-service"
	invitationservice "hivedesk/contexts/identity-access/invitation-service"
	tenantservice "hivedesk/contexts/identity-access/tenant-service"
	tenantqueries "hivedesk/contexts/identity-access/tenant-service/application/queries"
	tenantentities "hivedesk/contexts/identity-access/tenant-service/domain/entities"
	reportingservice "hivedesk/contexts/internal-ops/reporting-service"
	notificationservice "hivedesk/contexts/member-experience/notification-service"
	bookingservice "hivedesk/contexts/workspace-operations/booking-service"
	visitorservice "hivedesk/contexts/workspace-operations/visitor-service"
	"hivedesk/internal/platform/auth"
	"hivedesk/internal/platform/identity"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "hivedesk/internal/platform/httpserver/docs"
)

// Server is the single HTTP front for all contexts. Tenant-scoped routes run
// through session authentication plus a per-request access resolution against
// tenant-service; platform routes are guarded by the admin API key.
type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string

	adminAPIKey string
	tokens      auth.TokenParser
	webhooks    identity.Verifier

	tenants       tenantservice.Module
	invitations   invitationservice.Module
	bookings      bookingservice.Module
	visitors      visitorservice.Module
	invoices      invoiceservice.Module
	notifications notificationservice.Module
	reports       reportingservice.Module
}

// Dependencies collects everything the server routes to.
type Dependencies struct {
	Tenants       tenantservice.Module
	Invitations   invitationservice.Module
	Bookings      bookingservice.Module
	Visitors      visitorservice.Module
	Invoices      invoiceservice.Module
	Notifications notificationservice.Module
	Reports       reportingservice.Module

	TokenParser auth.TokenParser
	Webhooks    identity.Verifier
	AdminAPIKey string

	Logger *slog.Logger
	Addr   string
}

func New(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := deps.Addr
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		adminAPIKey:   deps.AdminAPIKey,
		tokens:        deps.TokenParser,
		webhooks:      deps.Webhooks,
		tenants:       deps.Tenants,
		invitations:   deps.Invitations,
		bookings:      deps.Bookings,
		visitors:      deps.Visitors,
		invoices:      deps.Invoices,
		notifications: deps.Notifications,
		reports:       deps.Reports,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerTenantRoutes()
	s.registerInvitationRoutes()
	s.registerBookingRoutes()
	s.registerVisitorRoutes()
	s.registerInvoiceRoutes()
	s.registerNotificationRoutes()
	s.registerReportRoutes()
}

// requireAdmin guards platform endpoints with the shared admin API key.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	key := strings.TrimSpace(r.Header.Get("X-Admin-Key"))
	if s.adminAPIKey == "" || key != s.adminAPIKey {
		writePlatformError(w, http.StatusUnauthorized, "admin_key_invalid", "valid X-Admin-Key header is required")
		return false
	}
	return true
}

// authenticate parses the session bearer token and resolves the caller's
// access to the tenant in the path. Claims are never trusted on their own.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	raw = strings.TrimPrefix(raw, "Bearer ")
	claims, err := s.tokens.Parse(raw, time.Now().UTC())
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			writePlatformError(w, http.StatusUnauthorized, "token_expired", "session token expired")
		} else {
			writePlatformError(w, http.StatusUnauthorized, "token_invalid", "valid bearer token is required")
		}
		return auth.Identity{}, false
	}

	tenantID := r.PathValue("tenant_id")
	decision, err := s.tenants.Access.Execute(r.Context(), tenantqueries.ResolveAccessQuery{
		UserID:   claims.UserID,
		TenantID: tenantID,
	})
	if err != nil {
		writePlatformError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return auth.Identity{}, false
	}
	if !decision.Allowed {
		switch decision.Reason {
		case tenantentities.AccessReasonTenantNotFound:
			writePlatformError(w, http.StatusNotFound, "tenant_not_found", "tenant not found")
		default:
			writePlatformError(w, http.StatusForbidden, decision.Reason, "access denied")
		}
		return auth.Identity{}, false
	}

	return auth.Identity{
		UserID:   decision.UserID,
		TenantID: decision.TenantID,
		Role:     decision.Role,
	}, true
}

// requireRole enforces a role allow-list after authentication.
func requireRole(w http.ResponseWriter, id auth.Identity, roles ...string) bool {
	for _, role := range roles {
		if id.Role == role {
			return true
		}
	}
	writePlatformError(w, http.StatusForbidden, "role_forbidden", "role is not permitted for this operation")
	return false
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writePlatformError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

type platformErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writePlatformError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, platformErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
