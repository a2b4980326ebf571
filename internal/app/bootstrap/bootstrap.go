package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	invoiceservice "hivedesk/contexts/finance-core/invoice-service"
	invoicepostgres "hivedesk/contexts/finance-core/invoice-service/adapters/postgres"
	invitationservice "hivedesk/contexts/identity-access/invitation-service"
	invitationpostgres "hivedesk/contexts/identity-access/invitation-service/adapters/postgres"
	tenantservice "hivedesk/contexts/identity-access/tenant-service"
	tenantpostgres "hivedesk/contexts/identity-access/tenant-service/adapters/postgres"
	tenantcommands "hivedesk/contexts/identity-access/tenant-service/application/commands"
	tenanterrors "hivedesk/contexts/identity-access/tenant-service/domain/errors"
	reportingservice "hivedesk/contexts/internal-ops/reporting-service"
	localadapter "hivedesk/contexts/internal-ops/reporting-service/adapters/local"
	notificationservice "hivedesk/contexts/member-experience/notification-service"
	emailadapter "hivedesk/contexts/member-experience/notification-service/adapters/email"
	notificationpostgres "hivedesk/contexts/member-experience/notification-service/adapters/postgres"
	notificationapp "hivedesk/contexts/member-experience/notification-service/application"
	notificationentities "hivedesk/contexts/member-experience/notification-service/domain/entities"
	bookingservice "hivedesk/contexts/workspace-operations/booking-service"
	bookingpostgres "hivedesk/contexts/workspace-operations/booking-service/adapters/postgres"
	visitorservice "hivedesk/contexts/workspace-operations/visitor-service"
	visitorpostgres "hivedesk/contexts/workspace-operations/visitor-service/adapters/postgres"
	"hivedesk/internal/platform/auth"
	"hivedesk/internal/platform/config"
	"hivedesk/internal/platform/db"
	"hivedesk/internal/platform/httpserver"
	"hivedesk/internal/platform/identity"
	"hivedesk/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	bus           *messaging.Bus
	invitations   invitationservice.Module
	bookings      bookingservice.Module
	visitors      visitorservice.Module
	notifications notificationservice.Module
	pollInterval  time.Duration
	logger        *slog.Logger
}

// membershipCreator bridges invitation acceptance to the tenant membership
// use case. A membership that already exists is treated as success so webhook
// retries stay idempotent.
type membershipCreator struct {
	members tenantcommands.MembershipUseCase
}

func (m membershipCreator) CreateMembership(ctx context.Context, tenantID, userID, email, role string) error {
	_, err := m.members.Add(ctx, tenantcommands.AddMembershipCommand{
		TenantID: tenantID,
		UserID:   userID,
		Email:    email,
		Role:     role,
	})
	if errors.Is(err, tenanterrors.ErrMembershipExists) {
		return nil
	}
	return err
}

// hostNotifier bridges visitor check-ins to an in-app notification for the
// host member.
type hostNotifier struct {
	notifications notificationapp.Service
}

func (n hostNotifier) NotifyHostCheckedIn(ctx context.Context, tenantID, hostUserID, visitorName string) error {
	_, err := n.notifications.Enqueue(ctx, notificationapp.EnqueueInput{
		TenantID: tenantID,
		UserID:   hostUserID,
		Channel:  notificationentities.ChannelInApp,
		Kind:     "visitor.checked_in",
		Subject:  "Your visitor has arrived",
		Body:     fmt.Sprintf("%s has checked in at the front desk.", visitorName),
	})
	return err
}

type modules struct {
	tenants       tenantservice.Module
	invitations   invitationservice.Module
	bookings      bookingservice.Module
	visitors      visitorservice.Module
	invoices      invoiceservice.Module
	notifications notificationservice.Module
	reports       reportingservice.Module
}

func buildModules(cfg config.Config, pg *db.Postgres, bus *messaging.Bus, logger *slog.Logger) modules {
	tenantRepo := tenantpostgres.NewRepository(pg.DB, logger)
	tenants := tenantservice.NewModule(tenantservice.Dependencies{
		Repository:     tenantRepo,
		Idempotency:    tenantRepo,
		Clock:          tenantpostgres.SystemClock{},
		IDGenerator:    tenantpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	provider := identity.NewClient(cfg.IdentityBaseURL, cfg.IdentityAPIKey, logger)
	invitationRepo := invitationpostgres.NewRepository(pg.DB, logger)
	invitations := invitationservice.NewModule(invitationservice.Dependencies{
		Repository:    invitationRepo,
		Provider:      provider,
		Memberships:   membershipCreator{members: tenants.Members},
		Dedup:         invitationRepo,
		Clock:         invitationpostgres.SystemClock{},
		IDGenerator:   invitationpostgres.UUIDGenerator{},
		InvitationTTL: 14 * 24 * time.Hour,
		DedupTTL:      7 * 24 * time.Hour,
		Logger:        logger,
	})

	bookingRepo := bookingpostgres.NewRepository(pg.DB, logger)
	bookings := bookingservice.NewModule(bookingservice.Dependencies{
		Repository:     bookingRepo,
		Outbox:         bookingRepo,
		Publisher:      bus,
		Idempotency:    bookingRepo,
		Clock:          bookingpostgres.SystemClock{},
		IDGenerator:    bookingpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		OutboxBatch:    cfg.OutboxBatchSize,
		Logger:         logger,
	})

	notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
	notifications := notificationservice.NewModule(notificationservice.Dependencies{
		Repository:  notificationRepo,
		Sender:      emailadapter.Sender{Logger: logger},
		Clock:       notificationpostgres.SystemClock{},
		IDGenerator: notificationpostgres.UUIDGenerator{},
		BatchSize:   cfg.OutboxBatchSize,
		Logger:      logger,
	})

	visitorRepo := visitorpostgres.NewRepository(pg.DB, logger)
	visitors := visitorservice.NewModule(visitorservice.Dependencies{
		Repository:     visitorRepo,
		Idempotency:    visitorRepo,
		Notifier:       hostNotifier{notifications: notifications.Service},
		Clock:          visitorpostgres.SystemClock{},
		IDGenerator:    visitorpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	invoiceRepo := invoicepostgres.NewRepository(pg.DB, logger)
	invoices := invoiceservice.NewModule(invoiceservice.Dependencies{
		Repository:     invoiceRepo,
		Idempotency:    invoiceRepo,
		Clock:          invoicepostgres.SystemClock{},
		IDGenerator:    invoicepostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	reports := reportingservice.NewModule(reportingservice.Dependencies{
		Bookings: localadapter.BookingSource{Repo: bookingRepo},
		Invoices: localadapter.InvoiceSource{Repo: invoiceRepo},
		Visits:   localadapter.VisitSource{Repo: visitorRepo},
		Logger:   logger,
	})

	return modules{
		tenants:       tenants,
		invitations:   invitations,
		bookings:      bookings,
		visitors:      visitors,
		invoices:      invoices,
		notifications: notifications,
		reports:       reports,
	}
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	mods := buildModules(cfg, pg, bus, logger)

	server := httpserver.New(httpserver.Dependencies{
		Tenants:       mods.tenants,
		Invitations:   mods.invitations,
		Bookings:      mods.bookings,
		Visitors:      mods.visitors,
		Invoices:      mods.invoices,
		Notifications: mods.notifications,
		Reports:       mods.reports,
		TokenParser:   auth.NewTokenParser(cfg.SessionJWTSecret),
		Webhooks:      identity.NewVerifier(cfg.WebhookSecret, cfg.WebhookTolerance),
		AdminAPIKey:   cfg.AdminAPIKey,
		Logger:        logger,
		Addr:          normalizeAddr(cfg.HTTPPort),
	})
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	mods := buildModules(cfg, pg, bus, logger)

	return &WorkerApp{
		postgres:      pg,
		bus:           bus,
		invitations:   mods.invitations,
		bookings:      mods.bookings,
		visitors:      mods.visitors,
		notifications: mods.notifications,
		pollInterval:  cfg.WorkerPollInterval,
		logger:        logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	completed := w.bus.Subscribe("booking.completed")
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case envelope := <-completed:
				if err := w.notifications.BookingCompleted.Handle(ctx, envelope); err != nil {
					w.logger.Error("booking completed consume failed",
						"event", "worker_booking_completed_failed",
						"module", "internal/app/bootstrap",
						"layer", "platform",
						"event_id", envelope.EventID,
						"error", err.Error(),
					)
				}
			}
		}
	}()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.invitations.Expirer.RunOnce(ctx); err != nil {
			return err
		}
		if _, err := w.bookings.Completer.RunOnce(ctx); err != nil {
			return err
		}
		if _, err := w.bookings.Relay.RunOnce(ctx); err != nil {
			return err
		}
		if _, err := w.visitors.Sweeper.RunOnce(ctx); err != nil {
			return err
		}
		if _, err := w.notifications.Dispatcher.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
