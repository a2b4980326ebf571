package invitationservice

import (
	"log/slog"
	"time"

	httpadapter "hivedesk/contexts/identity-access/invitation-service/adapters/http"
	"hivedesk/contexts/identity-access/invitation-service/adapters/memory"
	"hivedesk/contexts/identity-access/invitation-service/application"
	"hivedesk/contexts/identity-access/invitation-service/application/workers"
	"hivedesk/contexts/identity-access/invitation-service/ports"
)

// Module is the invitation-service composition root exposed to runtime wiring.
type Module struct {
	Handler        httpadapter.Handler
	UserCreated    workers.UserCreatedConsumer
	SessionCreated workers.SessionCreatedConsumer
	Expirer        workers.InvitationExpirer
	Store          *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository    ports.Repository
	Provider      ports.ProviderGateway
	Memberships   ports.MembershipCreator
	Dedup         ports.EventDedupStore
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	InvitationTTL time.Duration
	DedupTTL      time.Duration
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:          deps.Repository,
		Provider:      deps.Provider,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		InvitationTTL: deps.InvitationTTL,
		Logger:        deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		UserCreated: workers.UserCreatedConsumer{
			Repo:        deps.Repository,
			Memberships: deps.Memberships,
			Dedup:       deps.Dedup,
			Clock:       deps.Clock,
			DedupTTL:    deps.DedupTTL,
			Logger:      deps.Logger,
		},
		SessionCreated: workers.SessionCreatedConsumer{
			Repo:     deps.Repository,
			Dedup:    deps.Dedup,
			Clock:    deps.Clock,
			DedupTTL: deps.DedupTTL,
			Logger:   deps.Logger,
		},
		Expirer: workers.InvitationExpirer{
			Repo:   deps.Repository,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. Provider and membership ports must still be supplied by the
// caller; tests typically use fakes.
func NewInMemoryModule(provider ports.ProviderGateway, memberships ports.MembershipCreator, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:    store,
		Provider:      provider,
		Memberships:   memberships,
		Dedup:         store,
		Clock:         store,
		IDGenerator:   store,
		InvitationTTL: 14 * 24 * time.Hour,
		DedupTTL:      7 * 24 * time.Hour,
		Logger:        logger,
	})
	module.Store = store
	return module
}
