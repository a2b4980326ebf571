package tenantservice

import (
	"log/slog"
	"time"

	httpadapter "hivedesk/contexts/identity-access/tenant-service/adapters/http"
	"hivedesk/contexts/identity-access/tenant-service/adapters/memory"
	"hivedesk/contexts/identity-access/tenant-service/application/commands"
	"hivedesk/contexts/identity-access/tenant-service/application/queries"
	"hivedesk/contexts/identity-access/tenant-service/ports"
)

// Module is the tenant-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Access  queries.ResolveAccessUseCase
	Members commands.MembershipUseCase
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// NewModule wires tenant use-cases and transport handler using explicit ports.
func NewModule(deps Dependencies) Module {
	createTenant := commands.CreateTenantUseCase{
		Repository:     deps.Repository,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	lifecycle := commands.TenantLifecycleUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	memberships := commands.MembershipUseCase{
		Repository:     deps.Repository,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	resolveAccess := queries.ResolveAccessUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	tenants := queries.ListTenantsUseCase{
		Repository: deps.Repository,
	}

	handler := httpadapter.Handler{
		CreateTenant:  createTenant,
		Lifecycle:     lifecycle,
		Memberships:   memberships,
		ResolveAccess: resolveAccess,
		Tenants:       tenants,
		Logger:        deps.Logger,
	}

	return Module{
		Handler: handler,
		Access:  resolveAccess,
		Members: memberships,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Idempotency:    store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
