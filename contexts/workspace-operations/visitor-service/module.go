package visitorservice

import (
	"log/slog"
	"time"

	httpadapter "hivedesk/contexts/workspace-operations/visitor-service/adapters/http"
	"hivedesk/contexts/workspace-operations/visitor-service/adapters/memory"
	"hivedesk/contexts/workspace-operations/visitor-service/application"
	"hivedesk/contexts/workspace-operations/visitor-service/application/workers"
	"hivedesk/contexts/workspace-operations/visitor-service/ports"
)

// Module is the visitor-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Sweeper workers.NoShowSweeper
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Notifier       ports.HostNotifier
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// NewModule wires the visit service, sweeper, and transport handler.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Idempotency:    deps.Idempotency,
		Notifier:       deps.Notifier,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Visits: service,
			Logger: deps.Logger,
		},
		Sweeper: workers.NoShowSweeper{
			Repo:   deps.Repository,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Idempotency: store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
