package bookingservice

import (
	"log/slog"
	"time"

	httpadapter "hivedesk/contexts/workspace-operations/booking-service/adapters/http"
	"hivedesk/contexts/workspace-operations/booking-service/adapters/memory"
	"hivedesk/contexts/workspace-operations/booking-service/application/commands"
	"hivedesk/contexts/workspace-operations/booking-service/application/queries"
	"hivedesk/contexts/workspace-operations/booking-service/application/workers"
	"hivedesk/contexts/workspace-operations/booking-service/ports"
)

// Module is the booking-service composition root exposed to runtime wiring.
type Module struct {
	Handler   httpadapter.Handler
	Completer workers.BookingCompleter
	Relay     workers.OutboxRelay
	Store     *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository     ports.Repository
	Outbox         ports.OutboxRepository
	Publisher      ports.EventPublisher
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	OutboxBatch    int
	Logger         *slog.Logger
}

// NewModule wires booking use-cases, workers, and the transport handler.
func NewModule(deps Dependencies) Module {
	createBooking := commands.CreateBookingUseCase{
		Repository:     deps.Repository,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	cancelBooking := commands.CancelBookingUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	resources := commands.ResourceUseCase{
		Repository:  deps.Repository,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	bookings := queries.ListBookingsUseCase{
		Repository: deps.Repository,
	}

	handler := httpadapter.Handler{
		CreateBooking: createBooking,
		CancelBooking: cancelBooking,
		Resources:     resources,
		Bookings:      bookings,
		Logger:        deps.Logger,
	}

	return Module{
		Handler: handler,
		Completer: workers.BookingCompleter{
			Repository: deps.Repository,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: deps.OutboxBatch,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Outbox:         store,
		Publisher:      publisher,
		Idempotency:    store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		OutboxBatch:    100,
		Logger:         logger,
	})
	module.Store = store
	return module
}
