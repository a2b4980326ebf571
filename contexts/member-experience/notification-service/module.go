package notificationservice

import (
	"log/slog"

	httpadapter "hivedesk/contexts/member-experience/notification-service/adapters/http"
	"hivedesk/contexts/member-experience/notification-service/adapters/memory"
	"hivedesk/contexts/member-experience/notification-service/application"
	"hivedesk/contexts/member-experience/notification-service/application/workers"
	"hivedesk/contexts/member-experience/notification-service/ports"
)

// Module is the notification-service composition root exposed to runtime wiring.
type Module struct {
	Handler          httpadapter.Handler
	Service          application.Service
	Dispatcher       workers.Dispatcher
	BookingCompleted workers.BookingCompletedConsumer
	Store            *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Sender      ports.Sender
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	BatchSize   int
	Logger      *slog.Logger
}

// NewModule wires the notification service, dispatcher, and consumers.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:        deps.Repository,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Notifications: service,
			Logger:        deps.Logger,
		},
		Service: service,
		Dispatcher: workers.Dispatcher{
			Repo:      deps.Repository,
			Sender:    deps.Sender,
			Clock:     deps.Clock,
			BatchSize: deps.BatchSize,
			Logger:    deps.Logger,
		},
		BookingCompleted: workers.BookingCompletedConsumer{
			Notifications: service,
			Logger:        deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(sender ports.Sender, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Sender:      sender,
		Clock:       store,
		IDGenerator: store,
		BatchSize:   100,
		Logger:      logger,
	})
	module.Store = store
	return module
}
