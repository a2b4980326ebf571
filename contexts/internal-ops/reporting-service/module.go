package reportingservice

import (
	"log/slog"

	httpadapter "hivedesk/contexts/internal-ops/reporting-service/adapters/http"
	"hivedesk/contexts/internal-ops/reporting-service/application/queries"
	"hivedesk/contexts/internal-ops/reporting-service/ports"
)

// Module is the reporting-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
}

// Dependencies captures the data sources the reports read from.
type Dependencies struct {
	Bookings ports.BookingSource
	Invoices ports.InvoiceSource
	Visits   ports.VisitSource
	Logger   *slog.Logger
}

// NewModule wires the report queries and transport handler.
func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Occupancy: queries.OccupancyUseCase{Bookings: deps.Bookings},
			Revenue:   queries.RevenueUseCase{Invoices: deps.Invoices},
			Traffic:   queries.VisitorTrafficUseCase{Visits: deps.Visits},
			Logger:    deps.Logger,
		},
	}
}
