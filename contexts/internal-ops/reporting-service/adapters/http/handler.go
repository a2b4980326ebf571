package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"hivedesk/contexts/internal-ops/reporting-service/application/queries"
)

// Handler exposes the read-only reports.
type Handler struct {
	Occupancy queries.OccupancyUseCase
	Revenue   queries.RevenueUseCase
	Traffic   queries.VisitorTrafficUseCase
	Logger    *slog.Logger
}

func (h Handler) OccupancyReportHandler(ctx context.Context, tenantID string, from, to time.Time) (queries.OccupancyReport, error) {
	return h.Occupancy.Execute(ctx, tenantID, from, to)
}

func (h Handler) RevenueReportHandler(ctx context.Context, tenantID, month string) (queries.RevenueReport, error) {
	return h.Revenue.Execute(ctx, tenantID, month)
}

func (h Handler) VisitorTrafficReportHandler(ctx context.Context, tenantID string, from, to time.Time) (queries.VisitorTrafficReport, error) {
	return h.Traffic.Execute(ctx, tenantID, from, to)
}
