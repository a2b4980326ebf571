package workers

import (
	"context"
	"log/slog"
	"time"

	application "hivedesk/contexts/workspace-operations/visitor-service/application"
	"hivedesk/contexts/workspace-operations/visitor-service/domain/entities"
	"hivedesk/contexts/workspace-operations/visitor-service/ports"
)

// NoShowSweeper marks expected visits as no-shows once the grace period
// after the expected arrival has lapsed.
type NoShowSweeper struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (w NoShowSweeper) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(w.Logger)

	now := w.now()
	count, err := w.Repo.MarkNoShows(ctx, now.Add(-entities.NoShowGracePeriod), now)
	if err != nil {
		logger.Error("no-show sweep failed",
			"event", "visit_no_show_sweep_failed",
			"module", "workspace-operations/visitor-service",
			"layer", "application",
			"error", err.Error(),
		)
		return 0, err
	}
	if count > 0 {
		logger.Info("no-show sweep done",
			"event", "visit_no_show_sweep_done",
			"module", "workspace-operations/visitor-service",
			"layer", "application",
			"no_show_count", count,
		)
	}
	return count, nil
}

func (w NoShowSweeper) now() time.Time {
	if w.Clock != nil {
		return w.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
