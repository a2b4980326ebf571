package workers

import (
	"context"
	"log/slog"
	"time"

	application "hivedesk/contexts/identity-access/invitation-service/application"
	"hivedesk/contexts/identity-access/invitation-service/ports"
)

// InvitationExpirer sweeps pending invitations past their expiry.
type InvitationExpirer struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (e InvitationExpirer) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(e.Logger)

	now := time.Now().UTC()
	if e.Clock != nil {
		now = e.Clock.Now().UTC()
	}

	expired, err := e.Repo.ExpirePending(ctx, now)
	if err != nil {
		logger.Error("invitation expiry sweep failed",
			"event", "invitation_expiry_failed",
			"module", "identity-access/invitation-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if expired > 0 {
		logger.Info("invitations expired",
			"event", "invitations_expired",
			"module", "identity-access/invitation-service",
			"layer", "worker",
			"count", expired,
		)
	}
	return nil
}
