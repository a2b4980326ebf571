package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	application "hivedesk/contexts/identity-access/invitation-service/application"
	"hivedesk/contexts/identity-access/invitation-service/domain/entities"
	"hivedesk/contexts/identity-access/invitation-service/ports"
)

// UserCreatedConsumer accepts matching pending invitations when the provider
// reports a new account, creating the tenant membership for each match.
type UserCreatedConsumer struct {
	Repo        ports.Repository
	Memberships ports.MembershipCreator
	Dedup       ports.EventDedupStore
	Clock       ports.Clock
	DedupTTL    time.Duration
	Logger      *slog.Logger
}

func (c UserCreatedConsumer) Handle(ctx context.Context, event ports.UserCreatedEvent) error {
	logger := application.ResolveLogger(c.Logger)
	now := c.now()

	email := strings.ToLower(strings.TrimSpace(event.Email))
	if event.EventID == "" || event.ProviderUserID == "" || email == "" {
		return nil
	}

	alreadyProcessed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashEvent(event.ProviderUserID, email), now.Add(c.dedupTTL()))
	if err != nil || alreadyProcessed {
		return err
	}

	if err := c.acceptPending(ctx, logger, event.ProviderUserID, email, now); err != nil {
		// A failed handler must not consume the event id: release the
		// reservation so the provider's redelivery is processed.
		if releaseErr := c.Dedup.ReleaseEvent(ctx, event.EventID); releaseErr != nil {
			logger.Error("event reservation release failed",
				"event", "invitation_dedup_release_failed",
				"module", "identity-access/invitation-service",
				"layer", "worker",
				"event_id", event.EventID,
				"error", releaseErr.Error(),
			)
		}
		return err
	}
	return nil
}

func (c UserCreatedConsumer) acceptPending(ctx context.Context, logger *slog.Logger, providerUserID, email string, now time.Time) error {
	pending, err := c.Repo.FindPendingByEmail(ctx, email, now)
	if err != nil {
		return err
	}

	for _, invitation := range pending {
		if err := c.Memberships.CreateMembership(ctx, invitation.TenantID, providerUserID, email, invitation.Role); err != nil {
			logger.Error("membership create from invitation failed",
				"event", "invitation_membership_create_failed",
				"module", "identity-access/invitation-service",
				"layer", "worker",
				"tenant_id", invitation.TenantID,
				"invitation_id", invitation.InvitationID,
				"error", err.Error(),
			)
			return err
		}

		acceptedAt := now
		invitation.Status = entities.InvitationStatusAccepted
		invitation.AcceptedAt = &acceptedAt
		if err := c.Repo.UpdateInvitation(ctx, invitation); err != nil {
			return err
		}

		logger.Info("invitation accepted",
			"event", "invitation_accepted",
			"module", "identity-access/invitation-service",
			"layer", "worker",
			"tenant_id", invitation.TenantID,
			"invitation_id", invitation.InvitationID,
		)
	}
	return nil
}

func (c UserCreatedConsumer) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}

func (c UserCreatedConsumer) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// SessionCreatedConsumer records last-seen for returning users.
type SessionCreatedConsumer struct {
	Repo     ports.Repository
	Dedup    ports.EventDedupStore
	Clock    ports.Clock
	DedupTTL time.Duration
	Logger   *slog.Logger
}

func (c SessionCreatedConsumer) Handle(ctx context.Context, event ports.SessionCreatedEvent) error {
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}

	if event.EventID == "" || event.ProviderUserID == "" {
		return nil
	}

	ttl := c.DedupTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	alreadyProcessed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashEvent(event.ProviderUserID, event.SessionID), now.Add(ttl))
	if err != nil || alreadyProcessed {
		return err
	}

	at := event.OccurredAt.UTC()
	if at.IsZero() {
		at = now
	}
	if err := c.Repo.RecordSessionSeen(ctx, event.ProviderUserID, at); err != nil {
		if releaseErr := c.Dedup.ReleaseEvent(ctx, event.EventID); releaseErr != nil {
			application.ResolveLogger(c.Logger).Error("event reservation release failed",
				"event", "invitation_dedup_release_failed",
				"module", "identity-access/invitation-service",
				"layer", "worker",
				"event_id", event.EventID,
				"error", releaseErr.Error(),
			)
		}
		return err
	}
	return nil
}

func hashEvent(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
