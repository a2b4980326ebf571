package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "hivedesk/contexts/identity-access/tenant-service/application"
	"hivedesk/contexts/identity-access/tenant-service/domain/entities"
	domainerrors "hivedesk/contexts/identity-access/tenant-service/domain/errors"
	"hivedesk/contexts/identity-access/tenant-service/ports"
)

// ResolveAccessQuery carries session claims to be checked against DB state.
type ResolveAccessQuery struct {
	UserID   string
	TenantID string
}

// ResolveAccessUseCase computes the effective tenant authorization for a user.
// Denial precedence: tenant_not_found, tenant_suspended, membership_not_found,
// membership_suspended. A suspended tenant short-circuits before the
// membership lookup so membership existence is not leaked.
type ResolveAccessUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u ResolveAccessUseCase) Execute(ctx context.Context, query ResolveAccessQuery) (entities.AccessDecision, error) {
	logger := application.ResolveLogger(u.Logger)
	now := u.now()

	decision := entities.AccessDecision{
		UserID:     strings.TrimSpace(query.UserID),
		TenantID:   strings.TrimSpace(query.TenantID),
		ResolvedAt: now,
	}
	if decision.UserID == "" || decision.TenantID == "" {
		decision.Reason = entities.AccessReasonTenantNotFound
		return decision, nil
	}

	tenant, err := u.Repository.GetTenant(ctx, decision.TenantID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrTenantNotFound) {
			decision.Reason = entities.AccessReasonTenantNotFound
			return decision, nil
		}
		return entities.AccessDecision{}, err
	}
	if tenant.Status == entities.TenantStatusSuspended {
		decision.Reason = entities.AccessReasonTenantSuspended
		return decision, nil
	}

	membership, err := u.Repository.GetMembership(ctx, decision.TenantID, decision.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrMembershipNotFound) {
			decision.Reason = entities.AccessReasonMembershipNotFound
			return decision, nil
		}
		return entities.AccessDecision{}, err
	}
	if membership.Status == entities.MembershipStatusSuspended {
		decision.Reason = entities.AccessReasonMembershipSuspended
		return decision, nil
	}

	decision.Allowed = true
	decision.Role = membership.Role
	decision.Reason = entities.AccessReasonAllowed

	logger.Debug("access resolved",
		"event", "access_resolved",
		"module", "identity-access/tenant-service",
		"layer", "application",
		"tenant_id", decision.TenantID,
		"user_id", decision.UserID,
		"role", decision.Role,
	)
	return decision, nil
}

func (u ResolveAccessUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
