package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "hivedesk/contexts/identity-access/tenant-service/application"
	"hivedesk/contexts/identity-access/tenant-service/domain/entities"
	domainerrors "hivedesk/contexts/identity-access/tenant-service/domain/errors"
	"hivedesk/contexts/identity-access/tenant-service/ports"
)

// AddMembershipCommand attaches a user to a tenant with a role.
type AddMembershipCommand struct {
	TenantID string
	UserID   string
	Email    string
	Role     string
}

// MembershipUseCase coordinates membership mutations with owner invariants.
type MembershipUseCase struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (u MembershipUseCase) Add(ctx context.Context, cmd AddMembershipCommand) (entities.Membership, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.TenantID) == "" || strings.TrimSpace(cmd.UserID) == "" {
		return entities.Membership{}, domainerrors.ErrInvalidMembershipInput
	}
	if !entities.ValidRole(cmd.Role) {
		return entities.Membership{}, domainerrors.ErrInvalidMembershipInput
	}

	tenant, err := u.Repository.GetTenant(ctx, cmd.TenantID)
	if err != nil {
		return entities.Membership{}, err
	}
	if tenant.Status == entities.TenantStatusSuspended {
		return entities.Membership{}, domainerrors.ErrTenantSuspended
	}

	if _, err := u.Repository.GetMembership(ctx, cmd.TenantID, cmd.UserID); err == nil {
		return entities.Membership{}, domainerrors.ErrMembershipExists
	} else if !errors.Is(err, domainerrors.ErrMembershipNotFound) {
		return entities.Membership{}, err
	}

	membershipID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Membership{}, err
	}

	membership := entities.Membership{
		MembershipID: membershipID,
		TenantID:     cmd.TenantID,
		UserID:       strings.TrimSpace(cmd.UserID),
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		Role:         cmd.Role,
		Status:       entities.MembershipStatusActive,
		JoinedAt:     u.now(),
	}
	if err := u.Repository.AddMembership(ctx, membership); err != nil {
		return entities.Membership{}, err
	}

	logger.Info("membership added",
		"event", "membership_added",
		"module", "identity-access/tenant-service",
		"layer", "application",
		"tenant_id", cmd.TenantID,
		"user_id", cmd.UserID,
		"role", cmd.Role,
	)
	return membership, nil
}

// RemoveResult is stored for idempotent replay of membership removal.
type RemoveResult struct {
	Membership entities.Membership `json:"membership"`
	Replayed   bool                `json:"replayed"`
}

// Remove deletes a membership; removal of the last active owner is refused.
func (u MembershipUseCase) Remove(ctx context.Context, idempotencyKey, tenantID, userID string) (RemoveResult, error) {
	if strings.TrimSpace(idempotencyKey) == "" {
		return RemoveResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(userID) == "" {
		return RemoveResult{}, domainerrors.ErrInvalidMembershipInput
	}

	requestHash, err := hashRequest(struct {
		TenantID string `json:"tenant_id"`
		UserID   string `json:"user_id"`
	}{TenantID: tenantID, UserID: userID})
	if err != nil {
		return RemoveResult{}, err
	}

	key := "membership_remove:" + idempotencyKey
	now := u.now()

	existing, found, err := u.Idempotency.GetRecord(ctx, key, now)
	if err != nil {
		return RemoveResult{}, err
	}
	if found {
		if existing.RequestHash != requestHash {
			return RemoveResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var replay RemoveResult
		if err := json.Unmarshal(existing.ResponsePayload, &replay); err != nil {
			return RemoveResult{}, err
		}
		replay.Replayed = true
		return replay, nil
	}

	membership, err := u.Repository.GetMembership(ctx, tenantID, userID)
	if err != nil {
		return RemoveResult{}, err
	}
	if membership.Role == entities.RoleOwner {
		owners, err := u.Repository.CountActiveOwners(ctx, tenantID)
		if err != nil {
			return RemoveResult{}, err
		}
		if owners <= 1 {
			return RemoveResult{}, domainerrors.ErrLastOwner
		}
	}

	if err := u.Repository.RemoveMembership(ctx, membership.MembershipID); err != nil {
		return RemoveResult{}, err
	}

	result := RemoveResult{Membership: membership}
	responsePayload, err := json.Marshal(result)
	if err != nil {
		return RemoveResult{}, err
	}
	if err := u.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             key,
		Operation:       "remove_membership",
		RequestHash:     requestHash,
		ResponsePayload: responsePayload,
		ExpiresAt:       now.Add(u.idempotencyTTL()),
	}); err != nil {
		return RemoveResult{}, err
	}
	return result, nil
}

// ChangeRole moves a membership to a new role; demoting the last active owner
// is refused.
func (u MembershipUseCase) ChangeRole(ctx context.Context, tenantID, userID, role string) (entities.Membership, error) {
	if !entities.ValidRole(role) {
		return entities.Membership{}, domainerrors.ErrInvalidMembershipInput
	}

	membership, err := u.Repository.GetMembership(ctx, tenantID, userID)
	if err != nil {
		return entities.Membership{}, err
	}
	if membership.Role == role {
		return membership, nil
	}
	if membership.Role == entities.RoleOwner && role != entities.RoleOwner {
		owners, err := u.Repository.CountActiveOwners(ctx, tenantID)
		if err != nil {
			return entities.Membership{}, err
		}
		if owners <= 1 {
			return entities.Membership{}, domainerrors.ErrLastOwner
		}
	}

	membership.Role = role
	if err := u.Repository.UpdateMembership(ctx, membership); err != nil {
		return entities.Membership{}, err
	}
	return membership, nil
}

// Suspend marks a membership suspended; suspended members are denied access
// on the next ResolveAccess call.
func (u MembershipUseCase) Suspend(ctx context.Context, tenantID, userID string) (entities.Membership, error) {
	membership, err := u.Repository.GetMembership(ctx, tenantID, userID)
	if err != nil {
		return entities.Membership{}, err
	}
	if membership.Status == entities.MembershipStatusSuspended {
		return membership, nil
	}
	if membership.Role == entities.RoleOwner {
		owners, err := u.Repository.CountActiveOwners(ctx, tenantID)
		if err != nil {
			return entities.Membership{}, err
		}
		if owners <= 1 {
			return entities.Membership{}, domainerrors.ErrLastOwner
		}
	}

	now := u.now()
	membership.Status = entities.MembershipStatusSuspended
	membership.SuspendedAt = &now
	if err := u.Repository.UpdateMembership(ctx, membership); err != nil {
		return entities.Membership{}, err
	}
	return membership, nil
}

func (u MembershipUseCase) Reinstate(ctx context.Context, tenantID, userID string) (entities.Membership, error) {
	membership, err := u.Repository.GetMembership(ctx, tenantID, userID)
	if err != nil {
		return entities.Membership{}, err
	}
	if membership.Status == entities.MembershipStatusActive {
		return membership, nil
	}
	membership.Status = entities.MembershipStatusActive
	membership.SuspendedAt = nil
	if err := u.Repository.UpdateMembership(ctx, membership); err != nil {
		return entities.Membership{}, err
	}
	return membership, nil
}

func (u MembershipUseCase) idempotencyTTL() time.Duration {
	if u.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return u.IdempotencyTTL
}

func (u MembershipUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
