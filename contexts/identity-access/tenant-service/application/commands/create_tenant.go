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

// CreateTenantCommand contains transport-agnostic input for tenant creation.
type CreateTenantCommand struct {
	IdempotencyKey string
	Name           string
	Slug           string
	Plan           string
	Timezone       string
	OwnerUserID    string
	OwnerEmail     string
}

// CreateTenantResult returns the created tenant and its first owner membership.
type CreateTenantResult struct {
	Tenant          entities.Tenant     `json:"tenant"`
	OwnerMembership entities.Membership `json:"owner_membership"`
	Replayed        bool                `json:"replayed"`
}

// CreateTenantUseCase provisions a tenant with its initial owner membership.
type CreateTenantUseCase struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (u CreateTenantUseCase) Execute(ctx context.Context, cmd CreateTenantCommand) (CreateTenantResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("create tenant started",
		"event", "tenant_create_started",
		"module", "identity-access/tenant-service",
		"layer", "application",
		"slug", cmd.Slug,
	)

	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CreateTenantResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	if strings.TrimSpace(cmd.Name) == "" || !validSlug(cmd.Slug) {
		return CreateTenantResult{}, domainerrors.ErrInvalidTenantInput
	}
	if strings.TrimSpace(cmd.OwnerUserID) == "" || strings.TrimSpace(cmd.OwnerEmail) == "" {
		return CreateTenantResult{}, domainerrors.ErrInvalidMembershipInput
	}

	requestHash, err := hashRequest(cmd)
	if err != nil {
		return CreateTenantResult{}, err
	}

	idempotencyKey := "tenant_create:" + cmd.IdempotencyKey
	now := u.now()

	existing, found, err := u.Idempotency.GetRecord(ctx, idempotencyKey, now)
	if err != nil {
		return CreateTenantResult{}, err
	}
	if found {
		if existing.RequestHash != requestHash {
			return CreateTenantResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var replay CreateTenantResult
		if err := json.Unmarshal(existing.ResponsePayload, &replay); err != nil {
			return CreateTenantResult{}, err
		}
		replay.Replayed = true
		return replay, nil
	}

	if _, err := u.Repository.GetTenantBySlug(ctx, cmd.Slug); err == nil {
		return CreateTenantResult{}, domainerrors.ErrSlugTaken
	} else if !errors.Is(err, domainerrors.ErrTenantNotFound) {
		return CreateTenantResult{}, err
	}

	tenantID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateTenantResult{}, err
	}
	membershipID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateTenantResult{}, err
	}

	tenant := entities.Tenant{
		TenantID:  tenantID,
		Name:      strings.TrimSpace(cmd.Name),
		Slug:      strings.TrimSpace(cmd.Slug),
		Plan:      defaultPlan(cmd.Plan),
		Status:    entities.TenantStatusActive,
		Timezone:  defaultTimezone(cmd.Timezone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Repository.CreateTenant(ctx, tenant); err != nil {
		logger.Error("create tenant write failed",
			"event", "tenant_create_write_failed",
			"module", "identity-access/tenant-service",
			"layer", "application",
			"slug", cmd.Slug,
			"error", err.Error(),
		)
		return CreateTenantResult{}, err
	}

	owner := entities.Membership{
		MembershipID: membershipID,
		TenantID:     tenantID,
		UserID:       strings.TrimSpace(cmd.OwnerUserID),
		Email:        strings.ToLower(strings.TrimSpace(cmd.OwnerEmail)),
		Role:         entities.RoleOwner,
		Status:       entities.MembershipStatusActive,
		JoinedAt:     now,
	}
	if err := u.Repository.AddMembership(ctx, owner); err != nil {
		return CreateTenantResult{}, err
	}

	result := CreateTenantResult{Tenant: tenant, OwnerMembership: owner}
	responsePayload, err := json.Marshal(result)
	if err != nil {
		return CreateTenantResult{}, err
	}
	if err := u.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             idempotencyKey,
		Operation:       "create_tenant",
		RequestHash:     requestHash,
		ResponsePayload: responsePayload,
		ExpiresAt:       now.Add(u.idempotencyTTL()),
	}); err != nil {
		return CreateTenantResult{}, err
	}

	logger.Info("create tenant completed",
		"event", "tenant_create_completed",
		"module", "identity-access/tenant-service",
		"layer", "application",
		"tenant_id", tenantID,
		"slug", tenant.Slug,
	)
	return result, nil
}

func (u CreateTenantUseCase) idempotencyTTL() time.Duration {
	if u.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return u.IdempotencyTTL
}

func (u CreateTenantUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func validSlug(slug string) bool {
	slug = strings.TrimSpace(slug)
	if len(slug) < 3 || len(slug) > 63 {
		return false
	}
	for _, r := range slug {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return slug[0] != '-' && slug[len(slug)-1] != '-'
}

func defaultPlan(plan string) string {
	plan = strings.TrimSpace(plan)
	if plan == "" {
		return "starter"
	}
	return plan
}

func defaultTimezone(tz string) string {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return "UTC"
	}
	return tz
}
