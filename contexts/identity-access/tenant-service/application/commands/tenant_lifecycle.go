package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "hivedesk/contexts/identity-access/tenant-service/application"
	"hivedesk/contexts/identity-access/tenant-service/domain/entities"
	domainerrors "hivedesk/contexts/identity-access/tenant-service/domain/errors"
	"hivedesk/contexts/identity-access/tenant-service/ports"
)

// UpdateTenantCommand changes mutable tenant attributes. Slug is immutable.
type UpdateTenantCommand struct {
	TenantID string
	Name     string
	Plan     string
	Timezone string
}

// TenantLifecycleUseCase handles update/suspend/reinstate transitions.
type TenantLifecycleUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u TenantLifecycleUseCase) Update(ctx context.Context, cmd UpdateTenantCommand) (entities.Tenant, error) {
	if strings.TrimSpace(cmd.TenantID) == "" {
		return entities.Tenant{}, domainerrors.ErrInvalidTenantInput
	}

	tenant, err := u.Repository.GetTenant(ctx, cmd.TenantID)
	if err != nil {
		return entities.Tenant{}, err
	}
	if tenant.Status == entities.TenantStatusSuspended {
		return entities.Tenant{}, domainerrors.ErrTenantSuspended
	}

	if name := strings.TrimSpace(cmd.Name); name != "" {
		tenant.Name = name
	}
	if plan := strings.TrimSpace(cmd.Plan); plan != "" {
		tenant.Plan = plan
	}
	if tz := strings.TrimSpace(cmd.Timezone); tz != "" {
		tenant.Timezone = tz
	}
	tenant.UpdatedAt = u.now()

	if err := u.Repository.UpdateTenant(ctx, tenant); err != nil {
		return entities.Tenant{}, err
	}
	return tenant, nil
}

// Suspend denies access for every member without touching membership rows.
// Suspending an already suspended tenant is a no-op returning current state.
func (u TenantLifecycleUseCase) Suspend(ctx context.Context, tenantID string) (entities.Tenant, error) {
	logger := application.ResolveLogger(u.Logger)

	tenant, err := u.Repository.GetTenant(ctx, tenantID)
	if err != nil {
		return entities.Tenant{}, err
	}
	if tenant.Status == entities.TenantStatusSuspended {
		return tenant, nil
	}

	now := u.now()
	tenant.Status = entities.TenantStatusSuspended
	tenant.SuspendedAt = &now
	tenant.UpdatedAt = now
	if err := u.Repository.UpdateTenant(ctx, tenant); err != nil {
		return entities.Tenant{}, err
	}

	logger.Info("tenant suspended",
		"event", "tenant_suspended",
		"module", "identity-access/tenant-service",
		"layer", "application",
		"tenant_id", tenant.TenantID,
	)
	return tenant, nil
}

// Reinstate restores an active status. Reinstating an active tenant is a no-op.
func (u TenantLifecycleUseCase) Reinstate(ctx context.Context, tenantID string) (entities.Tenant, error) {
	logger := application.ResolveLogger(u.Logger)

	tenant, err := u.Repository.GetTenant(ctx, tenantID)
	if err != nil {
		return entities.Tenant{}, err
	}
	if tenant.Status == entities.TenantStatusActive {
		return tenant, nil
	}

	tenant.Status = entities.TenantStatusActive
	tenant.SuspendedAt = nil
	tenant.UpdatedAt = u.now()
	if err := u.Repository.UpdateTenant(ctx, tenant); err != nil {
		return entities.Tenant{}, err
	}

	logger.Info("tenant reinstated",
		"event", "tenant_reinstated",
		"module", "identity-access/tenant-service",
		"layer", "application",
		"tenant_id", tenant.TenantID,
	)
	return tenant, nil
}

func (u TenantLifecycleUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
