package queries

import (
	"context"
	"strings"

	"hivedesk/contexts/identity-access/tenant-service/domain/entities"
	domainerrors "hivedesk/contexts/identity-access/tenant-service/domain/errors"
	"hivedesk/contexts/identity-access/tenant-service/ports"
)

type ListTenantsUseCase struct {
	Repository ports.Repository
}

func (u ListTenantsUseCase) Get(ctx context.Context, tenantID string) (entities.Tenant, error) {
	if strings.TrimSpace(tenantID) == "" {
		return entities.Tenant{}, domainerrors.ErrInvalidTenantInput
	}
	return u.Repository.GetTenant(ctx, tenantID)
}

func (u ListTenantsUseCase) List(ctx context.Context, filter ports.TenantFilter) ([]entities.Tenant, error) {
	return u.Repository.ListTenants(ctx, filter)
}

func (u ListTenantsUseCase) ListMemberships(ctx context.Context, tenantID string) ([]entities.Membership, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domainerrors.ErrInvalidTenantInput
	}
	if _, err := u.Repository.GetTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	return u.Repository.ListMemberships(ctx, tenantID)
}
