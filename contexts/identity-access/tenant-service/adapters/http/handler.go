package httpadapter

import (
	"context"
	"log/slog"

	application "hivedesk/contexts/identity-access/tenant-service/application"
	"hivedesk/contexts/identity-access/tenant-service/application/commands"
	"hivedesk/contexts/identity-access/tenant-service/application/queries"
	"hivedesk/contexts/identity-access/tenant-service/domain/entities"
	"hivedesk/contexts/identity-access/tenant-service/ports"
	httptransport "hivedesk/contexts/identity-access/tenant-service/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	CreateTenant  commands.CreateTenantUseCase
	Lifecycle     commands.TenantLifecycleUseCase
	Memberships   commands.MembershipUseCase
	ResolveAccess queries.ResolveAccessUseCase
	Tenants       queries.ListTenantsUseCase
	Logger        *slog.Logger
}

func (h Handler) CreateTenantHandler(
	ctx context.Context,
	idempotencyKey string,
	request httptransport.CreateTenantRequest,
) (httptransport.CreateTenantResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("http create tenant received",
		"event", "tenant_http_create_received",
		"module", "identity-access/tenant-service",
		"layer", "transport",
		"slug", request.Slug,
	)

	result, err := h.CreateTenant.Execute(ctx, commands.CreateTenantCommand{
		IdempotencyKey: idempotencyKey,
		Name:           request.Name,
		Slug:           request.Slug,
		Plan:           request.Plan,
		Timezone:       request.Timezone,
		OwnerUserID:    request.OwnerUserID,
		OwnerEmail:     request.OwnerEmail,
	})
	if err != nil {
		return httptransport.CreateTenantResponse{}, err
	}
	return httptransport.CreateTenantResponse{
		Tenant:          tenantDTO(result.Tenant),
		OwnerMembership: membershipDTO(result.OwnerMembership),
		Replayed:        result.Replayed,
	}, nil
}

func (h Handler) GetTenantHandler(ctx context.Context, tenantID string) (httptransport.TenantDTO, error) {
	tenant, err := h.Tenants.Get(ctx, tenantID)
	if err != nil {
		return httptransport.TenantDTO{}, err
	}
	return tenantDTO(tenant), nil
}

func (h Handler) ListTenantsHandler(ctx context.Context, status, plan string) (httptransport.ListTenantsResponse, error) {
	tenants, err := h.Tenants.List(ctx, ports.TenantFilter{
		Status: entities.TenantStatus(status),
		Plan:   plan,
	})
	if err != nil {
		return httptransport.ListTenantsResponse{}, err
	}

	items := make([]httptransport.TenantDTO, 0, len(tenants))
	for _, tenant := range tenants {
		items = append(items, tenantDTO(tenant))
	}
	return httptransport.ListTenantsResponse{Tenants: items}, nil
}

func (h Handler) UpdateTenantHandler(
	ctx context.Context,
	tenantID string,
	request httptransport.UpdateTenantRequest,
) (httptransport.TenantDTO, error) {
	tenant, err := h.Lifecycle.Update(ctx, commands.UpdateTenantCommand{
		TenantID: tenantID,
		Name:     request.Name,
		Plan:     request.Plan,
		Timezone: request.Timezone,
	})
	if err != nil {
		return httptransport.TenantDTO{}, err
	}
	return tenantDTO(tenant), nil
}

func (h Handler) SuspendTenantHandler(ctx context.Context, tenantID string) (httptransport.TenantDTO, error) {
	tenant, err := h.Lifecycle.Suspend(ctx, tenantID)
	if err != nil {
		return httptransport.TenantDTO{}, err
	}
	return tenantDTO(tenant), nil
}

func (h Handler) ReinstateTenantHandler(ctx context.Context, tenantID string) (httptransport.TenantDTO, error) {
	tenant, err := h.Lifecycle.Reinstate(ctx, tenantID)
	if err != nil {
		return httptransport.TenantDTO{}, err
	}
	return tenantDTO(tenant), nil
}

func (h Handler) AddMembershipHandler(
	ctx context.Context,
	tenantID string,
	request httptransport.AddMembershipRequest,
) (httptransport.MembershipDTO, error) {
	membership, err := h.Memberships.Add(ctx, commands.AddMembershipCommand{
		TenantID: tenantID,
		UserID:   request.UserID,
		Email:    request.Email,
		Role:     request.Role,
	})
	if err != nil {
		return httptransport.MembershipDTO{}, err
	}
	return membershipDTO(membership), nil
}

func (h Handler) RemoveMembershipHandler(
	ctx context.Context,
	idempotencyKey string,
	tenantID string,
	userID string,
) (httptransport.RemoveMembershipResponse, error) {
	result, err := h.Memberships.Remove(ctx, idempotencyKey, tenantID, userID)
	if err != nil {
		return httptransport.RemoveMembershipResponse{}, err
	}
	return httptransport.RemoveMembershipResponse{
		Membership: membershipDTO(result.Membership),
		Replayed:   result.Replayed,
	}, nil
}

func (h Handler) ChangeRoleHandler(
	ctx context.Context,
	tenantID string,
	userID string,
	request httptransport.ChangeRoleRequest,
) (httptransport.MembershipDTO, error) {
	membership, err := h.Memberships.ChangeRole(ctx, tenantID, userID, request.Role)
	if err != nil {
		return httptransport.MembershipDTO{}, err
	}
	return membershipDTO(membership), nil
}

func (h Handler) SuspendMembershipHandler(ctx context.Context, tenantID, userID string) (httptransport.MembershipDTO, error) {
	membership, err := h.Memberships.Suspend(ctx, tenantID, userID)
	if err != nil {
		return httptransport.MembershipDTO{}, err
	}
	return membershipDTO(membership), nil
}

func (h Handler) ReinstateMembershipHandler(ctx context.Context, tenantID, userID string) (httptransport.MembershipDTO, error) {
	membership, err := h.Memberships.Reinstate(ctx, tenantID, userID)
	if err != nil {
		return httptransport.MembershipDTO{}, err
	}
	return membershipDTO(membership), nil
}

func (h Handler) ListMembershipsHandler(ctx context.Context, tenantID string) (httptransport.ListMembershipsResponse, error) {
	memberships, err := h.Tenants.ListMemberships(ctx, tenantID)
	if err != nil {
		return httptransport.ListMembershipsResponse{}, err
	}

	items := make([]httptransport.MembershipDTO, 0, len(memberships))
	for _, membership := range memberships {
		items = append(items, membershipDTO(membership))
	}
	return httptransport.ListMembershipsResponse{
		TenantID:    tenantID,
		Memberships: items,
	}, nil
}

func (h Handler) ResolveAccessHandler(
	ctx context.Context,
	request httptransport.ResolveAccessRequest,
) (httptransport.AccessDecisionResponse, error) {
	decision, err := h.ResolveAccess.Execute(ctx, queries.ResolveAccessQuery{
		UserID:   request.UserID,
		TenantID: request.TenantID,
	})
	if err != nil {
		return httptransport.AccessDecisionResponse{}, err
	}
	return httptransport.AccessDecisionResponse{
		UserID:     decision.UserID,
		TenantID:   decision.TenantID,
		Role:       decision.Role,
		Allowed:    decision.Allowed,
		Reason:     decision.Reason,
		ResolvedAt: decision.ResolvedAt,
	}, nil
}

func tenantDTO(item entities.Tenant) httptransport.TenantDTO {
	return httptransport.TenantDTO{
		TenantID:    item.TenantID,
		Name:        item.Name,
		Slug:        item.Slug,
		Plan:        item.Plan,
		Status:      string(item.Status),
		Timezone:    item.Timezone,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
		SuspendedAt: item.SuspendedAt,
	}
}

func membershipDTO(item entities.Membership) httptransport.MembershipDTO {
	return httptransport.MembershipDTO{
		MembershipID: item.MembershipID,
		TenantID:     item.TenantID,
		UserID:       item.UserID,
		Email:        item.Email,
		Role:         item.Role,
		Status:       string(item.Status),
		JoinedAt:     item.JoinedAt,
		SuspendedAt:  item.SuspendedAt,
	}
}
