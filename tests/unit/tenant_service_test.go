package unit

import (
	"context"
	"errors"
	"testing"

	tenantservice "hivedesk/contexts/identity-access/tenant-service"
	"hivedesk/contexts/identity-access/tenant-service/application/queries"
	"hivedesk/contexts/identity-access/tenant-service/domain/entities"
	domainerrors "hivedesk/contexts/identity-access/tenant-service/domain/errors"
	httptransport "hivedesk/contexts/identity-access/tenant-service/transport/http"
)

func newTenant(t *testing.T, module tenantservice.Module, slug string) httptransport.CreateTenantResponse {
	t.Helper()
	resp, err := module.Handler.CreateTenantHandler(context.Background(), "idem-"+slug, httptransport.CreateTenantRequest{
		Name:        "Acme Coworking",
		Slug:        slug,
		Plan:        "growth",
		Timezone:    "Europe/Berlin",
		OwnerUserID: "user-owner",
		OwnerEmail:  "owner@acme.example",
	})
	if err != nil {
		t.Fatalf("create tenant should succeed: %v", err)
	}
	return resp
}

func TestCreateTenantIdempotencyReplay(t *testing.T) {
	module := tenantservice.NewInMemoryModule(nil)

	req := httptransport.CreateTenantRequest{
		Name:        "Acme Coworking",
		Slug:        "acme",
		OwnerUserID: "user-owner",
		OwnerEmail:  "owner@acme.example",
	}
	first, err := module.Handler.CreateTenantHandler(context.Background(), "idem-1", req)
	if err != nil {
		t.Fatalf("first create should succeed: %v", err)
	}
	if first.Tenant.Plan != "starter" {
		t.Fatalf("expected default plan starter, got %s", first.Tenant.Plan)
	}
	if first.OwnerMembership.Role != entities.RoleOwner {
		t.Fatalf("expected owner membership, got %s", first.OwnerMembership.Role)
	}

	second, err := module.Handler.CreateTenantHandler(context.Background(), "idem-1", req)
	if err != nil {
		t.Fatalf("replay should succeed: %v", err)
	}
	if !second.Replayed {
		t.Fatalf("expected replayed response")
	}
	if second.Tenant.TenantID != first.Tenant.TenantID {
		t.Fatalf("expected same tenant id, got %s and %s", first.Tenant.TenantID, second.Tenant.TenantID)
	}

	req.Name = "Different Name"
	if _, err := module.Handler.CreateTenantHandler(context.Background(), "idem-1", req); !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
}

func TestCreateTenantSlugTaken(t *testing.T) {
	module := tenantservice.NewInMemoryModule(nil)
	newTenant(t, module, "acme")

	_, err := module.Handler.CreateTenantHandler(context.Background(), "idem-other", httptransport.CreateTenantRequest{
		Name:        "Acme Again",
		Slug:        "acme",
		OwnerUserID: "user-2",
		OwnerEmail:  "two@acme.example",
	})
	if !errors.Is(err, domainerrors.ErrSlugTaken) {
		t.Fatalf("expected slug taken, got %v", err)
	}
}

func TestCreateTenantRejectsBadSlug(t *testing.T) {
	module := tenantservice.NewInMemoryModule(nil)

	for _, slug := range []string{"", "ab", "-leading", "trailing-", "UPPER", "with space"} {
		_, err := module.Handler.CreateTenantHandler(context.Background(), "idem-"+slug, httptransport.CreateTenantRequest{
			Name:        "Acme",
			Slug:        slug,
			OwnerUserID: "user-owner",
			OwnerEmail:  "owner@acme.example",
		})
		if !errors.Is(err, domainerrors.ErrInvalidTenantInput) {
			t.Fatalf("slug %q: expected invalid tenant input, got %v", slug, err)
		}
	}
}

func TestRemoveLastOwnerRefused(t *testing.T) {
	module := tenantservice.NewInMemoryModule(nil)
	created := newTenant(t, module, "acme")

	_, err := module.Handler.RemoveMembershipHandler(context.Background(), "idem-remove", created.Tenant.TenantID, "user-owner")
	if !errors.Is(err, domainerrors.ErrLastOwner) {
		t.Fatalf("expected last owner refusal, got %v", err)
	}

	if _, err := module.Handler.AddMembershipHandler(context.Background(), created.Tenant.TenantID, httptransport.AddMembershipRequest{
		UserID: "user-second",
		Email:  "second@acme.example",
		Role:   entities.RoleOwner,
	}); err != nil {
		t.Fatalf("second owner add should succeed: %v", err)
	}

	removed, err := module.Handler.RemoveMembershipHandler(context.Background(), "idem-remove-2", created.Tenant.TenantID, "user-owner")
	if err != nil {
		t.Fatalf("removal with a second owner should succeed: %v", err)
	}
	if removed.Membership.UserID != "user-owner" {
		t.Fatalf("expected removed membership for user-owner, got %s", removed.Membership.UserID)
	}
}

func TestDemoteLastOwnerRefused(t *testing.T) {
	module := tenantservice.NewInMemoryModule(nil)
	created := newTenant(t, module, "acme")

	_, err := module.Handler.ChangeRoleHandler(context.Background(), created.Tenant.TenantID, "user-owner", httptransport.ChangeRoleRequest{
		Role: entities.RoleAdmin,
	})
	if !errors.Is(err, domainerrors.ErrLastOwner) {
		t.Fatalf("expected last owner refusal, got %v", err)
	}
}

func TestResolveAccessDenialPrecedence(t *testing.T) {
	module := tenantservice.NewInMemoryModule(nil)
	created := newTenant(t, module, "acme")
	tenantID := created.Tenant.TenantID

	decision, err := module.Access.Execute(context.Background(), queries.ResolveAccessQuery{
		UserID:   "user-owner",
		TenantID: "missing-tenant",
	})
	if err != nil || decision.Allowed {
		t.Fatalf("expected denial for missing tenant, got %+v err %v", decision, err)
	}
	if decision.Reason != entities.AccessReasonTenantNotFound {
		t.Fatalf("expected tenant_not_found, got %s", decision.Reason)
	}

	decision, err = module.Access.Execute(context.Background(), queries.ResolveAccessQuery{
		UserID:   "user-stranger",
		TenantID: tenantID,
	})
	if err != nil || decision.Allowed {
		t.Fatalf("expected denial for stranger, got %+v err %v", decision, err)
	}
	if decision.Reason != entities.AccessReasonMembershipNotFound {
		t.Fatalf("expected membership_not_found, got %s", decision.Reason)
	}

	if _, err := module.Handler.AddMembershipHandler(context.Background(), tenantID, httptransport.AddMembershipRequest{
		UserID: "user-member",
		Email:  "member@acme.example",
		Role:   entities.RoleMember,
	}); err != nil {
		t.Fatalf("add membership should succeed: %v", err)
	}
	if _, err := module.Handler.SuspendMembershipHandler(context.Background(), tenantID, "user-member"); err != nil {
		t.Fatalf("suspend membership should succeed: %v", err)
	}
	decision, err = module.Access.Execute(context.Background(), queries.ResolveAccessQuery{
		UserID:   "user-member",
		TenantID: tenantID,
	})
	if err != nil || decision.Allowed {
		t.Fatalf("expected denial for suspended member, got %+v err %v", decision, err)
	}
	if decision.Reason != entities.AccessReasonMembershipSuspended {
		t.Fatalf("expected membership_suspended, got %s", decision.Reason)
	}

	// A suspended tenant wins over membership state so existence is not leaked.
	if _, err := module.Handler.SuspendTenantHandler(context.Background(), tenantID); err != nil {
		t.Fatalf("suspend tenant should succeed: %v", err)
	}
	decision, err = module.Access.Execute(context.Background(), queries.ResolveAccessQuery{
		UserID:   "user-stranger",
		TenantID: tenantID,
	})
	if err != nil || decision.Allowed {
		t.Fatalf("expected denial for suspended tenant, got %+v err %v", decision, err)
	}
	if decision.Reason != entities.AccessReasonTenantSuspended {
		t.Fatalf("expected tenant_suspended, got %s", decision.Reason)
	}

	if _, err := module.Handler.ReinstateTenantHandler(context.Background(), tenantID); err != nil {
		t.Fatalf("reinstate tenant should succeed: %v", err)
	}
	decision, err = module.Access.Execute(context.Background(), queries.ResolveAccessQuery{
		UserID:   "user-owner",
		TenantID: tenantID,
	})
	if err != nil || !decision.Allowed {
		t.Fatalf("expected owner access, got %+v err %v", decision, err)
	}
	if decision.Role != entities.RoleOwner {
		t.Fatalf("expected owner role, got %s", decision.Role)
	}
}
