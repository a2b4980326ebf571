package httpadapter

import (
	"context"
	"log/slog"

	application "hivedesk/contexts/identity-access/invitation-service/application"
	"hivedesk/contexts/identity-access/invitation-service/domain/entities"
	httptransport "hivedesk/contexts/identity-access/invitation-service/transport/http"
)

// Handler maps HTTP DTOs to the invitation application service.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateInvitationHandler(
	ctx context.Context,
	tenantID string,
	invitedBy string,
	request httptransport.CreateInvitationRequest,
) (httptransport.InvitationDTO, error) {
	invitation, err := h.Service.CreateInvitation(ctx, application.CreateInvitationInput{
		TenantID:  tenantID,
		Email:     request.Email,
		Role:      request.Role,
		InvitedBy: invitedBy,
	})
	if err != nil {
		return httptransport.InvitationDTO{}, err
	}
	return invitationDTO(invitation), nil
}

func (h Handler) RevokeInvitationHandler(ctx context.Context, tenantID, invitationID string) (httptransport.InvitationDTO, error) {
	invitation, err := h.Service.RevokeInvitation(ctx, tenantID, invitationID)
	if err != nil {
		return httptransport.InvitationDTO{}, err
	}
	return invitationDTO(invitation), nil
}

func (h Handler) ListInvitationsHandler(ctx context.Context, tenantID, status string) (httptransport.ListInvitationsResponse, error) {
	invitations, err := h.Service.ListInvitations(ctx, tenantID, entities.InvitationStatus(status))
	if err != nil {
		return httptransport.ListInvitationsResponse{}, err
	}

	items := make([]httptransport.InvitationDTO, 0, len(invitations))
	for _, invitation := range invitations {
		items = append(items, invitationDTO(invitation))
	}
	return httptransport.ListInvitationsResponse{
		TenantID:    tenantID,
		Invitations: items,
	}, nil
}

func invitationDTO(item entities.Invitation) httptransport.InvitationDTO {
	return httptransport.InvitationDTO{
		InvitationID: item.InvitationID,
		TenantID:     item.TenantID,
		Email:        item.Email,
		Role:         item.Role,
		Status:       string(item.Status),
		InvitedBy:    item.InvitedBy,
		CreatedAt:    item.CreatedAt,
		ExpiresAt:    item.ExpiresAt,
		AcceptedAt:   item.AcceptedAt,
		RevokedAt:    item.RevokedAt,
	}
}
