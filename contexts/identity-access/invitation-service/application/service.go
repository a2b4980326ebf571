package application

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"hivedesk/contexts/identity-access/invitation-service/domain/entities"
	domainerrors "hivedesk/contexts/identity-access/invitation-service/domain/errors"
	"hivedesk/contexts/identity-access/invitation-service/ports"
)

const defaultInvitationTTL = 14 * 24 * time.Hour

// Service issues, revokes, and lists invitation mirrors. Provider calls happen
// before the mirror write so a provider failure never leaves a phantom row.
type Service struct {
	Repo          ports.Repository
	Provider      ports.ProviderGateway
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	InvitationTTL time.Duration
	Logger        *slog.Logger
}

type CreateInvitationInput struct {
	TenantID  string
	Email     string
	Role      string
	InvitedBy string
}

func (s Service) CreateInvitation(ctx context.Context, input CreateInvitationInput) (entities.Invitation, error) {
	logger := ResolveLogger(s.Logger)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if strings.TrimSpace(input.TenantID) == "" || strings.TrimSpace(input.Role) == "" {
		return entities.Invitation{}, domainerrors.ErrInvalidInvitationInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return entities.Invitation{}, domainerrors.ErrInvalidInvitationInput
	}

	if _, err := s.Repo.FindPendingByTenantEmail(ctx, input.TenantID, email); err == nil {
		return entities.Invitation{}, domainerrors.ErrPendingInvitationExists
	} else if !errors.Is(err, domainerrors.ErrInvitationNotFound) {
		return entities.Invitation{}, err
	}

	providerID, err := s.Provider.CreateInvitation(ctx, email, input.TenantID, input.Role)
	if err != nil {
		logger.Error("provider invitation create failed",
			"event", "invitation_provider_create_failed",
			"module", "identity-access/invitation-service",
			"layer", "application",
			"tenant_id", input.TenantID,
			"error", err.Error(),
		)
		return entities.Invitation{}, err
	}

	invitationID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Invitation{}, err
	}

	now := s.now()
	invitation := entities.Invitation{
		InvitationID:         invitationID,
		TenantID:             strings.TrimSpace(input.TenantID),
		Email:                email,
		Role:                 strings.TrimSpace(input.Role),
		Status:               entities.InvitationStatusPending,
		ProviderInvitationID: providerID,
		InvitedBy:            strings.TrimSpace(input.InvitedBy),
		CreatedAt:            now,
		ExpiresAt:            now.Add(s.invitationTTL()),
	}
	if err := s.Repo.CreateInvitation(ctx, invitation); err != nil {
		return entities.Invitation{}, err
	}

	logger.Info("invitation created",
		"event", "invitation_created",
		"module", "identity-access/invitation-service",
		"layer", "application",
		"tenant_id", invitation.TenantID,
		"invitation_id", invitation.InvitationID,
	)
	return invitation, nil
}

// RevokeInvitation revokes at the provider first, then marks the mirror row.
// Revoking a non-pending invitation is rejected.
func (s Service) RevokeInvitation(ctx context.Context, tenantID, invitationID string) (entities.Invitation, error) {
	invitation, err := s.Repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return entities.Invitation{}, err
	}
	if invitation.TenantID != strings.TrimSpace(tenantID) {
		return entities.Invitation{}, domainerrors.ErrInvitationNotFound
	}
	if invitation.Status != entities.InvitationStatusPending {
		return entities.Invitation{}, domainerrors.ErrInvitationNotPending
	}

	if err := s.Provider.RevokeInvitation(ctx, invitation.ProviderInvitationID); err != nil {
		return entities.Invitation{}, err
	}

	now := s.now()
	invitation.Status = entities.InvitationStatusRevoked
	invitation.RevokedAt = &now
	if err := s.Repo.UpdateInvitation(ctx, invitation); err != nil {
		return entities.Invitation{}, err
	}
	return invitation, nil
}

func (s Service) ListInvitations(ctx context.Context, tenantID string, status entities.InvitationStatus) ([]entities.Invitation, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domainerrors.ErrInvalidInvitationInput
	}
	return s.Repo.ListInvitations(ctx, tenantID, ports.InvitationFilter{Status: status})
}

func (s Service) invitationTTL() time.Duration {
	if s.InvitationTTL <= 0 {
		return defaultInvitationTTL
	}
	return s.InvitationTTL
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
