package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"hivedesk/contexts/workspace-operations/booking-service/domain/entities"
	domainerrors "hivedesk/contexts/workspace-operations/booking-service/domain/errors"
	"hivedesk/contexts/workspace-operations/booking-service/ports"
)

// CreateResourceCommand declares a new bookable unit.
type CreateResourceCommand struct {
	TenantID        string
	Name            string
	Kind            entities.ResourceKind
	Capacity        int
	HourlyRateCents int64
}

// UpdateResourceCommand changes mutable resource attributes.
type UpdateResourceCommand struct {
	TenantID        string
	ResourceID      string
	Name            string
	Capacity        int
	HourlyRateCents int64
	Active          *bool
}

// ResourceUseCase manages the bookable resource catalog.
type ResourceUseCase struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u ResourceUseCase) Create(ctx context.Context, cmd CreateResourceCommand) (entities.Resource, error) {
	if strings.TrimSpace(cmd.TenantID) == "" || strings.TrimSpace(cmd.Name) == "" {
		return entities.Resource{}, domainerrors.ErrInvalidResourceInput
	}
	if !entities.ValidResourceKind(cmd.Kind) {
		return entities.Resource{}, domainerrors.ErrInvalidResourceInput
	}
	if cmd.Capacity <= 0 || cmd.HourlyRateCents < 0 {
		return entities.Resource{}, domainerrors.ErrInvalidResourceInput
	}

	resourceID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Resource{}, err
	}

	now := u.now()
	resource := entities.Resource{
		ResourceID:      resourceID,
		TenantID:        strings.TrimSpace(cmd.TenantID),
		Name:            strings.TrimSpace(cmd.Name),
		Kind:            cmd.Kind,
		Capacity:        cmd.Capacity,
		HourlyRateCents: cmd.HourlyRateCents,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.Repository.CreateResource(ctx, resource); err != nil {
		return entities.Resource{}, err
	}
	return resource, nil
}

func (u ResourceUseCase) Update(ctx context.Context, cmd UpdateResourceCommand) (entities.Resource, error) {
	resource, err := u.Repository.GetResource(ctx, cmd.TenantID, cmd.ResourceID)
	if err != nil {
		return entities.Resource{}, err
	}

	if name := strings.TrimSpace(cmd.Name); name != "" {
		resource.Name = name
	}
	if cmd.Capacity > 0 {
		resource.Capacity = cmd.Capacity
	}
	if cmd.HourlyRateCents >= 0 {
		resource.HourlyRateCents = cmd.HourlyRateCents
	}
	if cmd.Active != nil {
		resource.Active = *cmd.Active
	}
	resource.UpdatedAt = u.now()

	if err := u.Repository.UpdateResource(ctx, resource); err != nil {
		return entities.Resource{}, err
	}
	return resource, nil
}

func (u ResourceUseCase) List(ctx context.Context, tenantID string) ([]entities.Resource, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domainerrors.ErrInvalidResourceInput
	}
	return u.Repository.ListResources(ctx, tenantID)
}

func (u ResourceUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
