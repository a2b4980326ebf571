package httpadapter

import (
	"context"
	"log/slog"

	application "hivedesk/contexts/workspace-operations/visitor-service/application"
	"hivedesk/contexts/workspace-operations/visitor-service/domain/entities"
	"hivedesk/contexts/workspace-operations/visitor-service/ports"
	httptransport "hivedesk/contexts/workspace-operations/visitor-service/transport/http"
)

// Handler maps HTTP DTOs to the visit service.
type Handler struct {
	Visits application.Service
	Logger *slog.Logger
}

func (h Handler) RegisterVisitHandler(
	ctx context.Context,
	idempotencyKey string,
	tenantID string,
	request httptransport.RegisterVisitRequest,
) (httptransport.RegisterVisitResponse, error) {
	result, err := h.Visits.RegisterVisit(ctx, application.RegisterVisitInput{
		IdempotencyKey: idempotencyKey,
		TenantID:       tenantID,
		VisitorName:    request.VisitorName,
		VisitorEmail:   request.VisitorEmail,
		Company:        request.Company,
		HostUserID:     request.HostUserID,
		ExpectedAt:     request.ExpectedAt,
	})
	if err != nil {
		return httptransport.RegisterVisitResponse{}, err
	}
	return httptransport.RegisterVisitResponse{
		Visit:    visitDTO(result.Visit),
		Replayed: result.Replayed,
	}, nil
}

func (h Handler) CheckInHandler(ctx context.Context, tenantID, visitID string) (httptransport.VisitDTO, error) {
	visit, err := h.Visits.CheckIn(ctx, tenantID, visitID)
	if err != nil {
		return httptransport.VisitDTO{}, err
	}
	return visitDTO(visit), nil
}

func (h Handler) CheckOutHandler(ctx context.Context, tenantID, visitID string) (httptransport.VisitDTO, error) {
	visit, err := h.Visits.CheckOut(ctx, tenantID, visitID)
	if err != nil {
		return httptransport.VisitDTO{}, err
	}
	return visitDTO(visit), nil
}

func (h Handler) GetVisitHandler(ctx context.Context, tenantID, visitID string) (httptransport.VisitDTO, error) {
	visit, err := h.Visits.GetVisit(ctx, tenantID, visitID)
	if err != nil {
		return httptransport.VisitDTO{}, err
	}
	return visitDTO(visit), nil
}

func (h Handler) ListVisitsHandler(
	ctx context.Context,
	tenantID string,
	status, hostUserID, day string,
) (httptransport.ListVisitsResponse, error) {
	visits, err := h.Visits.ListVisits(ctx, tenantID, ports.VisitFilter{
		Status:     entities.VisitStatus(status),
		HostUserID: hostUserID,
		Day:        day,
	})
	if err != nil {
		return httptransport.ListVisitsResponse{}, err
	}

	items := make([]httptransport.VisitDTO, 0, len(visits))
	for _, visit := range visits {
		items = append(items, visitDTO(visit))
	}
	return httptransport.ListVisitsResponse{Visits: items}, nil
}

func visitDTO(item entities.Visit) httptransport.VisitDTO {
	return httptransport.VisitDTO{
		VisitID:      item.VisitID,
		TenantID:     item.TenantID,
		VisitorName:  item.VisitorName,
		VisitorEmail: item.VisitorEmail,
		Company:      item.Company,
		HostUserID:   item.HostUserID,
		ExpectedAt:   item.ExpectedAt,
		Status:       string(item.Status),
		BadgeNumber:  item.BadgeNumber,
		CheckedInAt:  item.CheckedInAt,
		CheckedOutAt: item.CheckedOutAt,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
