package httpadapter

import (
	"context"
	"log/slog"

	application "hivedesk/contexts/member-experience/notification-service/application"
	"hivedesk/contexts/member-experience/notification-service/domain/entities"
	"hivedesk/contexts/member-experience/notification-service/ports"
	httptransport "hivedesk/contexts/member-experience/notification-service/transport/http"
)

// Handler maps HTTP DTOs to the notification service.
type Handler struct {
	Notifications application.Service
	Logger        *slog.Logger
}

func (h Handler) ListNotificationsHandler(
	ctx context.Context,
	tenantID, userID string,
	unreadOnly bool,
) (httptransport.ListNotificationsResponse, error) {
	notifications, err := h.Notifications.ListNotifications(ctx, tenantID, ports.NotificationFilter{
		UserID:     userID,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		return httptransport.ListNotificationsResponse{}, err
	}

	items := make([]httptransport.NotificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		items = append(items, notificationDTO(notification))
	}
	return httptransport.ListNotificationsResponse{Notifications: items}, nil
}

func (h Handler) MarkReadHandler(ctx context.Context, tenantID, userID, notificationID string) (httptransport.NotificationDTO, error) {
	notification, err := h.Notifications.MarkRead(ctx, tenantID, userID, notificationID)
	if err != nil {
		return httptransport.NotificationDTO{}, err
	}
	return notificationDTO(notification), nil
}

func notificationDTO(item entities.Notification) httptransport.NotificationDTO {
	return httptransport.NotificationDTO{
		NotificationID: item.NotificationID,
		TenantID:       item.TenantID,
		UserID:         item.UserID,
		Channel:        string(item.Channel),
		Kind:           item.Kind,
		Subject:        item.Subject,
		Body:           item.Body,
		Status:         string(item.Status),
		Attempts:       item.Attempts,
		CreatedAt:      item.CreatedAt,
		SentAt:         item.SentAt,
		ReadAt:         item.ReadAt,
	}
}
