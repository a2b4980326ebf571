package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"hivedesk/contexts/member-experience/notification-service/domain/entities"
	domainerrors "hivedesk/contexts/member-experience/notification-service/domain/errors"
	"hivedesk/contexts/member-experience/notification-service/ports"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateNotification(ctx context.Context, notification entities.Notification) error {
	row := notificationModelFromEntity(notification)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetNotification(ctx context.Context, tenantID, notificationID string) (entities.Notification, error) {
	var row notificationModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND notification_id = ?", strings.TrimSpace(tenantID), strings.TrimSpace(notificationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Notification{}, domainerrors.ErrNotificationNotFound
		}
		return entities.Notification{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateNotification(ctx context.Context, notification entities.Notification) error {
	row := notificationModelFromEntity(notification)
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("tenant_id = ? AND notification_id = ?", row.TenantID, row.NotificationID).
		Updates(map[string]any{
			"status":   row.Status,
			"attempts": row.Attempts,
			"sent_at":  row.SentAt,
			"read_at":  row.ReadAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotificationNotFound
	}
	return nil
}

func (r *Repository) ListNotifications(ctx context.Context, tenantID string, filter ports.NotificationFilter) ([]entities.Notification, error) {
	tx := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("tenant_id = ?", strings.TrimSpace(tenantID))
	if strings.TrimSpace(filter.UserID) != "" {
		tx = tx.Where("user_id = ?", strings.TrimSpace(filter.UserID))
	}
	if filter.UnreadOnly {
		tx = tx.Where("status = ?", string(entities.NotificationStatusSent))
	}

	var rows []notificationModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListPending(ctx context.Context, limit int) ([]entities.Notification, error) {
	tx := r.db.WithContext(ctx).
		Where("status = ?", string(entities.NotificationStatusPending)).
		Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []notificationModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}
