package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hivedesk/contexts/workspace-operations/booking-service/domain/entities"
	domainerrors "hivedesk/contexts/workspace-operations/booking-service/domain/errors"
	"hivedesk/contexts/workspace-operations/booking-service/ports"
	"hivedesk/internal/shared/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) CreateResource(ctx context.Context, resource entities.Resource) error {
	row := resourceModelFromEntity(resource)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetResource(ctx context.Context, tenantID, resourceID string) (entities.Resource, error) {
	var row resourceModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_id = ?", strings.TrimSpace(tenantID), strings.TrimSpace(resourceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Resource{}, domainerrors.ErrResourceNotFound
		}
		return entities.Resource{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateResource(ctx context.Context, resource entities.Resource) error {
	row := resourceModelFromEntity(resource)
	result := r.db.WithContext(ctx).
		Model(&resourceModel{}).
		Where("tenant_id = ? AND resource_id = ?", row.TenantID, row.ResourceID).
		Updates(map[string]any{
			"name":              row.Name,
			"capacity":          row.Capacity,
			"hourly_rate_cents": row.HourlyRateCents,
			"active":            row.Active,
			"updated_at":        row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrResourceNotFound
	}
	return nil
}

func (r *Repository) ListResources(ctx context.Context, tenantID string) ([]entities.Resource, error) {
	var rows []resourceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", strings.TrimSpace(tenantID)).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Resource, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// CreateBooking locks the resource row, re-checks for confirmed overlaps, and
// inserts, all inside one transaction so concurrent requests serialize.
func (r *Repository) CreateBooking(ctx context.Context, booking entities.Booking) error {
	row := bookingModelFromEntity(booking)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resource resourceModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND resource_id = ?", row.TenantID, row.ResourceID).
			First(&resource).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrResourceNotFound
			}
			return err
		}

		var overlapping int64
		err = tx.
			Model(&bookingModel{}).
			Where("tenant_id = ? AND resource_id = ? AND status = ?",
				row.TenantID, row.ResourceID, string(entities.BookingStatusConfirmed)).
			Where("starts_at < ? AND ends_at > ?", row.EndsAt, row.StartsAt).
			Count(&overlapping).
			Error
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return domainerrors.ErrBookingConflict
		}

		return tx.Create(&row).Error
	})
}

func (r *Repository) GetBooking(ctx context.Context, tenantID, bookingID string) (entities.Booking, error) {
	var row bookingModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND booking_id = ?", strings.TrimSpace(tenantID), strings.TrimSpace(bookingID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Booking{}, domainerrors.ErrBookingNotFound
		}
		return entities.Booking{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateBooking(ctx context.Context, booking entities.Booking) error {
	row := bookingModelFromEntity(booking)
	result := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("tenant_id = ? AND booking_id = ?", row.TenantID, row.BookingID).
		Updates(map[string]any{
			"status":       row.Status,
			"notes":        row.Notes,
			"updated_at":   row.UpdatedAt,
			"cancelled_at": row.CancelledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrBookingNotFound
	}
	return nil
}

func (r *Repository) ListBookings(ctx context.Context, tenantID string, filter ports.BookingFilter) ([]entities.Booking, error) {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("tenant_id = ?", strings.TrimSpace(tenantID))
	if strings.TrimSpace(filter.ResourceID) != "" {
		tx = tx.Where("resource_id = ?", strings.TrimSpace(filter.ResourceID))
	}
	if strings.TrimSpace(filter.UserID) != "" {
		tx = tx.Where("user_id = ?", strings.TrimSpace(filter.UserID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if !filter.From.IsZero() {
		tx = tx.Where("starts_at >= ?", filter.From.UTC())
	}
	if !filter.To.IsZero() {
		tx = tx.Where("starts_at < ?", filter.To.UTC())
	}

	var rows []bookingModel
	if err := tx.Order("starts_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Booking, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CompleteElapsed(ctx context.Context, now time.Time) ([]entities.Booking, error) {
	completed := make([]entities.Booking, 0)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []bookingModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND ends_at <= ?", string(entities.BookingStatusConfirmed), now.UTC()).
			Order("ends_at ASC").
			Find(&rows).
			Error
		if err != nil {
			return err
		}

		for _, row := range rows {
			result := tx.
				Model(&bookingModel{}).
				Where("booking_id = ?", row.BookingID).
				Updates(map[string]any{
					"status":     string(entities.BookingStatusCompleted),
					"updated_at": now.UTC(),
				})
			if result.Error != nil {
				return result.Error
			}

			booking := row.toEntity()
			booking.Status = entities.BookingStatusCompleted
			booking.UpdatedAt = now.UTC()

			payload, err := json.Marshal(events.Envelope{
				EventID:        uuid.NewString(),
				EventType:      "booking.completed",
				SourceService:  "booking-service",
				OccurredAtUTC:  now.UTC(),
				TenantID:       booking.TenantID,
				EntityType:     "booking",
				EntityID:       booking.BookingID,
				PayloadVersion: 1,
				Payload:        booking,
			})
			if err != nil {
				return err
			}
			outboxRow := outboxModel{
				OutboxID:  uuid.NewString(),
				EventType: "booking.completed",
				Payload:   payload,
				CreatedAt: now.UTC(),
			}
			if err := tx.Create(&outboxRow).Error; err != nil {
				return err
			}
			completed = append(completed, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	tx := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Update("published_at", &at).
		Error
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return ports.IdempotencyRecord{
		Key:             row.Key,
		Operation:       row.Operation,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		Operation:       record.Operation,
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != row.RequestHash {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}
