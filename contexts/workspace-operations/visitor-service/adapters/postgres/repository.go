package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hivedesk/contexts/workspace-operations/visitor-service/domain/entities"
	domainerrors "hivedesk/contexts/workspace-operations/visitor-service/domain/errors"
	"hivedesk/contexts/workspace-operations/visitor-service/ports"

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

func (r *Repository) CreateVisit(ctx context.Context, visit entities.Visit) error {
	row := visitModelFromEntity(visit)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetVisit(ctx context.Context, tenantID, visitID string) (entities.Visit, error) {
	var row visitModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND visit_id = ?", strings.TrimSpace(tenantID), strings.TrimSpace(visitID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Visit{}, domainerrors.ErrVisitNotFound
		}
		return entities.Visit{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateVisit(ctx context.Context, visit entities.Visit) error {
	row := visitModelFromEntity(visit)
	result := r.db.WithContext(ctx).
		Model(&visitModel{}).
		Where("tenant_id = ? AND visit_id = ?", row.TenantID, row.VisitID).
		Updates(map[string]any{
			"status":         row.Status,
			"badge_number":   row.BadgeNumber,
			"checked_in_at":  row.CheckedInAt,
			"checked_out_at": row.CheckedOutAt,
			"updated_at":     row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVisitNotFound
	}
	return nil
}

func (r *Repository) ListVisits(ctx context.Context, tenantID string, filter ports.VisitFilter) ([]entities.Visit, error) {
	tx := r.db.WithContext(ctx).
		Model(&visitModel{}).
		Where("tenant_id = ?", strings.TrimSpace(tenantID))
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if strings.TrimSpace(filter.HostUserID) != "" {
		tx = tx.Where("host_user_id = ?", strings.TrimSpace(filter.HostUserID))
	}
	if strings.TrimSpace(filter.Day) != "" {
		day, err := time.Parse("2006-01-02", strings.TrimSpace(filter.Day))
		if err != nil {
			return nil, domainerrors.ErrInvalidVisitInput
		}
		tx = tx.Where("expected_at >= ? AND expected_at < ?", day, day.Add(24*time.Hour))
	}

	var rows []visitModel
	if err := tx.Order("expected_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Visit, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// NextBadgeNumber upserts the per-tenant per-day counter and returns the new
// value in one statement so concurrent check-ins never share a badge.
func (r *Repository) NextBadgeNumber(ctx context.Context, tenantID, day string) (int, error) {
	var value int
	err := r.db.WithContext(ctx).
		Raw(`INSERT INTO visitor_badge_counters (tenant_id, day, value)
			VALUES (?, ?, 1)
			ON CONFLICT (tenant_id, day)
			DO UPDATE SET value = visitor_badge_counters.value + 1
			RETURNING value`,
			strings.TrimSpace(tenantID), strings.TrimSpace(day)).
		Scan(&value).
		Error
	if err != nil {
		return 0, err
	}
	return value, nil
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

func (r *Repository) MarkNoShows(ctx context.Context, cutoff, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&visitModel{}).
		Where("status = ? AND expected_at < ?", string(entities.VisitStatusExpected), cutoff.UTC()).
		Updates(map[string]any{
			"status":     string(entities.VisitStatusNoShow),
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}
