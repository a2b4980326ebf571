package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hivedesk/contexts/identity-access/tenant-service/domain/entities"
	domainerrors "hivedesk/contexts/identity-access/tenant-service/domain/errors"
	"hivedesk/contexts/identity-access/tenant-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
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

func (r *Repository) CreateTenant(ctx context.Context, tenant entities.Tenant) error {
	row := tenantModelFromEntity(tenant)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrSlugTaken
		}
		return err
	}
	return nil
}

func (r *Repository) GetTenant(ctx context.Context, tenantID string) (entities.Tenant, error) {
	var row tenantModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", strings.TrimSpace(tenantID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Tenant{}, domainerrors.ErrTenantNotFound
		}
		return entities.Tenant{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetTenantBySlug(ctx context.Context, slug string) (entities.Tenant, error) {
	var row tenantModel
	err := r.db.WithContext(ctx).
		Where("slug = ?", strings.TrimSpace(slug)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Tenant{}, domainerrors.ErrTenantNotFound
		}
		return entities.Tenant{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListTenants(ctx context.Context, filter ports.TenantFilter) ([]entities.Tenant, error) {
	tx := r.db.WithContext(ctx).Model(&tenantModel{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if strings.TrimSpace(filter.Plan) != "" {
		tx = tx.Where("plan = ?", strings.TrimSpace(filter.Plan))
	}

	var rows []tenantModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Tenant, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateTenant(ctx context.Context, tenant entities.Tenant) error {
	row := tenantModelFromEntity(tenant)
	result := r.db.WithContext(ctx).
		Model(&tenantModel{}).
		Where("tenant_id = ?", row.TenantID).
		Updates(map[string]any{
			"name":         row.Name,
			"plan":         row.Plan,
			"status":       row.Status,
			"timezone":     row.Timezone,
			"updated_at":   row.UpdatedAt,
			"suspended_at": row.SuspendedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTenantNotFound
	}
	return nil
}

func (r *Repository) AddMembership(ctx context.Context, membership entities.Membership) error {
	row := membershipModelFromEntity(membership)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrMembershipExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetMembership(ctx context.Context, tenantID, userID string) (entities.Membership, error) {
	var row membershipModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", strings.TrimSpace(tenantID), strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Membership{}, domainerrors.ErrMembershipNotFound
		}
		return entities.Membership{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListMemberships(ctx context.Context, tenantID string) ([]entities.Membership, error) {
	var rows []membershipModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", strings.TrimSpace(tenantID)).
		Order("joined_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Membership, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateMembership(ctx context.Context, membership entities.Membership) error {
	row := membershipModelFromEntity(membership)
	result := r.db.WithContext(ctx).
		Model(&membershipModel{}).
		Where("membership_id = ?", row.MembershipID).
		Updates(map[string]any{
			"role":         row.Role,
			"status":       row.Status,
			"suspended_at": row.SuspendedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMembershipNotFound
	}
	return nil
}

func (r *Repository) RemoveMembership(ctx context.Context, membershipID string) error {
	result := r.db.WithContext(ctx).
		Where("membership_id = ?", strings.TrimSpace(membershipID)).
		Delete(&membershipModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMembershipNotFound
	}
	return nil
}

func (r *Repository) CountActiveOwners(ctx context.Context, tenantID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&membershipModel{}).
		Where("tenant_id = ? AND role = ? AND status = ?",
			strings.TrimSpace(tenantID), entities.RoleOwner, string(entities.MembershipStatusActive)).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
