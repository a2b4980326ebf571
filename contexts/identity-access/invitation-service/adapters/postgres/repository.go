package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hivedesk/contexts/identity-access/invitation-service/domain/entities"
	domainerrors "hivedesk/contexts/identity-access/invitation-service/domain/errors"
	"hivedesk/contexts/identity-access/invitation-service/ports"

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

type invitationModel struct {
	InvitationID         string `gorm:"primaryKey;column:invitation_id"`
	TenantID             string `gorm:"index"`
	Email                string `gorm:"index"`
	Role                 string
	Status               string
	ProviderInvitationID string
	InvitedBy            string
	CreatedAt            time.Time
	ExpiresAt            time.Time
	AcceptedAt           *time.Time
	RevokedAt            *time.Time
}

func (invitationModel) TableName() string {
	return "invitations"
}

type sessionSeenModel struct {
	ProviderUserID string `gorm:"primaryKey;column:provider_user_id"`
	LastSeenAt     time.Time
}

func (sessionSeenModel) TableName() string {
	return "session_last_seen"
}

type eventDedupModel struct {
	EventID     string `gorm:"primaryKey;column:event_id"`
	PayloadHash string
	ExpiresAt   time.Time
	ProcessedAt time.Time
}

func (eventDedupModel) TableName() string {
	return "invitation_event_dedup"
}

func (r *Repository) CreateInvitation(ctx context.Context, invitation entities.Invitation) error {
	row := invitationModelFromEntity(invitation)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrPendingInvitationExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetInvitation(ctx context.Context, invitationID string) (entities.Invitation, error) {
	var row invitationModel
	err := r.db.WithContext(ctx).
		Where("invitation_id = ?", strings.TrimSpace(invitationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Invitation{}, domainerrors.ErrInvitationNotFound
		}
		return entities.Invitation{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindPendingByEmail(ctx context.Context, email string, now time.Time) ([]entities.Invitation, error) {
	var rows []invitationModel
	if err := r.db.WithContext(ctx).
		Where("email = ? AND status = ? AND expires_at > ?",
			strings.TrimSpace(email), string(entities.InvitationStatusPending), now.UTC()).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Invitation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) FindPendingByTenantEmail(ctx context.Context, tenantID, email string) (entities.Invitation, error) {
	var row invitationModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ? AND status = ?",
			strings.TrimSpace(tenantID), strings.TrimSpace(email), string(entities.InvitationStatusPending)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Invitation{}, domainerrors.ErrInvitationNotFound
		}
		return entities.Invitation{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListInvitations(ctx context.Context, tenantID string, filter ports.InvitationFilter) ([]entities.Invitation, error) {
	tx := r.db.WithContext(ctx).
		Model(&invitationModel{}).
		Where("tenant_id = ?", strings.TrimSpace(tenantID))
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []invitationModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Invitation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateInvitation(ctx context.Context, invitation entities.Invitation) error {
	row := invitationModelFromEntity(invitation)
	result := r.db.WithContext(ctx).
		Model(&invitationModel{}).
		Where("invitation_id = ?", row.InvitationID).
		Updates(map[string]any{
			"status":      row.Status,
			"accepted_at": row.AcceptedAt,
			"revoked_at":  row.RevokedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvitationNotFound
	}
	return nil
}

func (r *Repository) ExpirePending(ctx context.Context, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&invitationModel{}).
		Where("status = ? AND expires_at <= ?", string(entities.InvitationStatusPending), now.UTC()).
		Update("status", string(entities.InvitationStatusExpired))
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) RecordSessionSeen(ctx context.Context, providerUserID string, at time.Time) error {
	row := sessionSeenModel{
		ProviderUserID: strings.TrimSpace(providerUserID),
		LastSeenAt:     at.UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"last_seen_at": row.LastSeenAt}),
		}).
		Create(&row).
		Error
}

func (r *Repository) ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	row := eventDedupModel{
		EventID:     strings.TrimSpace(eventID),
		PayloadHash: strings.TrimSpace(payloadHash),
		ExpiresAt:   expiresAt.UTC(),
		ProcessedAt: time.Now().UTC(),
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return false, createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return false, nil
	}

	var existing eventDedupModel
	if err := r.db.WithContext(ctx).
		Select("payload_hash").
		Where("event_id = ?", row.EventID).
		First(&existing).
		Error; err != nil {
		return false, err
	}
	if existing.PayloadHash != row.PayloadHash {
		return false, domainerrors.ErrIdempotencyKeyConflict
	}
	return true, nil
}

func (r *Repository) ReleaseEvent(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Delete(&eventDedupModel{}).
		Error
}

func invitationModelFromEntity(item entities.Invitation) invitationModel {
	return invitationModel{
		InvitationID:         strings.TrimSpace(item.InvitationID),
		TenantID:             strings.TrimSpace(item.TenantID),
		Email:                strings.TrimSpace(item.Email),
		Role:                 strings.TrimSpace(item.Role),
		Status:               string(item.Status),
		ProviderInvitationID: strings.TrimSpace(item.ProviderInvitationID),
		InvitedBy:            strings.TrimSpace(item.InvitedBy),
		CreatedAt:            item.CreatedAt.UTC(),
		ExpiresAt:            item.ExpiresAt.UTC(),
		AcceptedAt:           normalizeOptionalTime(item.AcceptedAt),
		RevokedAt:            normalizeOptionalTime(item.RevokedAt),
	}
}

func (m invitationModel) toEntity() entities.Invitation {
	return entities.Invitation{
		InvitationID:         m.InvitationID,
		TenantID:             m.TenantID,
		Email:                m.Email,
		Role:                 m.Role,
		Status:               entities.InvitationStatus(m.Status),
		ProviderInvitationID: m.ProviderInvitationID,
		InvitedBy:            m.InvitedBy,
		CreatedAt:            m.CreatedAt.UTC(),
		ExpiresAt:            m.ExpiresAt.UTC(),
		AcceptedAt:           normalizeOptionalTime(m.AcceptedAt),
		RevokedAt:            normalizeOptionalTime(m.RevokedAt),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil || value.IsZero() {
		return nil
	}
	utc := value.UTC()
	return &utc
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
