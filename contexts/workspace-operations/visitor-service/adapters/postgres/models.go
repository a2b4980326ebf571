package postgresadapter

import (
	"strings"
	"time"

	"hivedesk/contexts/workspace-operations/visitor-service/domain/entities"
)

type visitModel struct {
	VisitID      string `gorm:"primaryKey;column:visit_id"`
	TenantID     string `gorm:"index"`
	VisitorName  string
	VisitorEmail string
	Company      string
	HostUserID   string
	ExpectedAt   time.Time `gorm:"index"`
	Status       string
	BadgeNumber  int
	CheckedInAt  *time.Time
	CheckedOutAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (visitModel) TableName() string {
	return "visits"
}

func visitModelFromEntity(item entities.Visit) visitModel {
	return visitModel{
		VisitID:      strings.TrimSpace(item.VisitID),
		TenantID:     strings.TrimSpace(item.TenantID),
		VisitorName:  strings.TrimSpace(item.VisitorName),
		VisitorEmail: strings.TrimSpace(item.VisitorEmail),
		Company:      strings.TrimSpace(item.Company),
		HostUserID:   strings.TrimSpace(item.HostUserID),
		ExpectedAt:   item.ExpectedAt.UTC(),
		Status:       string(item.Status),
		BadgeNumber:  item.BadgeNumber,
		CheckedInAt:  normalizeOptionalTime(item.CheckedInAt),
		CheckedOutAt: normalizeOptionalTime(item.CheckedOutAt),
		CreatedAt:    item.CreatedAt.UTC(),
		UpdatedAt:    item.UpdatedAt.UTC(),
	}
}

func (m visitModel) toEntity() entities.Visit {
	return entities.Visit{
		VisitID:      m.VisitID,
		TenantID:     m.TenantID,
		VisitorName:  m.VisitorName,
		VisitorEmail: m.VisitorEmail,
		Company:      m.Company,
		HostUserID:   m.HostUserID,
		ExpectedAt:   m.ExpectedAt.UTC(),
		Status:       entities.VisitStatus(m.Status),
		BadgeNumber:  m.BadgeNumber,
		CheckedInAt:  normalizeOptionalTime(m.CheckedInAt),
		CheckedOutAt: normalizeOptionalTime(m.CheckedOutAt),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key             string `gorm:"primaryKey"`
	Operation       string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

func (idempotencyModel) TableName() string {
	return "visitor_idempotency_records"
}

type badgeCounterModel struct {
	TenantID string `gorm:"primaryKey"`
	Day      string `gorm:"primaryKey"`
	Value    int
}

func (badgeCounterModel) TableName() string {
	return "visitor_badge_counters"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil || value.IsZero() {
		return nil
	}
	utc := value.UTC()
	return &utc
}
