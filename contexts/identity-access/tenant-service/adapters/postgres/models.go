package postgresadapter

import (
	"strings"
	"time"

	"hivedesk/contexts/identity-access/tenant-service/domain/entities"
)

type tenantModel struct {
	TenantID    string `gorm:"primaryKey;column:tenant_id"`
	Name        string
	Slug        string `gorm:"uniqueIndex"`
	Plan        string
	Status      string
	Timezone    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SuspendedAt *time.Time
}

func (tenantModel) TableName() string {
	return "tenants"
}

func tenantModelFromEntity(item entities.Tenant) tenantModel {
	return tenantModel{
		TenantID:    strings.TrimSpace(item.TenantID),
		Name:        strings.TrimSpace(item.Name),
		Slug:        strings.TrimSpace(item.Slug),
		Plan:        strings.TrimSpace(item.Plan),
		Status:      string(item.Status),
		Timezone:    strings.TrimSpace(item.Timezone),
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
		SuspendedAt: normalizeOptionalTime(item.SuspendedAt),
	}
}

func (m tenantModel) toEntity() entities.Tenant {
	return entities.Tenant{
		TenantID:    m.TenantID,
		Name:        m.Name,
		Slug:        m.Slug,
		Plan:        m.Plan,
		Status:      entities.TenantStatus(m.Status),
		Timezone:    m.Timezone,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
		SuspendedAt: normalizeOptionalTime(m.SuspendedAt),
	}
}

type membershipModel struct {
	MembershipID string `gorm:"primaryKey;column:membership_id"`
	TenantID     string `gorm:"uniqueIndex:idx_memberships_tenant_user"`
	UserID       string `gorm:"uniqueIndex:idx_memberships_tenant_user"`
	Email        string
	Role         string
	Status       string
	JoinedAt     time.Time
	SuspendedAt  *time.Time
}

func (membershipModel) TableName() string {
	return "memberships"
}

func membershipModelFromEntity(item entities.Membership) membershipModel {
	return membershipModel{
		MembershipID: strings.TrimSpace(item.MembershipID),
		TenantID:     strings.TrimSpace(item.TenantID),
		UserID:       strings.TrimSpace(item.UserID),
		Email:        strings.TrimSpace(item.Email),
		Role:         item.Role,
		Status:       string(item.Status),
		JoinedAt:     item.JoinedAt.UTC(),
		SuspendedAt:  normalizeOptionalTime(item.SuspendedAt),
	}
}

func (m membershipModel) toEntity() entities.Membership {
	return entities.Membership{
		MembershipID: m.MembershipID,
		TenantID:     m.TenantID,
		UserID:       m.UserID,
		Email:        m.Email,
		Role:         m.Role,
		Status:       entities.MembershipStatus(m.Status),
		JoinedAt:     m.JoinedAt.UTC(),
		SuspendedAt:  normalizeOptionalTime(m.SuspendedAt),
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
	return "tenant_idempotency_records"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil || value.IsZero() {
		return nil
	}
	utc := value.UTC()
	return &utc
}
