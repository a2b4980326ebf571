package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"hivedesk/contexts/workspace-operations/visitor-service/domain/entities"
	domainerrors "hivedesk/contexts/workspace-operations/visitor-service/domain/errors"
	"hivedesk/contexts/workspace-operations/visitor-service/ports"
)

// Service handles the front-desk visit lifecycle: register, check in with a
// badge, check out, and list.
type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	Notifier       ports.HostNotifier
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type RegisterVisitInput struct {
	IdempotencyKey string
	TenantID       string
	VisitorName    string
	VisitorEmail   string
	Company        string
	HostUserID     string
	ExpectedAt     time.Time
}

// RegisterVisitResult captures the visit and replay status.
type RegisterVisitResult struct {
	Visit    entities.Visit `json:"visit"`
	Replayed bool           `json:"replayed"`
}

func (s Service) RegisterVisit(ctx context.Context, input RegisterVisitInput) (RegisterVisitResult, error) {
	logger := ResolveLogger(s.Logger)

	if strings.TrimSpace(input.IdempotencyKey) == "" {
		return RegisterVisitResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	if strings.TrimSpace(input.TenantID) == "" ||
		strings.TrimSpace(input.VisitorName) == "" ||
		strings.TrimSpace(input.HostUserID) == "" {
		return RegisterVisitResult{}, domainerrors.ErrInvalidVisitInput
	}
	email := strings.ToLower(strings.TrimSpace(input.VisitorEmail))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return RegisterVisitResult{}, domainerrors.ErrInvalidVisitInput
		}
	}
	if input.ExpectedAt.IsZero() {
		return RegisterVisitResult{}, domainerrors.ErrInvalidVisitInput
	}

	now := s.now()
	requestHash, err := hashRequest(struct {
		TenantID    string    `json:"tenant_id"`
		VisitorName string    `json:"visitor_name"`
		HostUserID  string    `json:"host_user_id"`
		ExpectedAt  time.Time `json:"expected_at"`
	}{
		TenantID:    strings.TrimSpace(input.TenantID),
		VisitorName: strings.TrimSpace(input.VisitorName),
		HostUserID:  strings.TrimSpace(input.HostUserID),
		ExpectedAt:  input.ExpectedAt.UTC(),
	})
	if err != nil {
		return RegisterVisitResult{}, err
	}

	idempotencyKey := "visit_register:" + input.IdempotencyKey
	existing, found, err := s.Idempotency.GetRecord(ctx, idempotencyKey, now)
	if err != nil {
		return RegisterVisitResult{}, err
	}
	if found {
		if existing.RequestHash != requestHash {
			return RegisterVisitResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var replay RegisterVisitResult
		if err := json.Unmarshal(existing.ResponsePayload, &replay); err != nil {
			return RegisterVisitResult{}, err
		}
		replay.Replayed = true
		return replay, nil
	}

	visitID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return RegisterVisitResult{}, err
	}

	visit := entities.Visit{
		VisitID:      visitID,
		TenantID:     strings.TrimSpace(input.TenantID),
		VisitorName:  strings.TrimSpace(input.VisitorName),
		VisitorEmail: email,
		Company:      strings.TrimSpace(input.Company),
		HostUserID:   strings.TrimSpace(input.HostUserID),
		ExpectedAt:   input.ExpectedAt.UTC(),
		Status:       entities.VisitStatusExpected,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.CreateVisit(ctx, visit); err != nil {
		return RegisterVisitResult{}, err
	}

	result := RegisterVisitResult{Visit: visit}
	responsePayload, err := json.Marshal(result)
	if err != nil {
		return RegisterVisitResult{}, err
	}
	if err := s.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             idempotencyKey,
		Operation:       "register_visit",
		RequestHash:     requestHash,
		ResponsePayload: responsePayload,
		ExpiresAt:       now.Add(s.idempotencyTTL()),
	}); err != nil {
		return RegisterVisitResult{}, err
	}

	logger.Info("visit registered",
		"event", "visit_registered",
		"module", "workspace-operations/visitor-service",
		"layer", "application",
		"tenant_id", visit.TenantID,
		"visit_id", visit.VisitID,
	)
	return result, nil
}

// CheckIn assigns the next badge number for the tenant's current UTC day.
// Checking in an already checked-in visit returns the visit unchanged.
func (s Service) CheckIn(ctx context.Context, tenantID, visitID string) (entities.Visit, error) {
	logger := ResolveLogger(s.Logger)

	visit, err := s.Repo.GetVisit(ctx, tenantID, visitID)
	if err != nil {
		return entities.Visit{}, err
	}
	if visit.Status == entities.VisitStatusCheckedIn {
		return visit, nil
	}
	if visit.Status != entities.VisitStatusExpected {
		return entities.Visit{}, domainerrors.ErrVisitNotExpected
	}

	now := s.now()
	badge, err := s.Repo.NextBadgeNumber(ctx, visit.TenantID, entities.BadgeDay(now))
	if err != nil {
		return entities.Visit{}, err
	}

	visit.Status = entities.VisitStatusCheckedIn
	visit.BadgeNumber = badge
	visit.CheckedInAt = &now
	visit.UpdatedAt = now
	if err := s.Repo.UpdateVisit(ctx, visit); err != nil {
		return entities.Visit{}, err
	}

	if s.Notifier != nil {
		if err := s.Notifier.NotifyHostCheckedIn(ctx, visit.TenantID, visit.HostUserID, visit.VisitorName); err != nil {
			logger.Warn("host notification failed",
				"event", "visit_host_notify_failed",
				"module", "workspace-operations/visitor-service",
				"layer", "application",
				"tenant_id", visit.TenantID,
				"visit_id", visit.VisitID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("visit checked in",
		"event", "visit_checked_in",
		"module", "workspace-operations/visitor-service",
		"layer", "application",
		"tenant_id", visit.TenantID,
		"visit_id", visit.VisitID,
		"badge_number", visit.BadgeNumber,
	)
	return visit, nil
}

// CheckOut closes a checked-in visit. Checking out twice is a no-op.
func (s Service) CheckOut(ctx context.Context, tenantID, visitID string) (entities.Visit, error) {
	visit, err := s.Repo.GetVisit(ctx, tenantID, visitID)
	if err != nil {
		return entities.Visit{}, err
	}
	if visit.Status == entities.VisitStatusCheckedOut {
		return visit, nil
	}
	if visit.Status != entities.VisitStatusCheckedIn {
		return entities.Visit{}, domainerrors.ErrVisitNotCheckedIn
	}

	now := s.now()
	visit.Status = entities.VisitStatusCheckedOut
	visit.CheckedOutAt = &now
	visit.UpdatedAt = now
	if err := s.Repo.UpdateVisit(ctx, visit); err != nil {
		return entities.Visit{}, err
	}
	return visit, nil
}

func (s Service) GetVisit(ctx context.Context, tenantID, visitID string) (entities.Visit, error) {
	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(visitID) == "" {
		return entities.Visit{}, domainerrors.ErrVisitNotFound
	}
	return s.Repo.GetVisit(ctx, tenantID, visitID)
}

func (s Service) ListVisits(ctx context.Context, tenantID string, filter ports.VisitFilter) ([]entities.Visit, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domainerrors.ErrInvalidVisitInput
	}
	return s.Repo.ListVisits(ctx, tenantID, filter)
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func hashRequest(payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}
