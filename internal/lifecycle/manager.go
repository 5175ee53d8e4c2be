// Package lifecycle enforces retention and legal hold for a matter's data.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/casefile/internal/audit"
	"github.com/ppiankov/casefile/internal/model"
)

var (
	// ErrNothingToExport is returned when an export payload is empty
	ErrNothingToExport = errors.New("nothing to export")
	// ErrInvalidRetention is returned for non-positive retention periods
	ErrInvalidRetention = errors.New("retention days must be positive")
)

// Manager owns one matter's retention policy
type Manager struct {
	policy model.RetentionPolicy
	audit  *audit.Logger
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a manager with the given starting policy
func NewManager(policy model.RetentionPolicy, auditLog *audit.Logger, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		policy: policy,
		audit:  auditLog,
		logger: logger,
		now:    time.Now,
	}
}

// Policy returns the current retention policy
func (m *Manager) Policy() model.RetentionPolicy {
	return m.policy
}

// SetLegalHold turns the policy-level hold on or off
func (m *Manager) SetLegalHold(ctx context.Context, on bool, reason, actor string) error {
	m.policy.LegalHold = on
	m.policy.LegalHoldReason = ""
	if on {
		m.policy.LegalHoldReason = reason
	}
	m.policy.UpdatedAt = m.now().UTC()

	msg := "legal hold released"
	if on {
		msg = "legal hold placed"
	}
	m.logger.Info(msg, "matter", m.matterID(), "reason", reason)
	return m.record(ctx, model.AuditLegalHoldChanged, actor, msg, map[string]any{
		"legalHold": on,
		"reason":    reason,
	})
}

// SetRetention changes the retention period
func (m *Manager) SetRetention(ctx context.Context, days int, actor string) error {
	if days <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRetention, days)
	}
	previous := m.policy.Days
	m.policy.Days = days
	m.policy.UpdatedAt = m.now().UTC()

	return m.record(ctx, model.AuditRetentionChanged, actor, fmt.Sprintf("retention set to %d days", days), map[string]any{
		"days":     days,
		"previous": previous,
	})
}

// RequestDeletion decides a deletion request. A hold on either the policy
// or the request blocks it; a blocked request is a result, not an error.
func (m *Manager) RequestDeletion(ctx context.Context, req model.DeletionRequest) (model.DeletionResult, error) {
	now := m.now().UTC()
	result := model.DeletionResult{
		MatterID:    req.MatterID,
		Status:      model.DeletionCompleted,
		RequestedAt: now,
	}

	switch {
	case m.policy.LegalHold:
		result.Status = model.DeletionBlocked
		result.Reason = "matter is under legal hold"
		if m.policy.LegalHoldReason != "" {
			result.Reason += ": " + m.policy.LegalHoldReason
		}
	case req.LegalHold:
		result.Status = model.DeletionBlocked
		result.Reason = "request carries a legal hold"
	default:
		result.PurgeAfter = &now
	}

	m.logger.Info("deletion requested", "matter", req.MatterID, "status", result.Status)
	err := m.record(ctx, model.AuditDeletionRequested, req.Actor, fmt.Sprintf("deletion %s", result.Status), map[string]any{
		"status":           string(result.Status),
		"reason":           req.Reason,
		"requestLegalHold": req.LegalHold,
		"policyLegalHold":  m.policy.LegalHold,
	})
	if err != nil {
		return model.DeletionResult{}, err
	}
	return result, nil
}

// Expired reports whether data created at createdAt is past retention
func (m *Manager) Expired(createdAt time.Time) bool {
	if m.policy.Days <= 0 {
		return false
	}
	return m.now().After(createdAt.AddDate(0, 0, m.policy.Days))
}

func (m *Manager) record(ctx context.Context, t model.AuditEventType, actor, msg string, details map[string]any) error {
	if m.audit == nil {
		return nil
	}
	_, err := m.audit.Record(ctx, t, actor, msg, details)
	return err
}

func (m *Manager) matterID() string {
	if m.audit == nil {
		return ""
	}
	return m.audit.MatterID()
}
