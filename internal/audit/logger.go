// Package audit records an append-only log of every state change to a matter.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/casefile/internal/model"
)

// DefaultActor is recorded when the caller does not name one
const DefaultActor = "user"

var complianceEvents = map[model.AuditEventType]bool{
	model.AuditDataExported:      true,
	model.AuditDeletionRequested: true,
	model.AuditLegalHoldChanged:  true,
	model.AuditRetentionChanged:  true,
}

// CategoryOf routes lifecycle events to compliance and the rest to operations
func CategoryOf(t model.AuditEventType) model.AuditCategory {
	if complianceEvents[t] {
		return model.CategoryCompliance
	}
	return model.CategoryOperations
}

// Logger appends events for one matter
type Logger struct {
	store    Store
	matterID string
	logger   *slog.Logger
	newID    func() string
	now      func() time.Time
}

// NewLogger creates a logger writing to store
func NewLogger(store Store, matterID string, logger *slog.Logger) *Logger {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{
		store:    store,
		matterID: matterID,
		logger:   logger,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Record appends one event
func (l *Logger) Record(ctx context.Context, t model.AuditEventType, actor, message string, details map[string]any) (model.AuditEvent, error) {
	if actor == "" {
		actor = DefaultActor
	}
	event := model.AuditEvent{
		ID:        l.newID(),
		Type:      t,
		Category:  CategoryOf(t),
		Timestamp: l.now().UTC(),
		Actor:     actor,
		MatterID:  l.matterID,
		Message:   message,
		Details:   details,
	}
	if err := l.store.Append(ctx, event); err != nil {
		return model.AuditEvent{}, fmt.Errorf("record %s: %w", t, err)
	}
	l.logger.Debug("audit event", "matter", l.matterID, "type", t, "actor", actor)
	return event, nil
}

// Restore re-appends previously recorded events
func (l *Logger) Restore(ctx context.Context, events []model.AuditEvent) error {
	for _, e := range events {
		if err := l.store.Append(ctx, e); err != nil {
			return fmt.Errorf("restore audit event %s: %w", e.ID, err)
		}
	}
	return nil
}

// Events lists the matter's events in the order recorded
func (l *Logger) Events(ctx context.Context) ([]model.AuditEvent, error) {
	return l.store.List(ctx, l.matterID)
}

// Clear drops the matter's events. Tests use it to reset the log.
func (l *Logger) Clear(ctx context.Context) error {
	return l.store.Clear(ctx, l.matterID)
}

// MatterID returns the matter the logger writes for
func (l *Logger) MatterID() string { return l.matterID }
