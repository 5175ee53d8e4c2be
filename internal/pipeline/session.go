package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/casefile/internal/audit"
	"github.com/ppiankov/casefile/internal/evidence"
	"github.com/ppiankov/casefile/internal/lifecycle"
	"github.com/ppiankov/casefile/internal/model"
)

// SnapshotVersion is the current Snapshot layout
const SnapshotVersion = 1

// ErrSnapshotVersion is returned when a snapshot was written by a newer layout
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// Session is the mutable state of one matter. It is owned by a single
// caller at a time and is not safe for concurrent use.
type Session struct {
	ID               string
	CreatedAt        time.Time
	Input            model.ClassificationInput
	Classification   *model.MatterClassification
	IsAppeal         bool
	IsJudicialReview bool
	Role             string

	indexer   *evidence.Indexer
	audit     *audit.Logger
	lifecycle *lifecycle.Manager
}

// NewSession starts an empty matter with the configured retention policy
func (p *Pipeline) NewSession() *Session {
	id := p.newID()
	log := audit.NewLogger(p.auditStore, id, p.logger)
	return &Session{
		ID:        id,
		CreatedAt: p.now().UTC(),
		indexer:   evidence.NewIndexer(p.logger),
		audit:     log,
		lifecycle: lifecycle.NewManager(model.RetentionPolicy{Days: p.config.Retention.Days}, log, p.logger),
	}
}

// Index is the current evidence index
func (s *Session) Index() model.EvidenceIndex {
	return s.indexer.GenerateIndex()
}

// Lifecycle is the matter's retention manager
func (s *Session) Lifecycle() *lifecycle.Manager {
	return s.lifecycle
}

// AuditLog returns the matter's audit events in order
func (s *Session) AuditLog(ctx context.Context) ([]model.AuditEvent, error) {
	return s.audit.Events(ctx)
}

// Snapshot is the persisted form of a Session
type Snapshot struct {
	Version          int                         `json:"version"`
	ID               string                      `json:"id"`
	CreatedAt        time.Time                   `json:"createdAt"`
	Input            model.ClassificationInput   `json:"input"`
	Classification   *model.MatterClassification `json:"classification,omitempty"`
	IsAppeal         bool                        `json:"isAppeal,omitempty"`
	IsJudicialReview bool                        `json:"isJudicialReview,omitempty"`
	Role             string                      `json:"role,omitempty"`
	Index            model.EvidenceIndex         `json:"index"`
	Retention        model.RetentionPolicy       `json:"retention"`
	Audit            []model.AuditEvent          `json:"audit"`
}

// Snapshot captures everything needed to resume the session later
func (s *Session) Snapshot(ctx context.Context) (*Snapshot, error) {
	events, err := s.audit.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return &Snapshot{
		Version:          SnapshotVersion,
		ID:               s.ID,
		CreatedAt:        s.CreatedAt,
		Input:            s.Input,
		Classification:   s.Classification,
		IsAppeal:         s.IsAppeal,
		IsJudicialReview: s.IsJudicialReview,
		Role:             s.Role,
		Index:            s.indexer.GenerateIndex(),
		Retention:        s.lifecycle.Policy(),
		Audit:            events,
	}, nil
}

// Restore rebuilds a session from a snapshot. Audit events already in the
// store are not duplicated.
func (p *Pipeline) Restore(ctx context.Context, snap *Snapshot) (*Session, error) {
	if snap == nil || snap.ID == "" {
		return nil, errors.New("empty snapshot")
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}

	log := audit.NewLogger(p.auditStore, snap.ID, p.logger)
	if err := log.Restore(ctx, snap.Audit); err != nil {
		return nil, fmt.Errorf("restore audit log: %w", err)
	}

	return &Session{
		ID:               snap.ID,
		CreatedAt:        snap.CreatedAt,
		Input:            snap.Input,
		Classification:   snap.Classification,
		IsAppeal:         snap.IsAppeal,
		IsJudicialReview: snap.IsJudicialReview,
		Role:             snap.Role,
		indexer:          evidence.Restore(snap.Index, p.logger),
		audit:            log,
		lifecycle:        lifecycle.NewManager(snap.Retention, log, p.logger),
	}, nil
}
