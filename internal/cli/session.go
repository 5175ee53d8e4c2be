package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/casefile/internal/audit"
	"github.com/ppiankov/casefile/internal/cache"
	"github.com/ppiankov/casefile/internal/metrics"
	"github.com/ppiankov/casefile/internal/model"
	"github.com/ppiankov/casefile/internal/pipeline"
)

// ErrUnknownMatter is returned when no snapshot exists for a matter id
var ErrUnknownMatter = errors.New("unknown matter")

// app is what every matter command works with
type app struct {
	cfg      *model.Config
	pipeline *pipeline.Pipeline
	store    cache.Store
	audit    audit.Store
	metrics  *metrics.Metrics
}

// openApp wires the pipeline, snapshot store and audit store from config
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.Audit.Path != "" {
		if cfg.Audit.Path, err = cache.ExpandDir(cfg.Audit.Path); err != nil {
			return nil, err
		}
	}
	auditStore, err := audit.OpenStore(cfg.Audit)
	if err != nil {
		return nil, err
	}

	store, err := cache.NewSessionStore(cfg.Store)
	if err != nil {
		_ = auditStore.Close()
		return nil, err
	}

	m := metrics.New()
	p, err := pipeline.New(cfg,
		pipeline.WithLogger(slog.Default()),
		pipeline.WithMetrics(m),
		pipeline.WithAuditStore(auditStore),
	)
	if err != nil {
		_ = auditStore.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		pipeline: p,
		store:    store,
		audit:    auditStore,
		metrics:  m,
	}, nil
}

// close flushes metrics and closes the audit store
func (a *app) close() {
	if a.cfg.Output.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.Output.MetricsFile); err != nil {
			slog.Warn("failed to write metrics", "path", a.cfg.Output.MetricsFile, "error", err)
		}
	}
	if err := a.audit.Close(); err != nil {
		slog.Error("failed to close audit store", "error", err)
	}
}

// load restores a persisted matter
func (a *app) load(ctx context.Context, matterID string) (*pipeline.Session, error) {
	key, err := cache.SnapshotKey(matterID)
	if err != nil {
		return nil, err
	}
	data, err := a.store.Get(key)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMatter, matterID)
	}
	if err != nil {
		return nil, fmt.Errorf("load matter %s: %w", matterID, err)
	}

	var snap pipeline.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode matter %s: %w", matterID, err)
	}
	s, err := a.pipeline.Restore(ctx, &snap)
	if err != nil {
		return nil, err
	}
	if a.pipeline.Expired(s) {
		slog.Warn("matter is past its retention period", "matter", s.ID, "days", s.Lifecycle().Policy().Days)
	}
	return s, nil
}

// save persists the session. Snapshots expire with the retention period
// and never expire while a legal hold is on.
func (a *app) save(ctx context.Context, s *pipeline.Session) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode matter: %w", err)
	}
	key, err := cache.SnapshotKey(s.ID)
	if err != nil {
		return err
	}

	var ttl time.Duration
	switch policy := s.Lifecycle().Policy(); {
	case policy.LegalHold:
		ttl = -1
	case policy.Days > 0:
		ttl = time.Duration(policy.Days) * 24 * time.Hour
	}
	if err := a.store.Set(key, data, ttl); err != nil {
		return fmt.Errorf("save matter %s: %w", s.ID, err)
	}
	slog.Debug("matter saved", "matter", s.ID, "bytes", len(data))
	return nil
}

// withMatter loads a matter, runs fn and saves the result
func withMatter(ctx context.Context, matterID string, fn func(a *app, s *pipeline.Session) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	s, err := a.load(ctx, matterID)
	if err != nil {
		return err
	}
	if err := fn(a, s); err != nil {
		return err
	}
	return a.save(ctx, s)
}
