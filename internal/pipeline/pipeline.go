// Package pipeline orchestrates intake, evidence, drafting and the data
// lifecycle for one matter at a time.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/casefile/internal/audit"
	"github.com/ppiankov/casefile/internal/authority"
	"github.com/ppiankov/casefile/internal/classify"
	"github.com/ppiankov/casefile/internal/domain"
	"github.com/ppiankov/casefile/internal/draft"
	"github.com/ppiankov/casefile/internal/evidence"
	"github.com/ppiankov/casefile/internal/fetch"
	"github.com/ppiankov/casefile/internal/metrics"
	"github.com/ppiankov/casefile/internal/model"
	"github.com/ppiankov/casefile/internal/pack"
	"github.com/ppiankov/casefile/internal/redact"
	"github.com/ppiankov/casefile/internal/score"
	"github.com/ppiankov/casefile/internal/sources"
	"github.com/ppiankov/casefile/internal/worker"
)

// ErrNoClassification is returned when an operation needs a classified matter
var ErrNoClassification = errors.New("matter has not been classified")

// previewRunes bounds the redacted preview of uploaded text
const previewRunes = 280

// Pipeline holds the stateless collaborators shared by every session
type Pipeline struct {
	config      *model.Config
	classifier  *classify.MatterClassifier
	pillars     *classify.PillarClassifier
	explainer   *classify.PillarExplainer
	assessor    *classify.TimelineAssessor
	authorities *authority.Registry
	router      *authority.Router
	timeline    *evidence.TimelineGenerator
	redactor    *redact.Redactor
	modules     *domain.Registry
	sourceKinds *sources.Classifier
	validator   *sources.Validator
	fetcher     *fetch.Fetcher
	auditStore  audit.Store
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithMetrics records pipeline metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithAuditStore sets the store new sessions log to
func WithAuditStore(s audit.Store) Option {
	return func(p *Pipeline) { p.auditStore = s }
}

// WithFetcher replaces the official-link fetcher
func WithFetcher(f *fetch.Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New wires a pipeline from configuration. An authority file named in the
// config is merged over the built-in seed.
func New(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	p := &Pipeline{
		config:      cfg,
		classifier:  classify.NewMatterClassifier(nil),
		pillars:     classify.NewPillarClassifier(),
		explainer:   classify.NewPillarExplainer(),
		assessor:    classify.NewTimelineAssessor(),
		timeline:    evidence.NewTimelineGenerator(),
		redactor:    redact.NewRedactor(),
		sourceKinds: sources.NewClassifier(nil),
		logger:      slog.Default(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.auditStore == nil {
		p.auditStore = audit.NewMemoryStore()
	}

	registry, err := authority.DefaultRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.Packaging.AuthorityFile != "" {
		extra, err := authority.LoadFile(cfg.Packaging.AuthorityFile)
		if err != nil {
			return nil, err
		}
		registry.Merge(extra)
	}
	p.authorities = registry
	p.router = authority.NewRouter(registry, cfg.Packaging.SmallClaimsLimit)

	library, err := pack.DefaultLibrary()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	engine := draft.NewEngine(nil, nil, draft.NewDisclaimers(cfg.Drafting.Disclaimer))
	p.modules = domain.NewRegistry(domain.Deps{
		Engine:      engine,
		Packager:    pack.NewPackager(library, p.logger),
		Scorer:      score.NewScorer(),
		DraftConfig: cfg.Drafting,
		Logger:      p.logger,
		Now:         p.now,
	})

	if p.fetcher == nil {
		p.fetcher = fetch.NewFetcher(
			cfg.HTTP.Timeout,
			cfg.HTTP.UserAgent,
			cfg.HTTP.MaxBodyBytes,
			cfg.HTTP.RespectRobots,
			cfg.HTTP.HTTPProxy,
			cfg.HTTP.HTTPSProxy,
			cfg.HTTP.NoProxy,
		).WithLimiter(worker.NewLimiterFromConfig(cfg.RateLimiting))
	}
	p.validator = sources.NewValidator(p.fetcher.Client(), cfg.HTTP.UserAgent, cfg.Concurrency.ValidationWorkers, p.sourceKinds)

	return p, nil
}

// Authorities returns the authority registry
func (p *Pipeline) Authorities() *authority.Registry {
	return p.authorities
}
