// Package domain holds the per-domain drafting modules and their registry.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ppiankov/casefile/internal/draft"
	"github.com/ppiankov/casefile/internal/evidence"
	"github.com/ppiankov/casefile/internal/model"
	"github.com/ppiankov/casefile/internal/pack"
	"github.com/ppiankov/casefile/internal/score"
)

// ErrNoModule is returned for domains without a dedicated module
var ErrNoModule = errors.New("no domain module")

// Criminal roles
const (
	RoleAccused     = "accused"
	RoleVictim      = "victim"
	RoleComplainant = "complainant"
)

// GenerateInput is everything a module drafts from
type GenerateInput struct {
	Classification   model.MatterClassification
	ForumMap         model.ForumMap
	Index            model.EvidenceIndex
	EvidenceManifest *model.EvidenceManifest // Reused when set
	Timeline         []model.TimelineEntry
	Gaps             []model.TimelineGap
	Alerts           []model.MissingEvidenceAlert
	Notes            string
	Role             string // Criminal matters only
	ConfirmAll       bool
	FormMappings     []pack.FormMapping
	PackageName      string
	Warnings         []string // Caller warnings, listed before the module's own
}

// Result is a generated package with the drafts that went into it
type Result struct {
	Package   model.DocumentPackage
	Drafts    []model.DocumentDraft
	Readiness model.Readiness
}

// DomainModule drafts the documents for one area of law
type DomainModule interface {
	Domain() model.Domain
	Generate(ctx context.Context, in GenerateInput) (*Result, error)
}

// Deps are the collaborators every module shares
type Deps struct {
	Engine      *draft.Engine
	Packager    *pack.Packager
	Scorer      *score.Scorer
	DraftConfig model.DraftingConfig
	Logger      *slog.Logger
	Now         func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Engine == nil {
		d.Engine = draft.NewEngine(nil, nil, nil)
	}
	if d.Scorer == nil {
		d.Scorer = score.NewScorer()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// BuildPackageFromDrafts is the packaging step every module runs after
// drafting: it reuses or builds the evidence manifest, stamps the source
// manifest, scores readiness and assembles the package. Extra warnings
// and every draft's missing confirmations are merged into the package warnings.
func BuildPackageFromDrafts(ctx context.Context, deps Deps, in GenerateInput, drafts []model.DocumentDraft, vars Vars, warnings []string) (*Result, error) {
	deps = deps.withDefaults()
	if deps.Packager == nil {
		return nil, errors.New("packager not configured")
	}
	now := deps.Now()

	manifest := evidence.BuildManifest(in.Index, now)
	if in.EvidenceManifest != nil {
		manifest = *in.EvidenceManifest
	}

	sources := in.Index.SourceManifest
	if sources.CompiledAt == nil {
		t := now.UTC()
		sources.CompiledAt = &t
	}

	readiness := deps.Scorer.Calculate(score.Input{
		MatterID: in.Classification.ID,
		Index:    in.Index,
		Timeline: in.Timeline,
		Gaps:     in.Gaps,
		Drafts:   drafts,
		Now:      now,
	})

	pkg, err := deps.Packager.Assemble(ctx, pack.AssembleInput{
		Name:             in.PackageName,
		Classification:   in.Classification,
		ForumMap:         in.ForumMap,
		Drafts:           drafts,
		SourceManifest:   sources,
		EvidenceManifest: manifest,
		Timeline:         in.Timeline,
		Gaps:             in.Gaps,
		Alerts:           in.Alerts,
		Readiness:        &readiness,
		Vars:             vars,
		FormMappings:     in.FormMappings,
	})
	if err != nil {
		return nil, fmt.Errorf("assemble package: %w", err)
	}

	pkg.Warnings = append(pkg.Warnings, in.Warnings...)
	pkg.Warnings = append(pkg.Warnings, warnings...)
	for _, d := range drafts {
		for _, section := range d.MissingConfirmations {
			pkg.Warnings = append(pkg.Warnings, fmt.Sprintf("%s: section %q is not confirmed", d.Title, section))
		}
	}

	deps.Logger.Info("package generated",
		"matter", in.Classification.ID,
		"domain", in.Classification.Domain,
		"drafts", len(drafts),
		"warnings", len(pkg.Warnings),
	)

	return &Result{
		Package:   pkg,
		Drafts:    drafts,
		Readiness: readiness,
	}, nil
}

// Registry maps domains to modules
type Registry struct {
	modules map[model.Domain]DomainModule
	generic DomainModule
}

// NewRegistry registers the eight built-in modules
func NewRegistry(deps Deps) *Registry {
	deps = deps.withDefaults()
	r := &Registry{
		modules: make(map[model.Domain]DomainModule),
		generic: NewGenericModule(deps),
	}
	for _, m := range []DomainModule{
		NewInsuranceModule(deps),
		NewLandlordTenantModule(deps),
		NewNegligenceModule(deps),
		NewCriminalModule(deps),
		NewConsumerModule(deps),
		NewEstateModule(deps),
		NewMunicipalModule(deps),
		NewMalpracticeModule(deps),
	} {
		r.Register(m)
	}
	return r
}

// Register adds or replaces a module
func (r *Registry) Register(m DomainModule) {
	r.modules[m.Domain()] = m
}

// Get returns the module for a domain or ErrNoModule
func (r *Registry) Get(d model.Domain) (DomainModule, error) {
	m, ok := r.modules[d]
	if !ok {
		return nil, fmt.Errorf("%s: %w", d, ErrNoModule)
	}
	return m, nil
}

// Resolve returns the domain module, or the generic module when none exists
func (r *Registry) Resolve(d model.Domain) DomainModule {
	if m, err := r.Get(d); err == nil {
		return m
	}
	return r.generic
}

// Domains lists the registered domains in sorted order
func (r *Registry) Domains() []model.Domain {
	out := make([]model.Domain, 0, len(r.modules))
	for d := range r.modules {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
