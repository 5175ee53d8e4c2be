package domain

import (
	"context"

	"github.com/ppiankov/casefile/internal/model"
)

// GenericModule packages a chronology and evidence summary for domains
// without a dedicated module
type GenericModule struct {
	deps Deps
}

// NewGenericModule creates the fallback module
func NewGenericModule(deps Deps) *GenericModule {
	return &GenericModule{deps: deps.withDefaults()}
}

// Domain implements DomainModule
func (m *GenericModule) Domain() model.Domain { return model.DomainOther }

// Generate drafts the shared templates only
func (m *GenericModule) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	return generate(ctx, m.deps, in, m.buildDrafts)
}

func (m *GenericModule) buildDrafts(in GenerateInput) ([]model.DocumentDraft, Vars, []string) {
	vars := baseVars(in, m.deps.Now())
	drafts, warnings := draftTemplates(m.deps, in, vars, []string{"chronology", "evidence-summary"})
	return drafts, vars, warnings
}
