package domain

import (
	"context"
	"regexp"

	"github.com/ppiankov/casefile/internal/model"
)

var (
	deceasedPattern = regexp.MustCompile(`(?i:estate of|the late|deceased,?|passed away,?)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)
	executorPattern = regexp.MustCompile(`(?i:executor|executrix|estate trustee)(?:\s+is|:|,)?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)
)

// EstateModule drafts estate information requests
type EstateModule struct {
	deps Deps
}

// NewEstateModule creates the estate module
func NewEstateModule(deps Deps) *EstateModule {
	return &EstateModule{deps: deps.withDefaults()}
}

// Domain implements DomainModule
func (m *EstateModule) Domain() model.Domain { return model.DomainEstate }

// Generate drafts the request to the estate trustee and the estate chronology
func (m *EstateModule) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	return generate(ctx, m.deps, in, m.buildDrafts)
}

func (m *EstateModule) buildDrafts(in GenerateInput) ([]model.DocumentDraft, Vars, []string) {
	vars := baseVars(in, m.deps.Now())
	vars.capture(in.Notes, "deceasedName", deceasedPattern, "[Deceased Name]")
	vars.capture(in.Notes, "executorName", executorPattern, "[Estate Trustee]")
	drafts, warnings := draftTemplates(m.deps, in, vars, []string{"chronology", "estate-information-request", "estate-chronology"})
	return drafts, vars, warnings
}
