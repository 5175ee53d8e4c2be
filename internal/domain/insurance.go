package domain

import (
	"context"
	"regexp"

	"github.com/ppiankov/casefile/internal/model"
)

var (
	policyPattern = regexp.MustCompile(`(?i:policy)\s*(?:(?i:number|no\.?|#))?\s*:?\s*([A-Z0-9][A-Z0-9-]{3,})`)
	claimPattern  = regexp.MustCompile(`(?i:claim)\s*(?:(?i:number|no\.?|#))\s*:?\s*([A-Z0-9][A-Z0-9-]{3,})`)
)

// InsuranceModule drafts claim summaries and complaint escalations
type InsuranceModule struct {
	deps Deps
}

// NewInsuranceModule creates the insurance module
func NewInsuranceModule(deps Deps) *InsuranceModule {
	return &InsuranceModule{deps: deps.withDefaults()}
}

// Domain implements DomainModule
func (m *InsuranceModule) Domain() model.Domain { return model.DomainInsurance }

// Generate drafts the claim summary and internal complaint. Ontario matters
// also get the regulator complaint for after the insurer's final response.
func (m *InsuranceModule) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	return generate(ctx, m.deps, in, m.buildDrafts)
}

func (m *InsuranceModule) buildDrafts(in GenerateInput) ([]model.DocumentDraft, Vars, []string) {
	vars := baseVars(in, m.deps.Now())
	vars.capture(in.Notes, "policyNumber", policyPattern, "[Policy Number]")
	vars.capture(in.Notes, "claimNumber", claimPattern, "[Claim Number]")

	ids := []string{"chronology", "insurance-claim-summary", "insurance-internal-complaint"}
	if in.Classification.Jurisdiction == model.JurisdictionOntario {
		ids = append(ids, "insurance-fsra-complaint")
	}
	drafts, warnings := draftTemplates(m.deps, in, vars, ids)
	return drafts, vars, warnings
}
