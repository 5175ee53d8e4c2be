package domain

import (
	"context"
	"regexp"
	"strings"

	"github.com/ppiankov/casefile/internal/model"
)

var (
	chargePattern    = regexp.MustCompile(`(?i)\b(?:charged with|charge of|charges? (?:is|are|:))\s+([^.\n]+)`)
	courtDatePattern = regexp.MustCompile(`(?i)\b(?:court date|appearance|hearing)\s+(?:is\s+)?(?:on\s+)?(\d{4}-\d{2}-\d{2}|[A-Z][a-z]+ \d{1,2},? \d{4})`)
)

// Role-gated template sets. The accused never receives victim material.
var criminalTemplates = map[string][]string{
	RoleAccused:     {"chronology", "criminal-charge-summary", "criminal-release-conditions", "criminal-disclosure-request"},
	RoleVictim:      {"chronology", "criminal-charge-summary", "criminal-victim-impact", "criminal-crown-contact"},
	RoleComplainant: {"chronology", "criminal-charge-summary", "criminal-victim-impact", "criminal-crown-contact"},
}

// CriminalModule drafts role-specific criminal matter documents
type CriminalModule struct {
	deps Deps
}

// NewCriminalModule creates the criminal module
func NewCriminalModule(deps Deps) *CriminalModule {
	return &CriminalModule{deps: deps.withDefaults()}
}

// Domain implements DomainModule
func (m *CriminalModule) Domain() model.Domain { return model.DomainCriminal }

// Generate drafts only what the caller's role permits. Without a known role
// the package carries the chronology alone.
func (m *CriminalModule) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	return generate(ctx, m.deps, in, m.buildDrafts)
}

func (m *CriminalModule) buildDrafts(in GenerateInput) ([]model.DocumentDraft, Vars, []string) {
	vars := baseVars(in, m.deps.Now())
	vars.capture(in.Notes, "chargeDescription", chargePattern, "[Charge]")
	vars.capture(in.Notes, "courtDate", courtDatePattern, "[Court Date]")
	if d := vars["courtDate"]; d != "[Court Date]" {
		vars["courtDate"] = model.NormalizeDate(d)
	}

	role := CriminalRole(in)
	ids, ok := criminalTemplates[role]
	if !ok {
		m.deps.Logger.Warn("criminal role unknown", "matter", in.Classification.ID, "role", in.Role)
		drafts, missing := draftTemplates(m.deps, in, vars, []string{"chronology"})
		return drafts, vars, append([]string{"criminal role unknown: only the chronology was drafted; set the role to accused, victim or complainant"}, missing...)
	}
	drafts, warnings := draftTemplates(m.deps, in, vars, ids)
	return drafts, vars, warnings
}

// CriminalRole is the explicit role, else the intake claimant type
func CriminalRole(in GenerateInput) string {
	for _, candidate := range []string{in.Role, in.Classification.Parties.ClaimantType} {
		role := strings.ToLower(strings.TrimSpace(candidate))
		if _, ok := criminalTemplates[role]; ok {
			return role
		}
	}
	return ""
}
