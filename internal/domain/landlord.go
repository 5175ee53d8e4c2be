package domain

import (
	"context"
	"regexp"
	"strings"

	"github.com/ppiankov/casefile/internal/model"
)

var (
	unitPattern = regexp.MustCompile(`(?i:unit|apartment|address|live at|renting)\s*(?:is|at|:)?\s+(\d+[^,.\n]*(?:,\s*[A-Z][a-z]+)?)`)
	rentPattern = regexp.MustCompile(`(?i:rent)\s*(?:(?i:is|of|:))?\s*\$\s?((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?)`)
)

// LandlordTenantModule drafts Landlord and Tenant Board material
type LandlordTenantModule struct {
	deps Deps
}

// NewLandlordTenantModule creates the landlord/tenant module
func NewLandlordTenantModule(deps Deps) *LandlordTenantModule {
	return &LandlordTenantModule{deps: deps.withDefaults()}
}

// Domain implements DomainModule
func (m *LandlordTenantModule) Domain() model.Domain { return model.DomainLandlordTenant }

// Generate picks the tenant or landlord application summary from the
// claimant type and always adds the notice letter to the other party.
func (m *LandlordTenantModule) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	return generate(ctx, m.deps, in, m.buildDrafts)
}

func (m *LandlordTenantModule) buildDrafts(in GenerateInput) ([]model.DocumentDraft, Vars, []string) {
	vars := baseVars(in, m.deps.Now())
	vars.capture(in.Notes, "unitAddress", unitPattern, "[Unit Address]")
	vars.capture(in.Notes, "monthlyRent", rentPattern, "[Monthly Rent]")
	if vars["monthlyRent"] != "[Monthly Rent]" {
		vars["monthlyRent"] = "$" + vars["monthlyRent"]
	}

	summary := "lt-application-summary"
	if strings.EqualFold(in.Classification.Parties.ClaimantType, "landlord") {
		summary = "lt-landlord-application-summary"
	}
	drafts, warnings := draftTemplates(m.deps, in, vars, []string{"chronology", summary, "lt-notice-letter"})
	return drafts, vars, warnings
}
