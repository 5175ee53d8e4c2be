package domain

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/ppiankov/casefile/internal/model"
)

// MunicipalNoticeDays is the notice period for damage claims against a municipality
const MunicipalNoticeDays = 10

var municipalityPattern = regexp.MustCompile(`((?:City|Town|Township|Municipality|Region) of [A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)

// MunicipalModule drafts notices of claim against municipalities
type MunicipalModule struct {
	deps Deps
}

// NewMunicipalModule creates the municipal property damage module
func NewMunicipalModule(deps Deps) *MunicipalModule {
	return &MunicipalModule{deps: deps.withDefaults()}
}

// Domain implements DomainModule
func (m *MunicipalModule) Domain() model.Domain { return model.DomainMunicipal }

// Generate drafts the written notice and claim summary. The notice deadline
// is computed from the incident date and a lapsed deadline becomes a warning.
func (m *MunicipalModule) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	return generate(ctx, m.deps, in, m.buildDrafts)
}

func (m *MunicipalModule) buildDrafts(in GenerateInput) ([]model.DocumentDraft, Vars, []string) {
	now := m.deps.Now()
	vars := baseVars(in, now)
	vars.capture(in.Notes, "municipality", municipalityPattern, "[Municipality]")
	vars.capture(in.Notes, "location", locationPattern, "[Location]")

	var warnings []string
	vars["noticeDeadline"] = "[Date + 10 days]"
	if incident, ok := model.ParseDate(vars["incidentDate"]); ok {
		deadline := incident.AddDate(0, 0, MunicipalNoticeDays)
		vars["noticeDeadline"] = deadline.Format(model.DateLayout)
		if deadline.Before(now.UTC().Truncate(24 * time.Hour)) {
			warnings = append(warnings, fmt.Sprintf("the %d-day municipal notice period ended on %s", MunicipalNoticeDays, vars["noticeDeadline"]))
		}
	}
	drafts, missing := draftTemplates(m.deps, in, vars, []string{"chronology", "municipal-notice-of-claim", "municipal-claim-summary"})
	return drafts, vars, append(warnings, missing...)
}
