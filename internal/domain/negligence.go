package domain

import (
	"context"
	"regexp"

	"github.com/ppiankov/casefile/internal/authority"
	"github.com/ppiankov/casefile/internal/model"
)

var (
	locationPattern = regexp.MustCompile(`(?i:at|on|outside|near)\s+((?:\d+\s+)?[A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*)*\s+(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Boulevard|Blvd|Mall|Plaza|Park))\b`)
	injuryPattern   = regexp.MustCompile(`(?i)\b((?:broken|fractured|sprained|injured|bruised|cut)\s+(?:my\s+)?[a-z]+)`)
)

// Court descriptions used in the claim outline
const (
	smallClaimsCourtName = "Small Claims Court (Plaintiff's Claim, Form 7A)"
	superiorCourtName    = "Superior Court of Justice (Statement of Claim, Form 14A)"
)

// NegligenceModule drafts payment requests and claim outlines
type NegligenceModule struct {
	deps Deps
}

// NewNegligenceModule creates the civil negligence module
func NewNegligenceModule(deps Deps) *NegligenceModule {
	return &NegligenceModule{deps: deps.withDefaults()}
}

// Domain implements DomainModule
func (m *NegligenceModule) Domain() model.Domain { return model.DomainCivilNegligence }

// Generate drafts a payment request and a claim outline for the court the
// forum map routed to.
func (m *NegligenceModule) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	return generate(ctx, m.deps, in, m.buildDrafts)
}

func (m *NegligenceModule) buildDrafts(in GenerateInput) ([]model.DocumentDraft, Vars, []string) {
	vars := baseVars(in, m.deps.Now())
	vars.capture(in.Notes, "location", locationPattern, "[Location]")
	vars.capture(in.Notes, "injuryDescription", injuryPattern, "[Description of Injury]")
	vars["claimCourt"] = claimCourt(in.ForumMap)

	drafts, warnings := draftTemplates(m.deps, in, vars, []string{"chronology", "negligence-payment-request", "negligence-claim-outline"})
	return drafts, vars, warnings
}

// claimCourt prefers Small Claims when the router offered it
func claimCourt(fm model.ForumMap) string {
	if fm.PrimaryForum.ID == authority.SmallClaimsCourt {
		return smallClaimsCourtName
	}
	for _, alt := range fm.Alternatives {
		if alt.ID == authority.SmallClaimsCourt {
			return smallClaimsCourtName
		}
	}
	return superiorCourtName
}
