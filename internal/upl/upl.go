// Package upl places a matter on the legal information / legal advice boundary.
package upl

import (
	"fmt"
	"strings"

	"github.com/ppiankov/casefile/internal/model"
)

// Tiers
const (
	TierInformation  = 1
	TierDocumentPrep = 2
	TierReferral     = 3
)

// DefaultSmallClaimsLimit is the amount above which a matter is referred out
const DefaultSmallClaimsLimit = 35000.0

var labels = map[int]string{
	TierInformation:  "legal information",
	TierDocumentPrep: "document preparation support",
	TierReferral:     "refer to a licensed professional",
}

var disclaimers = map[int]string{
	TierInformation:  "This is general legal information, not legal advice.",
	TierDocumentPrep: "These documents were prepared from your own account and evidence. They are not legal advice. Review every section before you file anything.",
	TierReferral:     "This matter needs a licensed lawyer or paralegal. The material here is for your own organization only and is not legal advice.",
}

// documentDomains have drafting support
var documentDomains = map[model.Domain]bool{
	model.DomainInsurance:       true,
	model.DomainLandlordTenant:  true,
	model.DomainCivilNegligence: true,
	model.DomainCriminal:        true,
	model.DomainConsumer:        true,
	model.DomainEstate:          true,
	model.DomainMunicipal:       true,
}

// Input is what the tiering looks at
type Input struct {
	Classification   model.MatterClassification
	Role             string
	IsAppeal         bool
	IsJudicialReview bool
	SmallClaimsLimit float64
}

// Assess returns the highest tier any rule places the matter in
func Assess(in Input) model.UPLAssessment {
	limit := in.SmallClaimsLimit
	if limit <= 0 {
		limit = DefaultSmallClaimsLimit
	}
	c := in.Classification

	var reasons []string
	if c.Domain == model.DomainCriminal && strings.EqualFold(strings.TrimSpace(in.Role), "accused") {
		reasons = append(reasons, "accused persons in criminal matters need a lawyer")
	}
	if in.IsAppeal {
		reasons = append(reasons, "appeals are outside document preparation support")
	}
	if in.IsJudicialReview {
		reasons = append(reasons, "judicial review is outside document preparation support")
	}
	if c.Domain == model.DomainMalpractice {
		reasons = append(reasons, "claims against a lawyer need independent counsel")
	}
	if c.DisputeAmount != nil && *c.DisputeAmount > limit {
		reasons = append(reasons, fmt.Sprintf("the amount exceeds the $%.0f Small Claims limit", limit))
	}
	if c.Pillar == nil || *c.Pillar == model.PillarUnknown {
		reasons = append(reasons, "the legal character of the matter is unclear")
	}

	tier := TierInformation
	switch {
	case len(reasons) > 0:
		tier = TierReferral
	case documentDomains[c.Domain]:
		tier = TierDocumentPrep
	}

	return model.UPLAssessment{
		Tier:       tier,
		Label:      labels[tier],
		Reasons:    reasons,
		Disclaimer: disclaimers[tier],
	}
}
