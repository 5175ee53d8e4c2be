package authority

import (
	"strings"

	"github.com/ppiankov/casefile/internal/model"
)

// Seeded authority ids used by routing
const (
	LandlordTenantBoard  model.AuthorityID = "ON-LTB"
	HumanRightsTribunal  model.AuthorityID = "ON-HRTO"
	SuperiorCourt        model.AuthorityID = "ON-SCJ"
	SmallClaimsCourt     model.AuthorityID = "ON-SCJ-SC"
	DivisionalCourt      model.AuthorityID = "ON-DivCt"
	OntarioCourtOfAppeal model.AuthorityID = "ON-CA"
	OntarioCourtJustice  model.AuthorityID = "ON-CJ"
	FederalCourt         model.AuthorityID = "FC"
	FederalCourtOfAppeal model.AuthorityID = "FCA"
	SupremeCourt         model.AuthorityID = "SCC"
	LawSociety           model.AuthorityID = "ON-LSO"
	FinancialRegulator   model.AuthorityID = "ON-FSRA"
	ConsumerProtection   model.AuthorityID = "ON-CPO"
)

// DefaultSmallClaimsLimit is the Ontario Small Claims Court monetary limit
const DefaultSmallClaimsLimit = 35000.0

// RouteInput is everything the routing table looks at
type RouteInput struct {
	Domain           model.Domain
	Jurisdiction     string
	IsAppeal         bool
	IsJudicialReview bool
	DisputeAmount    *float64
}

func (in RouteInput) ontario() bool {
	return strings.EqualFold(strings.TrimSpace(in.Jurisdiction), model.JurisdictionOntario)
}

// routeRule is one row of the decision table
type routeRule struct {
	name  string
	match func(RouteInput) bool
	forum func(RouteInput) model.AuthorityID
}

// routeTable is evaluated top to bottom, first match wins. The last row
// always matches so routing is total.
var routeTable = []routeRule{
	{
		name:  "landlord-tenant tribunal",
		match: func(in RouteInput) bool { return in.Domain == model.DomainLandlordTenant },
		forum: func(RouteInput) model.AuthorityID { return LandlordTenantBoard },
	},
	{
		name:  "human rights tribunal",
		match: func(in RouteInput) bool { return in.Domain == model.DomainHumanRights },
		forum: func(RouteInput) model.AuthorityID { return HumanRightsTribunal },
	},
	{
		name:  "appeal",
		match: func(in RouteInput) bool { return in.IsAppeal },
		forum: func(in RouteInput) model.AuthorityID {
			if in.ontario() {
				return OntarioCourtOfAppeal
			}
			return FederalCourtOfAppeal
		},
	},
	{
		name:  "judicial review",
		match: func(in RouteInput) bool { return in.IsJudicialReview },
		forum: func(in RouteInput) model.AuthorityID {
			if in.ontario() {
				return DivisionalCourt
			}
			return FederalCourt
		},
	},
	{
		// Amount-based Small Claims routing is offered as an alternative only.
		name:  "ontario default",
		match: func(in RouteInput) bool { return in.ontario() },
		forum: func(RouteInput) model.AuthorityID { return SuperiorCourt },
	},
	{
		name:  "federal default",
		match: func(RouteInput) bool { return true },
		forum: func(RouteInput) model.AuthorityID { return FederalCourt },
	},
}

// complaintBodies are domain regulators offered alongside Ontario forums
var complaintBodies = map[model.Domain]model.AuthorityID{
	model.DomainMalpractice: LawSociety,
	model.DomainInsurance:   FinancialRegulator,
	model.DomainConsumer:    ConsumerProtection,
}

// Router maps a classification to a forum map
type Router struct {
	registry         *Registry
	smallClaimsLimit float64
}

// NewRouter creates a new router backed by the registry
func NewRouter(registry *Registry, smallClaimsLimit float64) *Router {
	if smallClaimsLimit <= 0 {
		smallClaimsLimit = DefaultSmallClaimsLimit
	}
	return &Router{
		registry:         registry,
		smallClaimsLimit: smallClaimsLimit,
	}
}

// Primary evaluates the decision table and returns the primary forum id
func (r *Router) Primary(in RouteInput) model.AuthorityID {
	for _, rule := range routeTable {
		if rule.match(in) {
			return rule.forum(in)
		}
	}
	return FederalCourt
}

// Route builds a fresh forum map. The only error is a *ConfigError for an unseeded id.
func (r *Router) Route(in RouteInput) (model.ForumMap, error) {
	primaryID := r.Primary(in)

	primary, err := r.registry.Ref(primaryID)
	if err != nil {
		return model.ForumMap{}, err
	}

	alternatives, err := r.alternatives(primaryID, in)
	if err != nil {
		return model.ForumMap{}, err
	}

	escalation, err := r.registry.Escalation(primaryID)
	if err != nil {
		return model.ForumMap{}, err
	}

	return model.ForumMap{
		Domain:       in.Domain,
		PrimaryForum: primary,
		Alternatives: alternatives,
		Escalation:   escalation,
	}, nil
}

// Describe names the table row that decided the primary forum
func (r *Router) Describe(in RouteInput) string {
	for _, rule := range routeTable {
		if rule.match(in) {
			return rule.name
		}
	}
	return ""
}

func (r *Router) alternatives(primary model.AuthorityID, in RouteInput) ([]model.AuthorityRef, error) {
	var ids []model.AuthorityID

	switch primary {
	case LandlordTenantBoard, HumanRightsTribunal, FederalCourt:
		ids = append(ids, DivisionalCourt)
	}

	if in.ontario() {
		if body, ok := complaintBodies[in.Domain]; ok {
			ids = append(ids, body)
		}
		if primary == SuperiorCourt && r.smallClaimsEligible(in) {
			ids = append(ids, SmallClaimsCourt)
		}
	}

	refs := make([]model.AuthorityRef, 0, len(ids))
	seen := map[model.AuthorityID]bool{primary: true}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		ref, err := r.registry.Ref(id)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (r *Router) smallClaimsEligible(in RouteInput) bool {
	if in.DisputeAmount == nil || *in.DisputeAmount > r.smallClaimsLimit {
		return false
	}
	switch in.Domain {
	case model.DomainCivilNegligence, model.DomainConsumer, model.DomainInsurance, model.DomainMunicipal:
		return true
	}
	return false
}
