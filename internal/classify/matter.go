// Package classify turns intake text and hints into a structured matter classification.
package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/casefile/internal/model"
)

// Rule maps a set of whole-word keywords to a domain
type Rule struct {
	Domain   model.Domain
	Keywords []string
}

// DefaultRules is evaluated top to bottom, first match wins. Legal
// malpractice sits above civil negligence so that "my lawyer missed the
// deadline ... negligence" is not classified as plain negligence. Criminal
// keywords are phrases that only occur in criminal matters; words such as
// "police" or "charged" also appear in civil disputes.
var DefaultRules = []Rule{
	{model.DomainHumanRights, []string{
		"human rights", "discrimination", "discriminated", "harassment", "harassed", "hrto", "racism",
	}},
	{model.DomainLandlordTenant, []string{
		"landlord", "tenant", "tenancy", "eviction", "evicted", "rent", "lease", "ltb", "n4", "n12",
	}},
	{model.DomainInsurance, []string{
		"insurance", "insurer", "adjuster", "claim denied", "denied claim", "insurance policy", "fsra", "premium",
	}},
	{model.DomainCriminal, []string{
		"criminal", "charged with", "criminal charge", "criminal charges", "arrested", "bail",
		"crown attorney", "crown prosecutor", "peace bond", "criminal code", "assaulted me",
	}},
	{model.DomainMalpractice, []string{
		"lawyer", "attorney", "solicitor", "paralegal", "legal malpractice", "malpractice", "law firm",
		"missed the deadline", "missed deadline",
	}},
	{model.DomainMunicipal, []string{
		"municipal", "municipality", "city of", "township", "pothole", "sewer", "sewage", "storm drain",
		"road maintenance", "city tree",
	}},
	{model.DomainCivilNegligence, []string{
		"negligence", "negligent", "slip and fall", "slipped", "personal injury", "injury", "injured",
		"accident", "civil negligence",
	}},
	{model.DomainConsumer, []string{
		"consumer", "refund", "warranty", "contractor", "defective", "scam", "retailer", "purchase",
		"consumer protection",
	}},
	{model.DomainEstate, []string{
		"estate", "last will", "will and testament", "executor", "executrix", "probate", "inheritance",
		"beneficiary", "deceased", "succession", "estate trustee",
	}},
	{model.DomainEmployment, []string{
		"employment", "employer", "employee", "fired", "wrongful dismissal", "severance", "wages",
		"overtime", "workplace",
	}},
}

type compiledRule struct {
	domain  model.Domain
	pattern *regexp.Regexp
}

var (
	urgentPattern    = regexp.MustCompile(`(?i)\b(urgent|emergency|immediate|immediately|asap|today)\b`)
	notUrgentPattern = regexp.MustCompile(`(?i)\b(not urgent|low|no rush|whenever)\b`)
	federalPattern   = regexp.MustCompile(`(?i)(federal|canada)`)
	domainKeyFold    = strings.NewReplacer(" ", "", "-", "", "_", "")
)

// MatterClassifier resolves domain, jurisdiction, parties and urgency
type MatterClassifier struct {
	rules []compiledRule
	newID func() string
}

// NewMatterClassifier creates a new classifier from ordered rules. Nil uses DefaultRules.
func NewMatterClassifier(rules []Rule) *MatterClassifier {
	if rules == nil {
		rules = DefaultRules
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		alts := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			alts = append(alts, regexp.QuoteMeta(k))
		}
		compiled = append(compiled, compiledRule{
			domain:  r.Domain,
			pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`),
		})
	}

	return &MatterClassifier{
		rules: compiled,
		newID: uuid.NewString,
	}
}

// Classify is total: any input, including an empty one, yields a classification
func (c *MatterClassifier) Classify(in model.ClassificationInput) model.MatterClassification {
	dates, start, end := normalizeKeyDates(in.KeyDates)

	return model.MatterClassification{
		ID:           c.newID(),
		Domain:       c.ResolveDomain(in.DomainHint, in.Description),
		Jurisdiction: ResolveJurisdiction(in.JurisdictionHint),
		Parties: model.Parties{
			ClaimantType:   defaultString(in.ClaimantType, "individual"),
			RespondentType: defaultString(in.RespondentType, "business"),
		},
		Timeline: model.MatterTimeline{
			KeyDates: dates,
			Start:    start,
			End:      end,
		},
		Urgency:       resolveUrgency(in.UrgencyHint),
		DisputeAmount: in.DisputeAmount,
		Status:        model.StatusClassified,
	}
}

// ResolveDomain matches the hint first and falls back to the description only if the hint matched nothing
func (c *MatterClassifier) ResolveDomain(hint, description string) model.Domain {
	if d, ok := exactDomain(hint); ok {
		return d
	}
	if d, ok := c.match(hint); ok {
		return d
	}
	if d, ok := c.match(description); ok {
		return d
	}
	return model.DomainOther
}

func (c *MatterClassifier) match(text string) (model.Domain, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	for _, r := range c.rules {
		if r.pattern.MatchString(text) {
			return r.domain, true
		}
	}
	return "", false
}

// exactDomain accepts a domain key such as "landlordTenant" or "civil-negligence"
func exactDomain(hint string) (model.Domain, bool) {
	key := strings.ToLower(domainKeyFold.Replace(strings.TrimSpace(hint)))
	if key == "" {
		return "", false
	}
	for _, d := range []model.Domain{
		model.DomainInsurance, model.DomainLandlordTenant, model.DomainCivilNegligence, model.DomainCriminal,
		model.DomainConsumer, model.DomainEstate, model.DomainMunicipal, model.DomainMalpractice,
		model.DomainHumanRights, model.DomainEmployment,
	} {
		if key == strings.ToLower(domainKeyFold.Replace(string(d))) {
			return d, true
		}
	}
	return "", false
}

// ResolveJurisdiction defaults to Ontario unless the hint mentions federal or Canada
func ResolveJurisdiction(hint string) string {
	if federalPattern.MatchString(hint) {
		return model.JurisdictionFederal
	}
	return model.JurisdictionOntario
}

func resolveUrgency(hint string) model.Urgency {
	switch {
	case notUrgentPattern.MatchString(hint):
		return model.UrgencyLow
	case urgentPattern.MatchString(hint):
		return model.UrgencyHigh
	default:
		return model.UrgencyMedium
	}
}

func normalizeKeyDates(raw []string) ([]string, string, string) {
	dates := make([]string, 0, len(raw))
	var parsed []string
	for _, d := range raw {
		if strings.TrimSpace(d) == "" {
			continue
		}
		n := model.NormalizeDate(d)
		dates = append(dates, n)
		if _, ok := model.ParseDate(n); ok {
			parsed = append(parsed, n)
		}
	}
	if len(parsed) == 0 {
		return dates, "", ""
	}
	sort.Strings(parsed)
	return dates, parsed[0], parsed[len(parsed)-1]
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}
