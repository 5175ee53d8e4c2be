package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/casefile/internal/draft"
	"github.com/ppiankov/casefile/internal/model"
)

// Vars are the template values for one package
type Vars map[string]string

// Placeholders left in drafts when a value could not be found
const (
	PlaceholderClaimant   = "[Claimant Name]"
	PlaceholderRespondent = "[Respondent Name]"
	PlaceholderAmount     = "[Amount]"
	PlaceholderDate       = "[Date]"
	PlaceholderNotes      = "[Describe what happened]"
)

var (
	claimantPattern   = regexp.MustCompile(`(?i:my name is|claimant:|claimant is)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)
	respondentPattern = regexp.MustCompile(`(?i:respondent|landlord|insurer|employer|against)(?:\s+is|:)?\s+([A-Z][A-Za-z&'-]*(?:\s+[A-Z][A-Za-z&'.-]*)*)`)
	amountPattern     = regexp.MustCompile(`\$\s?((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?)`)
	isoDatePattern    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	longDatePattern   = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`)
)

var domainLabels = map[model.Domain]string{
	model.DomainInsurance:       "insurance dispute",
	model.DomainLandlordTenant:  "residential tenancy dispute",
	model.DomainCivilNegligence: "negligence claim",
	model.DomainCriminal:        "criminal matter",
	model.DomainConsumer:        "consumer protection dispute",
	model.DomainEstate:          "estate matter",
	model.DomainMunicipal:       "municipal property damage claim",
	model.DomainMalpractice:     "legal malpractice matter",
	model.DomainHumanRights:     "human rights matter",
	model.DomainEmployment:      "employment matter",
	model.DomainOther:           "legal matter",
}

// DomainLabel is the plain-language name of a domain
func DomainLabel(d model.Domain) string {
	if label, ok := domainLabels[d]; ok {
		return label
	}
	return domainLabels[model.DomainOther]
}

// baseVars extracts the values every template family shares
func baseVars(in GenerateInput, now time.Time) Vars {
	c := in.Classification
	notes := strings.TrimSpace(in.Notes)

	v := Vars{
		"claimantType":   orDefault(c.Parties.ClaimantType, "individual"),
		"respondentType": orDefault(c.Parties.RespondentType, "organization"),
		"forumName":      orDefault(in.ForumMap.PrimaryForum.Name, "[Forum]"),
		"domainLabel":    DomainLabel(c.Domain),
		"notes":          orDefault(notes, PlaceholderNotes),
		"chronology":     chronologyMarkdown(in.Timeline, in.Index),
		"evidenceList":   evidenceListMarkdown(in.Index),
		"evidenceCount":  strconv.Itoa(len(in.Index.Items)),
		"replyBy":        now.UTC().AddDate(0, 0, 14).Format(model.DateLayout),
		"today":          now.UTC().Format(model.DateLayout),
	}
	v.capture(notes, "claimantName", claimantPattern, PlaceholderClaimant)
	v.capture(notes, "respondentName", respondentPattern, PlaceholderRespondent)

	switch {
	case c.DisputeAmount != nil:
		v["amount"] = FormatAmount(*c.DisputeAmount)
	default:
		v.capture(notes, "amount", amountPattern, PlaceholderAmount)
		if v["amount"] != PlaceholderAmount {
			v["amount"] = "$" + v["amount"]
		}
	}

	switch {
	case c.Timeline.Start != "":
		v["incidentDate"] = c.Timeline.Start
	default:
		v["incidentDate"] = firstDate(notes, PlaceholderDate)
	}
	return v
}

// capture stores the first submatch of p in text, or fallback
func (v Vars) capture(text, key string, p *regexp.Regexp, fallback string) {
	if m := p.FindStringSubmatch(text); len(m) > 1 {
		if s := strings.TrimRight(strings.TrimSpace(m[1]), ".,;"); s != "" {
			v[key] = s
			return
		}
	}
	v[key] = fallback
}

// Any converts to the map draft.Render takes
func (v Vars) Any() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// FormatAmount renders a dollar amount with thousands separators
func FormatAmount(amount float64) string {
	cents := int64(amount*100 + 0.5)
	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac := cents % 100; frac != 0 {
		return fmt.Sprintf("$%s.%02d", b.String(), frac)
	}
	return "$" + b.String()
}

func firstDate(text, fallback string) string {
	if m := isoDatePattern.FindString(text); m != "" {
		if _, ok := model.ParseDate(m); ok {
			return m
		}
	}
	if m := longDatePattern.FindString(text); m != "" {
		return model.NormalizeDate(m)
	}
	return fallback
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func chronologyMarkdown(timeline []model.TimelineEntry, index model.EvidenceIndex) string {
	if len(timeline) == 0 {
		return "No dated evidence has been uploaded yet."
	}
	lines := make([]string, 0, len(timeline))
	for _, e := range timeline {
		line := fmt.Sprintf("- %s: %s", e.Date, orDefault(e.Summary, e.Filename))
		if _, pos, ok := index.Lookup(e.EvidenceID); ok {
			line += fmt.Sprintf(" (Attachment %d)", pos)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func evidenceListMarkdown(index model.EvidenceIndex) string {
	if len(index.Items) == 0 {
		return "No evidence has been uploaded yet."
	}
	lines := make([]string, 0, len(index.Items))
	for i, item := range index.Items {
		lines = append(lines, "- "+draft.Describe(item, i+1))
	}
	return strings.Join(lines, "\n")
}
