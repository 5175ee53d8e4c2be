package classify

import (
	"fmt"
	"time"

	"github.com/ppiankov/casefile/internal/model"
)

// limitation is a deadline counted from the earliest key date
type limitation struct {
	kind  string
	label string
	years int
	days  int
}

var limitations = map[model.Domain][]limitation{
	model.DomainLandlordTenant:  {{kind: "tribunal-filing", label: "Landlord and Tenant Board application", years: 1}},
	model.DomainHumanRights:     {{kind: "tribunal-filing", label: "Human Rights Tribunal application", years: 1}},
	model.DomainMunicipal:       {{kind: "notice", label: "written notice to the municipality", days: 10}, {kind: "limitation", label: "basic limitation period", years: 2}},
	model.DomainCivilNegligence: {{kind: "limitation", label: "basic limitation period", years: 2}},
	model.DomainConsumer:        {{kind: "limitation", label: "basic limitation period", years: 2}},
	model.DomainInsurance:       {{kind: "limitation", label: "basic limitation period", years: 2}},
	model.DomainMalpractice:     {{kind: "limitation", label: "basic limitation period", years: 2}},
	model.DomainEstate:          {{kind: "limitation", label: "basic limitation period", years: 2}},
	model.DomainEmployment:      {{kind: "limitation", label: "basic limitation period", years: 2}},
}

// Assessment is the outcome of a timeline assessment
type Assessment struct {
	Urgency model.Urgency         `json:"urgency"`
	Alerts  []model.DeadlineAlert `json:"alerts"`
}

// TimelineAssessor computes limitation and notice deadlines from key dates
type TimelineAssessor struct{}

// NewTimelineAssessor creates a new timeline assessor
func NewTimelineAssessor() *TimelineAssessor {
	return &TimelineAssessor{}
}

// Assess returns deadline alerts and the urgency they imply. Only Ontario
// periods are modelled; other jurisdictions get an informational alert.
func (a *TimelineAssessor) Assess(c model.MatterClassification, now time.Time) Assessment {
	result := Assessment{Urgency: c.Urgency}

	rules, ok := limitations[c.Domain]
	if !ok {
		return result
	}

	if c.Jurisdiction != model.JurisdictionOntario {
		result.Alerts = append(result.Alerts, model.DeadlineAlert{
			Kind:     "unmodelled",
			Message:  "Deadlines outside Ontario are not calculated; confirm them with the forum.",
			Severity: model.SeverityInfo,
		})
		return result
	}

	start, ok := model.ParseDate(c.Timeline.Start)
	if !ok {
		result.Alerts = append(result.Alerts, model.DeadlineAlert{
			Kind:     "no-dates",
			Message:  "No key dates were given, so deadlines cannot be calculated.",
			Severity: model.SeverityWarning,
		})
		return result
	}

	today := now.UTC().Truncate(24 * time.Hour)
	for _, l := range rules {
		deadline := start.AddDate(l.years, 0, l.days)
		remaining := int(deadline.Sub(today).Hours() / 24)

		severity := model.SeverityInfo
		var msg string
		switch {
		case remaining < 0:
			severity = model.SeverityCritical
			msg = fmt.Sprintf("The %s appears to have passed on %s.", l.label, deadline.Format(model.DateLayout))
		case remaining <= 30:
			severity = model.SeverityCritical
			msg = fmt.Sprintf("The %s ends on %s (%d days).", l.label, deadline.Format(model.DateLayout), remaining)
		case remaining <= 90:
			severity = model.SeverityWarning
			msg = fmt.Sprintf("The %s ends on %s (%d days).", l.label, deadline.Format(model.DateLayout), remaining)
		default:
			msg = fmt.Sprintf("The %s ends on %s.", l.label, deadline.Format(model.DateLayout))
		}

		days := remaining
		result.Alerts = append(result.Alerts, model.DeadlineAlert{
			Kind:          l.kind,
			Message:       msg,
			Deadline:      deadline.Format(model.DateLayout),
			DaysRemaining: &days,
			Severity:      severity,
		})

		if severity == model.SeverityCritical {
			result.Urgency = model.UrgencyHigh
		}
	}

	return result
}
