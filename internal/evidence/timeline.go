package evidence

import (
	"fmt"
	"sort"

	"github.com/ppiankov/casefile/internal/model"
)

// Gap thresholds in whole days
const (
	GapThresholdDays  = 7
	MediumRiskDays    = 14
	HighRiskDays      = 30
	minCorrespondence = 3
)

// TimelineGenerator derives chronology, gaps and missing-evidence alerts.
// Every method is a pure function of its arguments.
type TimelineGenerator struct{}

// NewTimelineGenerator creates a new timeline generator
func NewTimelineGenerator() *TimelineGenerator {
	return &TimelineGenerator{}
}

// Generate returns the dated items in ascending date order. Items with
// equal dates keep their index order.
func (g *TimelineGenerator) Generate(index model.EvidenceIndex) []model.TimelineEntry {
	type dated struct {
		entry model.TimelineEntry
		key   string
	}

	var items []dated
	for _, item := range index.Items {
		d, ok := model.ParseDate(item.Date)
		if !ok {
			continue
		}
		items = append(items, dated{
			entry: model.TimelineEntry{
				Date:       d.Format(model.DateLayout),
				EvidenceID: item.ID,
				Filename:   item.Filename,
				Type:       item.Type,
				Summary:    item.Summary,
			},
			key: d.Format(model.DateLayout),
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].key < items[j].key })

	timeline := make([]model.TimelineEntry, 0, len(items))
	for _, it := range items {
		timeline = append(timeline, it.entry)
	}
	return timeline
}

// DetectGaps flags consecutive entries more than a week apart
func (g *TimelineGenerator) DetectGaps(timeline []model.TimelineEntry) []model.TimelineGap {
	var gaps []model.TimelineGap
	for i := 1; i < len(timeline); i++ {
		prev, cur := timeline[i-1], timeline[i]

		from, ok1 := model.ParseDate(prev.Date)
		to, ok2 := model.ParseDate(cur.Date)
		if !ok1 || !ok2 {
			continue
		}

		days := int(to.Sub(from).Hours() / 24)
		if days <= GapThresholdDays {
			continue
		}

		gaps = append(gaps, model.TimelineGap{
			From:         prev.Date,
			To:           cur.Date,
			FromEvidence: prev.EvidenceID,
			ToEvidence:   cur.EvidenceID,
			DurationDays: days,
			RiskLevel:    gapRisk(days),
		})
	}
	return gaps
}

func gapRisk(days int) model.RiskLevel {
	switch {
	case days > HighRiskDays:
		return model.RiskHigh
	case days > MediumRiskDays:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// FlagMissingEvidence points at evidence types the matter is likely missing
func (g *TimelineGenerator) FlagMissingEvidence(index model.EvidenceIndex, timeline []model.TimelineEntry) []model.MissingEvidenceAlert {
	var alerts []model.MissingEvidenceAlert

	var hasImage, hasEML, emlWithHeaders bool
	for _, item := range index.Items {
		switch {
		case item.Type.IsImage():
			hasImage = true
		case item.Type == model.EvidenceEML:
			hasEML = true
			if item.Metadata.HasParties() {
				emlWithHeaders = true
			}
		}
	}

	if !hasImage && len(timeline) > 0 {
		alerts = append(alerts, model.MissingEvidenceAlert{
			Type:     model.AlertScreenshot,
			Message:  "No screenshots or photos were provided. Add images of messages, damage or postings where they exist.",
			Severity: model.SeverityWarning,
		})
	}

	switch {
	case !hasEML:
		alerts = append(alerts, model.MissingEvidenceAlert{
			Type:     model.AlertEmailOriginal,
			Message:  "No original email files (.eml) were provided. Export the original messages so headers can be verified.",
			Severity: model.SeverityWarning,
		})
	case !emlWithHeaders:
		alerts = append(alerts, model.MissingEvidenceAlert{
			Type:     model.AlertEmailOriginal,
			Message:  "The email files provided have no sender or recipient headers. Export the original messages instead of copies.",
			Severity: model.SeverityWarning,
		})
	}

	if len(timeline) > 2 {
		correspondence := 0
		for _, e := range timeline {
			if e.Type.IsCorrespondence() {
				correspondence++
			}
		}
		if correspondence < minCorrespondence {
			alerts = append(alerts, model.MissingEvidenceAlert{
				Type:     model.AlertUnknown,
				Message:  fmt.Sprintf("Only %d of %d dated items are written correspondence. Letters, emails or texts between the parties may be missing.", correspondence, len(timeline)),
				Severity: model.SeverityInfo,
			})
		}
	}

	return alerts
}

// FlagDuplicates raises one alert per repeated hash. Duplicates stay indexed.
func (g *TimelineGenerator) FlagDuplicates(index model.EvidenceIndex) []model.MissingEvidenceAlert {
	first := map[string]string{}
	var alerts []model.MissingEvidenceAlert
	for _, item := range index.Items {
		if name, seen := first[item.Hash]; seen {
			alerts = append(alerts, model.MissingEvidenceAlert{
				Type:     model.AlertDuplicate,
				Message:  fmt.Sprintf("%s has the same content as %s.", item.Filename, name),
				Severity: model.SeverityInfo,
			})
			continue
		}
		first[item.Hash] = item.Filename
	}
	return alerts
}
