// Package score computes a transparent readiness index for a matter's package.
package score

import (
	"fmt"
	"math"
	"time"

	"github.com/ppiankov/casefile/internal/model"
)

// Input is everything the readiness index looks at
type Input struct {
	MatterID string
	Index    model.EvidenceIndex
	Timeline []model.TimelineEntry
	Gaps     []model.TimelineGap
	Drafts   []model.DocumentDraft
	Now      time.Time
}

// Scorer calculates the readiness index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores the package out of 100. Every signal carries its inputs and formula.
func (s *Scorer) Calculate(in Input) model.Readiness {
	var signals []model.Signal

	// 1. Evidence coverage (0-30 points)
	coverageScore, coverageSignal := s.calculateCoverage(in.Index)
	signals = append(signals, coverageSignal)

	// 2. Credibility (0-20 points)
	credScore, credSignal := s.calculateCredibility(in.Index)
	signals = append(signals, credSignal)

	// 3. Timeline gaps (0-15 points)
	gapScore, gapSignal := s.calculateGaps(in.Timeline, in.Gaps)
	signals = append(signals, gapSignal)

	// 4. Sources (0-10 points)
	sourceScore, sourceSignal := s.calculateSources(in.Index.SourceManifest)
	signals = append(signals, sourceSignal)

	// 5. Confirmations (0-15 points)
	confirmScore, confirmSignal := s.calculateConfirmations(in.Drafts)
	signals = append(signals, confirmSignal)

	// 6. Citations (0-10 points)
	citeScore, citeSignal := s.calculateCitations(in.Drafts)
	signals = append(signals, citeSignal)

	total := coverageScore + credScore + gapScore + sourceScore + confirmScore + citeScore

	// 7. Duplicate uploads (penalty)
	if dupes, signal := s.detectDuplicates(in.Index); dupes > 0 {
		signals = append(signals, signal)
		total -= 5
		if total < 0 {
			total = 0
		}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	return model.Readiness{
		MatterID:   in.MatterID,
		ComputedAt: now.UTC(),
		Index:      total,
		Confidence: s.determineConfidence(total, len(in.Index.Items)),
		Signals:    signals,
	}
}

// calculateCoverage rewards having evidence and having it dated (0-30 points)
func (s *Scorer) calculateCoverage(index model.EvidenceIndex) (int, model.Signal) {
	count := len(index.Items)
	if count == 0 {
		return 0, model.Signal{
			Type:        model.SignalEvidenceCoverage,
			Severity:    model.SeverityCritical,
			Description: "No evidence uploaded",
			Data:        map[string]interface{}{"items": 0},
		}
	}

	dated := 0
	for _, item := range index.Items {
		if item.Date != "" {
			dated++
		}
	}

	datedRatio := float64(dated) / float64(count)
	volume := math.Min(float64(count)/5, 1)
	score := int(volume*15 + datedRatio*15)

	severity := model.SeverityInfo
	if datedRatio < 0.5 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalEvidenceCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("%d items, %d dated", count, dated),
		Data: map[string]interface{}{
			"items":      count,
			"dated":      dated,
			"datedRatio": datedRatio,
			"score":      score,
			"formula":    "min(items/5, 1) * 15 + dated/items * 15",
		},
	}
}

// calculateCredibility scales mean credibility to 0-20 points
func (s *Scorer) calculateCredibility(index model.EvidenceIndex) (int, model.Signal) {
	if len(index.Items) == 0 {
		return 0, model.Signal{
			Type:        model.SignalCredibility,
			Severity:    model.SeverityWarning,
			Description: "No evidence to score",
			Data:        map[string]interface{}{"items": 0},
		}
	}

	var sum float64
	low := 0
	for _, item := range index.Items {
		sum += item.CredibilityScore
		if item.CredibilityScore < 0.6 {
			low++
		}
	}
	mean := sum / float64(len(index.Items))
	score := int(math.Round(mean * 20))

	severity := model.SeverityInfo
	if mean < 0.6 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalCredibility,
		Severity:    severity,
		Description: fmt.Sprintf("Mean credibility %.2f", mean),
		Data: map[string]interface{}{
			"mean":     mean,
			"lowItems": low,
			"score":    score,
			"formula":  "round(mean_credibility * 20)",
		},
	}
}

// calculateGaps deducts for every gap by risk (0-15 points)
func (s *Scorer) calculateGaps(timeline []model.TimelineEntry, gaps []model.TimelineGap) (int, model.Signal) {
	if len(timeline) == 0 {
		return 0, model.Signal{
			Type:        model.SignalTimelineGaps,
			Severity:    model.SeverityWarning,
			Description: "No dated evidence to build a timeline",
			Data:        map[string]interface{}{"entries": 0},
		}
	}

	counts := map[model.RiskLevel]int{}
	for _, g := range gaps {
		counts[g.RiskLevel]++
	}

	score := 15 - 5*counts[model.RiskHigh] - 2*counts[model.RiskMedium] - counts[model.RiskLow]
	if score < 0 {
		score = 0
	}

	severity := model.SeverityInfo
	switch {
	case counts[model.RiskHigh] > 0:
		severity = model.SeverityCritical
	case counts[model.RiskMedium] > 0:
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalTimelineGaps,
		Severity:    severity,
		Description: fmt.Sprintf("%d gaps across %d timeline entries", len(gaps), len(timeline)),
		Data: map[string]interface{}{
			"high":    counts[model.RiskHigh],
			"medium":  counts[model.RiskMedium],
			"low":     counts[model.RiskLow],
			"score":   score,
			"formula": "max(15 - 5*high - 2*medium - low, 0)",
		},
	}
}

// calculateSources rewards citable legal sources (0-10 points)
func (s *Scorer) calculateSources(manifest model.SourceManifest) (int, model.Signal) {
	official := 0
	for _, src := range manifest.Sources {
		if src.Kind != model.SourceOther && src.Kind != "" {
			official++
		}
	}

	score, severity := 0, model.SeverityWarning
	switch {
	case official > 0:
		score, severity = 10, model.SeverityInfo
	case len(manifest.Sources) > 0:
		score = 5
	}

	return score, model.Signal{
		Type:        model.SignalSources,
		Severity:    severity,
		Description: fmt.Sprintf("%d sources, %d from CanLII, e-Laws or Justice Laws", len(manifest.Sources), official),
		Data: map[string]interface{}{
			"sources":  len(manifest.Sources),
			"official": official,
			"score":    score,
		},
	}
}

// calculateConfirmations scales the confirmed-section ratio to 0-15 points
func (s *Scorer) calculateConfirmations(drafts []model.DocumentDraft) (int, model.Signal) {
	total, confirmed := 0, 0
	for _, d := range drafts {
		for _, sec := range d.Sections {
			total++
			if sec.Confirmed {
				confirmed++
			}
		}
	}

	if total == 0 {
		return 0, model.Signal{
			Type:        model.SignalConfirmations,
			Severity:    model.SeverityWarning,
			Description: "No draft sections to confirm",
			Data:        map[string]interface{}{"sections": 0},
		}
	}

	ratio := float64(confirmed) / float64(total)
	score := int(ratio * 15)

	severity := model.SeverityInfo
	if confirmed < total {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalConfirmations,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d sections confirmed", confirmed, total),
		Data: map[string]interface{}{
			"sections":  total,
			"confirmed": confirmed,
			"score":     score,
			"formula":   "confirmed/sections * 15",
		},
	}
}

// calculateCitations gives 10 points when drafts have no citation findings
func (s *Scorer) calculateCitations(drafts []model.DocumentDraft) (int, model.Signal) {
	errs, warns := 0, 0
	for _, d := range drafts {
		errs += len(d.CitationErrors)
		warns += len(d.CitationWarnings)
	}

	score, severity := 10, model.SeverityInfo
	switch {
	case errs > 0:
		score, severity = 0, model.SeverityCritical
	case warns > 0:
		score, severity = 5, model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalCitations,
		Severity:    severity,
		Description: fmt.Sprintf("%d citation errors, %d citation warnings", errs, warns),
		Data: map[string]interface{}{
			"errors":   errs,
			"warnings": warns,
			"score":    score,
		},
	}
}

// detectDuplicates counts items whose hash was already indexed
func (s *Scorer) detectDuplicates(index model.EvidenceIndex) (int, model.Signal) {
	seen := map[string]bool{}
	dupes := 0
	for _, item := range index.Items {
		if seen[item.Hash] {
			dupes++
			continue
		}
		seen[item.Hash] = true
	}

	return dupes, model.Signal{
		Type:        model.SignalDuplicates,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("%d duplicate uploads", dupes),
		Data: map[string]interface{}{
			"duplicates": dupes,
			"penalty":    5,
		},
	}
}

// determineConfidence determines the confidence level based on the score
func (s *Scorer) determineConfidence(score int, evidenceCount int) string {
	if evidenceCount < 3 {
		return "low"
	}

	if score >= 80 {
		return "high"
	} else if score >= 60 {
		return "medium"
	}
	return "low"
}
