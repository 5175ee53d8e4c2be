package model

import "time"

// Readiness summarises whether a matter's package is ready for review
type Readiness struct {
	MatterID   string    `json:"matterId"`
	ComputedAt time.Time `json:"computedAt"`
	Index      int       `json:"index"`      // Overall readiness (0-100)
	Confidence string    `json:"confidence"` // "low", "medium", "high"
	Signals    []Signal  `json:"signals"`    // Diagnostic signals with transparent data
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`           // Signal classification
	Severity    Severity               `json:"severity"`       // info, warning, critical
	Description string                 `json:"description"`    // Human-readable description
	Data        map[string]interface{} `json:"data,omitempty"` // Transparent scoring data (formulas, inputs)
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalEvidenceCoverage SignalType = "evidence_coverage" // Dated evidence across the matter
	SignalCredibility      SignalType = "credibility"       // Mean credibility of indexed items
	SignalTimelineGaps     SignalType = "timeline_gaps"     // Gap risk along the timeline
	SignalSources          SignalType = "sources"           // Legal sources available for citation
	SignalConfirmations    SignalType = "confirmations"     // Draft sections awaiting confirmation
	SignalCitations        SignalType = "citations"         // Citation errors across drafts
	SignalDuplicates       SignalType = "duplicates"        // Identical uploads
)
