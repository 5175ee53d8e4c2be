package model

// TimelineEntry is one dated evidence item in chronological order
type TimelineEntry struct {
	Date       string       `json:"date"` // YYYY-MM-DD
	EvidenceID EvidenceID   `json:"evidenceId"`
	Filename   string       `json:"filename"`
	Type       EvidenceType `json:"type"`
	Summary    string       `json:"summary,omitempty"`
}

// RiskLevel grades a timeline gap
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TimelineGap is a stretch of more than a week with no dated evidence
type TimelineGap struct {
	From         string     `json:"from"`
	To           string     `json:"to"`
	FromEvidence EvidenceID `json:"fromEvidence"`
	ToEvidence   EvidenceID `json:"toEvidence"`
	DurationDays int        `json:"durationDays"`
	RiskLevel    RiskLevel  `json:"riskLevel"`
}

// AlertType classifies a missing-evidence alert
type AlertType string

const (
	AlertScreenshot    AlertType = "screenshot"
	AlertEmailOriginal AlertType = "email-original"
	AlertUnknown       AlertType = "unknown"
	AlertDuplicate     AlertType = "duplicate"
)

// Severity grades alerts and readiness signals
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// MissingEvidenceAlert points at evidence the matter probably needs
type MissingEvidenceAlert struct {
	Type     AlertType `json:"type"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}
