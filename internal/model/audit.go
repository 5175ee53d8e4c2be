package model

import "time"

// AuditEventType names a state change
type AuditEventType string

const (
	AuditIntake             AuditEventType = "matter.intake"
	AuditEvidenceUploaded   AuditEventType = "evidence.uploaded"
	AuditEvidenceRejected   AuditEventType = "evidence.rejected"
	AuditSourceAdded        AuditEventType = "source.added"
	AuditDocumentsGenerated AuditEventType = "documents.generated"
	AuditDataExported       AuditEventType = "data.exported"
	AuditDeletionRequested  AuditEventType = "data.deletion_requested"
	AuditLegalHoldChanged   AuditEventType = "retention.legal_hold_changed"
	AuditRetentionChanged   AuditEventType = "retention.policy_changed"
)

// AuditCategory groups events by their consumer
type AuditCategory string

const (
	CategoryCompliance AuditCategory = "compliance"
	CategoryOperations AuditCategory = "operations"
)

// AuditEvent is one entry in the append-only audit log
type AuditEvent struct {
	ID        string         `json:"id"`
	Type      AuditEventType `json:"type"`
	Category  AuditCategory  `json:"category"`
	Timestamp time.Time      `json:"timestamp"`
	Actor     string         `json:"actor"`
	MatterID  string         `json:"matterId,omitempty"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}
