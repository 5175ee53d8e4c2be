package model

import "time"

// RetentionPolicy gates every deletion request for a matter
type RetentionPolicy struct {
	Days            int       `json:"days"`
	LegalHold       bool      `json:"legalHold"`
	LegalHoldReason string    `json:"legalHoldReason,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DeletionStatus is the outcome of a deletion request
type DeletionStatus string

const (
	DeletionBlocked   DeletionStatus = "blocked"
	DeletionCompleted DeletionStatus = "completed"
)

// DeletionRequest asks for a matter's data to be removed
type DeletionRequest struct {
	MatterID  string `json:"matterId"`
	Actor     string `json:"actor"`
	Reason    string `json:"reason,omitempty"`
	LegalHold bool   `json:"legalHold"` // Per-request hold, independent of the policy
}

// DeletionResult reports what happened to a deletion request
type DeletionResult struct {
	MatterID    string         `json:"matterId"`
	Status      DeletionStatus `json:"status"`
	Reason      string         `json:"reason,omitempty"`
	RequestedAt time.Time      `json:"requestedAt"`
	PurgeAfter  *time.Time     `json:"purgeAfter,omitempty"`
}
