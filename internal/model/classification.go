package model

// Domain is the area of law a matter belongs to
type Domain string

const (
	DomainInsurance       Domain = "insurance"
	DomainLandlordTenant  Domain = "landlordTenant"
	DomainCivilNegligence Domain = "civil-negligence"
	DomainCriminal        Domain = "criminal"
	DomainConsumer        Domain = "consumerProtection"
	DomainEstate          Domain = "estateSuccession"
	DomainMunicipal       Domain = "municipalPropertyDamage"
	DomainMalpractice     Domain = "legalMalpractice"
	DomainHumanRights     Domain = "humanRights"
	DomainEmployment      Domain = "employment"
	DomainOther           Domain = "other"
)

// Jurisdictions recognised by the router
const (
	JurisdictionOntario = "Ontario"
	JurisdictionFederal = "Federal"
)

// Urgency of a matter
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Pillar is the top-level legal character of a matter
type Pillar string

const (
	PillarCriminal       Pillar = "Criminal"
	PillarCivil          Pillar = "Civil"
	PillarAdministrative Pillar = "Administrative"
	PillarQuasiCriminal  Pillar = "Quasi-Criminal"
	PillarUnknown        Pillar = "Unknown"
)

// MatterStatus tracks where a matter is in the pipeline
type MatterStatus string

const (
	StatusClassified MatterStatus = "classified"
	StatusEvidence   MatterStatus = "evidence"
	StatusDrafted    MatterStatus = "drafted"
)

// ClassificationInput carries the free text and hints captured at intake
type ClassificationInput struct {
	DomainHint       string   `json:"domainHint,omitempty"`
	JurisdictionHint string   `json:"jurisdictionHint,omitempty"`
	ClaimantType     string   `json:"claimantType,omitempty"`
	RespondentType   string   `json:"respondentType,omitempty"`
	DisputeAmount    *float64 `json:"disputeAmount,omitempty"`
	UrgencyHint      string   `json:"urgencyHint,omitempty"`
	KeyDates         []string `json:"keyDates,omitempty"`
	Description      string   `json:"description,omitempty"`
}

// Parties describes who is on each side of the dispute
type Parties struct {
	ClaimantType   string `json:"claimantType"`
	RespondentType string `json:"respondentType"`
}

// MatterTimeline holds the dates supplied at intake
type MatterTimeline struct {
	KeyDates []string `json:"keyDates"`
	Start    string   `json:"start,omitempty"` // Earliest parseable key date (YYYY-MM-DD)
	End      string   `json:"end,omitempty"`   // Latest parseable key date (YYYY-MM-DD)
}

// MatterClassification is the structured result of intake
type MatterClassification struct {
	ID            string         `json:"id"`
	Domain        Domain         `json:"domain"`
	Jurisdiction  string         `json:"jurisdiction"`
	Parties       Parties        `json:"parties"`
	Timeline      MatterTimeline `json:"timeline"`
	Urgency       Urgency        `json:"urgency"`
	DisputeAmount *float64       `json:"disputeAmount,omitempty"`
	Status        MatterStatus   `json:"status"`
	Pillar        *Pillar        `json:"pillar,omitempty"`
	PillarMatches []Pillar       `json:"pillarMatches,omitempty"`
	Journey       []string       `json:"journey,omitempty"` // Next steps attached by the orchestrator
	UPL           *UPLAssessment `json:"upl,omitempty"`
}

// UPLAssessment records which side of the legal-advice boundary a matter sits on
type UPLAssessment struct {
	Tier       int      `json:"tier"` // 1 information, 2 document preparation, 3 referral
	Label      string   `json:"label"`
	Reasons    []string `json:"reasons,omitempty"`
	Disclaimer string   `json:"disclaimer"`
}

// DeadlineAlert warns about a limitation or notice period
type DeadlineAlert struct {
	Kind          string   `json:"kind"`
	Message       string   `json:"message"`
	Deadline      string   `json:"deadline,omitempty"` // YYYY-MM-DD
	DaysRemaining *int     `json:"daysRemaining,omitempty"`
	Severity      Severity `json:"severity"`
}
