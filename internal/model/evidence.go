package model

import "time"

// EvidenceID identifies an indexed evidence item
type EvidenceID string

// EvidenceType is the file type of an evidence item
type EvidenceType string

const (
	EvidencePDF  EvidenceType = "pdf"
	EvidencePNG  EvidenceType = "png"
	EvidenceJPG  EvidenceType = "jpg"
	EvidenceEML  EvidenceType = "eml"
	EvidenceTXT  EvidenceType = "txt"
	EvidenceHTML EvidenceType = "html"
	EvidenceDOCX EvidenceType = "docx"
)

// IsImage reports whether the type is a screenshot/photo format
func (t EvidenceType) IsImage() bool {
	return t == EvidencePNG || t == EvidenceJPG
}

// IsCorrespondence reports whether the type carries written correspondence
func (t EvidenceType) IsCorrespondence() bool {
	return t == EvidenceTXT || t == EvidenceEML
}

// Provenance records how evidence was obtained
type Provenance string

const (
	ProvenanceUser         Provenance = "user-provided"
	ProvenanceOfficialAPI  Provenance = "official-api"
	ProvenanceOfficialLink Provenance = "official-link"
)

// Valid reports whether p is one of the known provenances
func (p Provenance) Valid() bool {
	switch p {
	case ProvenanceUser, ProvenanceOfficialAPI, ProvenanceOfficialLink:
		return true
	}
	return false
}

// EvidenceMetadata is what could be extracted from the file itself
type EvidenceMetadata struct {
	Date      string `json:"date,omitempty"` // YYYY-MM-DD
	Sender    string `json:"sender,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Title     string `json:"title,omitempty"`
}

// HasParties reports whether a sender or recipient was found
func (m *EvidenceMetadata) HasParties() bool {
	return m != nil && (m.Sender != "" || m.Recipient != "")
}

// EvidenceItem is one indexed piece of evidence
type EvidenceItem struct {
	ID               EvidenceID        `json:"id"`
	Filename         string            `json:"filename"`
	Type             EvidenceType      `json:"type"`
	Date             string            `json:"date,omitempty"` // YYYY-MM-DD
	Summary          string            `json:"summary,omitempty"`
	Provenance       Provenance        `json:"provenance"`
	Hash             string            `json:"hash"` // SHA-256 hex of the content
	Tags             []string          `json:"tags,omitempty"`
	CredibilityScore float64           `json:"credibilityScore"`
	Metadata         *EvidenceMetadata `json:"metadata,omitempty"`
	SourceURL        string            `json:"sourceUrl,omitempty"`
	AddedAt          time.Time         `json:"addedAt"`
}

// SourceKind identifies the legal information service a source comes from
type SourceKind string

const (
	SourceCanLII      SourceKind = "canlii"
	SourceELaws       SourceKind = "e-laws"
	SourceJusticeLaws SourceKind = "justice-laws"
	SourceOther       SourceKind = "other"
)

// Source is a legal authority consulted for the matter
type Source struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Kind        SourceKind `json:"kind"`
	URL         string     `json:"url"`
	RetrievedAt *time.Time `json:"retrievedAt,omitempty"`
}

// SourceManifest lists the sources backing a matter
type SourceManifest struct {
	CompiledAt *time.Time `json:"compiledAt,omitempty"`
	Sources    []Source   `json:"sources"`
}

// EvidenceIndex is a read-only snapshot of an indexer
type EvidenceIndex struct {
	Items          []EvidenceItem `json:"items"`
	GeneratedAt    time.Time      `json:"generatedAt"`
	SourceManifest SourceManifest `json:"sourceManifest"`
}

// Lookup resolves an evidence handle to its item and 1-based position
func (ix EvidenceIndex) Lookup(id EvidenceID) (EvidenceItem, int, bool) {
	for i, item := range ix.Items {
		if item.ID == id {
			return item, i + 1, true
		}
	}
	return EvidenceItem{}, 0, false
}

// EvidenceManifestEntry lists one attachment in a package
type EvidenceManifestEntry struct {
	AttachmentIndex  int          `json:"attachmentIndex"`
	EvidenceID       EvidenceID   `json:"evidenceId"`
	Filename         string       `json:"filename"`
	Type             EvidenceType `json:"type"`
	Date             string       `json:"date,omitempty"`
	Provenance       Provenance   `json:"provenance"`
	Hash             string       `json:"hash"`
	CredibilityScore float64      `json:"credibilityScore"`
}

// EvidenceManifest is the attachment list shipped with a package
type EvidenceManifest struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	Entries     []EvidenceManifestEntry `json:"entries"`
}
