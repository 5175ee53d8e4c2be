package model

import (
	"strings"
	"time"
)

// EvidenceRef links a draft section to an evidence item by value
type EvidenceRef struct {
	EvidenceID      EvidenceID `json:"evidenceId"`
	AttachmentIndex int        `json:"attachmentIndex,omitempty"` // 1-based position in the current index
	Description     string     `json:"description,omitempty"`
	Resolved        bool       `json:"resolved"`
}

// DraftSection is one headed block of a draft
type DraftSection struct {
	ID           string        `json:"id"`
	Heading      string        `json:"heading"`
	Content      string        `json:"content"`
	EvidenceRefs []EvidenceRef `json:"evidenceRefs,omitempty"`
	Confirmed    bool          `json:"confirmed"`
}

// Citation ties an evidence reference to a legal source
type Citation struct {
	EvidenceID      EvidenceID `json:"evidenceId"`
	AttachmentIndex int        `json:"attachmentIndex"`
	SourceID        string     `json:"sourceId"`
	SourceName      string     `json:"sourceName"`
	SourceKind      SourceKind `json:"sourceKind"`
	URL             string     `json:"url,omitempty"`
}

// DocumentDraft is a generated document awaiting human review
type DocumentDraft struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	TemplateID           string         `json:"templateId,omitempty"`
	Sections             []DraftSection `json:"sections"`
	Disclaimer           string         `json:"disclaimer,omitempty"`
	Citations            []Citation     `json:"citations"`
	StyleWarnings        []string       `json:"styleWarnings,omitempty"`
	CitationWarnings     []string       `json:"citationWarnings,omitempty"`
	CitationErrors       []string       `json:"citationErrors,omitempty"`
	MissingConfirmations []string       `json:"missingConfirmations,omitempty"`
	CreatedAt            time.Time      `json:"createdAt"`
}

// PackageFile is an immutable content snapshot inside a package
type PackageFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// DocumentPackage is the assembled, ready-to-review file set
type DocumentPackage struct {
	Name             string           `json:"name"`
	Folders          []string         `json:"folders"`
	Files            []PackageFile    `json:"files"`
	SourceManifest   SourceManifest   `json:"sourceManifest"`
	EvidenceManifest EvidenceManifest `json:"evidenceManifest"`
	Warnings         []string         `json:"warnings,omitempty"`
}

// File returns the file at path, if present
func (p DocumentPackage) File(path string) (PackageFile, bool) {
	for _, f := range p.Files {
		if f.Path == path {
			return f, true
		}
	}
	return PackageFile{}, false
}

// FilesUnder returns every file whose path starts with prefix
func (p DocumentPackage) FilesUnder(prefix string) []PackageFile {
	var out []PackageFile
	for _, f := range p.Files {
		if strings.HasPrefix(f.Path, prefix) {
			out = append(out, f)
		}
	}
	return out
}
