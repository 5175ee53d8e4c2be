// Package draft builds citation-checked document drafts from section content and an evidence index.
package draft

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/casefile/internal/model"
)

// sourcePriority is the fixed order used to pick a citation source
var sourcePriority = []model.SourceKind{
	model.SourceCanLII,
	model.SourceELaws,
	model.SourceJusticeLaws,
}

// SectionInput is one section before hydration
type SectionInput struct {
	ID          string
	Heading     string
	Content     string
	EvidenceIDs []model.EvidenceID
	Confirmed   bool
}

// DraftInput is everything CreateDraft needs
type DraftInput struct {
	Title              string
	TemplateID         string
	Domain             model.Domain
	Sections           []SectionInput
	Index              model.EvidenceIndex
	SkipConfirmation   bool // Do not list unconfirmed sections
	SuppressDisclaimer bool
}

// Engine turns section content and an evidence index into a checked draft
type Engine struct {
	style       *StyleGuide
	citations   *CitationEnforcer
	disclaimers DisclaimerService
	now         func() time.Time
}

// NewEngine creates a new drafting engine
func NewEngine(style *StyleGuide, citations *CitationEnforcer, disclaimers DisclaimerService) *Engine {
	if style == nil {
		style = NewStyleGuide()
	}
	if citations == nil {
		citations = NewCitationEnforcer()
	}
	if disclaimers == nil {
		disclaimers = NewDisclaimers("")
	}
	return &Engine{
		style:       style,
		citations:   citations,
		disclaimers: disclaimers,
		now:         time.Now,
	}
}

// CreateDraft hydrates evidence references, builds citations and attaches
// advisory warnings. Nothing here blocks draft creation.
func (e *Engine) CreateDraft(in DraftInput) model.DocumentDraft {
	// 1. Hydrate evidence references against the current index
	sections := make([]model.DraftSection, 0, len(in.Sections))
	for i, s := range in.Sections {
		id := s.ID
		if id == "" {
			id = fmt.Sprintf("section-%d", i+1)
		}
		sections = append(sections, model.DraftSection{
			ID:           id,
			Heading:      s.Heading,
			Content:      s.Content,
			EvidenceRefs: hydrate(s.EvidenceIDs, in.Index),
			Confirmed:    s.Confirmed,
		})
	}

	// 2. Build citations from the highest-priority source
	citations := buildCitations(sections, in.Index.SourceManifest)

	// 3. Style and citation checks over the section text
	var text strings.Builder
	for _, s := range sections {
		if s.Heading != "" {
			text.WriteString("## " + s.Heading + "\n\n")
		}
		text.WriteString(s.Content)
		text.WriteString("\n\n")
	}
	check := e.citations.Check(sections, citations)

	d := model.DocumentDraft{
		ID:               uuid.NewString(),
		Title:            in.Title,
		TemplateID:       in.TemplateID,
		Sections:         sections,
		Citations:        citations,
		StyleWarnings:    e.style.Check(text.String()),
		CitationWarnings: check.Warnings,
		CitationErrors:   check.Errors,
		CreatedAt:        e.now().UTC(),
	}

	// 4. Confirmations and disclaimer
	if !in.SkipConfirmation {
		for _, s := range sections {
			if !s.Confirmed {
				name := s.Heading
				if name == "" {
					name = s.ID
				}
				d.MissingConfirmations = append(d.MissingConfirmations, name)
			}
		}
	}
	if !in.SuppressDisclaimer {
		d.Disclaimer = e.disclaimers.Disclaimer(in.Domain)
	}

	return d
}

// hydrate resolves evidence handles to their 1-based position in the index
func hydrate(ids []model.EvidenceID, index model.EvidenceIndex) []model.EvidenceRef {
	if len(ids) == 0 {
		return nil
	}
	refs := make([]model.EvidenceRef, 0, len(ids))
	for _, id := range ids {
		item, pos, ok := index.Lookup(id)
		if !ok {
			refs = append(refs, model.EvidenceRef{
				EvidenceID:  id,
				Description: "Evidence not available in the current index",
			})
			continue
		}
		refs = append(refs, model.EvidenceRef{
			EvidenceID:      id,
			AttachmentIndex: pos,
			Description:     Describe(item, pos),
			Resolved:        true,
		})
	}
	return refs
}

// Describe renders the attachment label used in drafts and manifests
func Describe(item model.EvidenceItem, attachmentIndex int) string {
	label := fmt.Sprintf("Attachment %d: %s (%s", attachmentIndex, item.Filename, strings.ToUpper(string(item.Type)))
	if item.Date != "" {
		label += ", " + item.Date
	}
	return label + ")"
}

// PrimarySource returns the first available source in priority order
func PrimarySource(manifest model.SourceManifest) (model.Source, bool) {
	for _, kind := range sourcePriority {
		for _, s := range manifest.Sources {
			if s.Kind == kind {
				return s, true
			}
		}
	}
	return model.Source{}, false
}

func buildCitations(sections []model.DraftSection, manifest model.SourceManifest) []model.Citation {
	source, ok := PrimarySource(manifest)
	if !ok {
		return []model.Citation{}
	}

	citations := []model.Citation{}
	seen := make(map[model.EvidenceID]bool)
	for _, s := range sections {
		for _, ref := range s.EvidenceRefs {
			if !ref.Resolved || seen[ref.EvidenceID] {
				continue
			}
			seen[ref.EvidenceID] = true
			citations = append(citations, model.Citation{
				EvidenceID:      ref.EvidenceID,
				AttachmentIndex: ref.AttachmentIndex,
				SourceID:        source.ID,
				SourceName:      source.Name,
				SourceKind:      source.Kind,
				URL:             source.URL,
			})
		}
	}
	return citations
}
