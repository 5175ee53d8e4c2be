package draft

import (
	"fmt"

	"github.com/ppiankov/casefile/internal/extract"
	"github.com/ppiankov/casefile/internal/model"
)

// CitationCheck holds the outcome of a citation pass
type CitationCheck struct {
	Warnings []string
	Errors   []string
}

// CitationEnforcer checks that evidence-backed sections carry citations
type CitationEnforcer struct {
	statements *extract.StatementExtractor
}

// NewCitationEnforcer creates a new citation enforcer
func NewCitationEnforcer() *CitationEnforcer {
	return &CitationEnforcer{
		statements: extract.NewStatementExtractor(),
	}
}

// Check inspects hydrated sections against the draft's citations.
//
// A draft with no evidence references yields nothing. Otherwise every
// statement in an evidence-referencing section is an error when the draft
// has zero citations, and a warning when the draft is cited but the
// section's own references are not.
func (e *CitationEnforcer) Check(sections []model.DraftSection, citations []model.Citation) CitationCheck {
	var check CitationCheck

	if !hasEvidenceRefs(sections) {
		return check
	}

	cited := make(map[model.EvidenceID]bool, len(citations))
	for _, c := range citations {
		cited[c.EvidenceID] = true
	}

	for _, s := range sections {
		name := sectionName(s)
		sectionCited := false
		for _, ref := range s.EvidenceRefs {
			if cited[ref.EvidenceID] {
				sectionCited = true
			}
			if !ref.Resolved {
				check.Warnings = append(check.Warnings, fmt.Sprintf("%s: evidence %s is not in the current index", name, ref.EvidenceID))
			}
		}

		if len(s.EvidenceRefs) > 0 {
			statements := e.statements.Extract(s.Content)
			switch {
			case len(citations) == 0 && len(statements) == 0:
				check.Errors = append(check.Errors, fmt.Sprintf("%s: references evidence but the draft has no citation sources", name))
			case len(citations) == 0:
				for _, st := range statements {
					check.Errors = append(check.Errors, fmt.Sprintf("%s: uncited statement: %q", name, st.Text))
				}
			case !sectionCited:
				check.Warnings = append(check.Warnings, fmt.Sprintf("%s: none of its evidence references resolved to a citation", name))
			}
		}

		if !sectionCited {
			for _, q := range extract.Quotes(s.Content) {
				check.Warnings = append(check.Warnings, fmt.Sprintf("%s: quoted text without citation: %s", name, q))
			}
		}
	}

	return check
}

func hasEvidenceRefs(sections []model.DraftSection) bool {
	for _, s := range sections {
		if len(s.EvidenceRefs) > 0 {
			return true
		}
	}
	return false
}

func sectionName(s model.DraftSection) string {
	if s.Heading != "" {
		return fmt.Sprintf("section %q", s.Heading)
	}
	return fmt.Sprintf("section %q", s.ID)
}
