package domain

import (
	"context"
	"fmt"

	"github.com/ppiankov/casefile/internal/draft"
	"github.com/ppiankov/casefile/internal/model"
)

// draftTemplates renders each template id from the packager's library.
// Evidence sections reference every indexed item. Unknown ids become warnings.
func draftTemplates(deps Deps, in GenerateInput, vars Vars, ids []string) ([]model.DocumentDraft, []string) {
	var (
		drafts   []model.DocumentDraft
		warnings []string
	)
	lib := deps.Packager.Library()
	opts := draft.RenderOptions{KeepPlaceholders: deps.DraftConfig.KeepPlaceholders}
	values := vars.Any()

	evidenceIDs := make([]model.EvidenceID, 0, len(in.Index.Items))
	for _, item := range in.Index.Items {
		evidenceIDs = append(evidenceIDs, item.ID)
	}

	for _, id := range ids {
		tmpl, ok := lib.Get(id)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("template %s not found", id))
			continue
		}

		sections := make([]draft.SectionInput, 0, len(tmpl.Sections))
		for _, s := range tmpl.Sections {
			section := draft.SectionInput{
				ID:        s.ID,
				Heading:   draft.Render(s.Heading, values, opts),
				Content:   draft.Render(s.Body, values, opts),
				Confirmed: in.ConfirmAll,
			}
			if s.Evidence {
				section.EvidenceIDs = evidenceIDs
			}
			sections = append(sections, section)
		}

		drafts = append(drafts, deps.Engine.CreateDraft(draft.DraftInput{
			Title:              draft.Render(tmpl.Title, values, opts),
			TemplateID:         tmpl.ID,
			Domain:             in.Classification.Domain,
			Sections:           sections,
			Index:              in.Index,
			SkipConfirmation:   !deps.DraftConfig.RequireConfirmation,
			SuppressDisclaimer: !deps.DraftConfig.IncludeDisclaimer,
		}))
	}
	return drafts, warnings
}

// draftBuilder is a module's own drafting step
type draftBuilder func(in GenerateInput) (drafts []model.DocumentDraft, vars Vars, warnings []string)

// generate runs a module's buildDrafts then packages the result
func generate(ctx context.Context, deps Deps, in GenerateInput, build draftBuilder) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if deps.Packager == nil {
		return nil, fmt.Errorf("%s: packager not configured", in.Classification.Domain)
	}
	drafts, vars, warnings := build(in)
	return BuildPackageFromDrafts(ctx, deps, in, drafts, vars, warnings)
}
