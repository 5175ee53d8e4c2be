package pack

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/casefile/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestPackager(t *testing.T) *Packager {
	t.Helper()
	lib, err := DefaultLibrary()
	require.NoError(t, err)
	p := NewPackager(lib, nil)
	p.now = func() time.Time { return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC) }
	return p
}

func testInput() AssembleInput {
	return AssembleInput{
		Classification: model.MatterClassification{
			ID:           "m-1",
			Domain:       model.DomainLandlordTenant,
			Jurisdiction: model.JurisdictionOntario,
		},
		ForumMap: model.ForumMap{
			Domain:       model.DomainLandlordTenant,
			PrimaryForum: model.AuthorityRef{ID: "ON-LTB", Name: "Landlord and Tenant Board", Type: model.AuthorityTribunal},
			Alternatives: []model.AuthorityRef{{ID: "ON-DivCt", Name: "Divisional Court"}},
		},
		Timeline: []model.TimelineEntry{{Date: "2025-01-01", Filename: "a.txt", Type: model.EvidenceTXT, Summary: "rent | receipt"}},
		Gaps:     []model.TimelineGap{{From: "2025-01-01", To: "2025-02-10", DurationDays: 40, RiskLevel: model.RiskHigh}},
		Alerts:   []model.MissingEvidenceAlert{{Type: model.AlertScreenshot, Severity: model.SeverityWarning, Message: "No screenshots."}},
		Vars:     map[string]string{"claimantName": "Alex Tran", "amount": "$1,200"},
	}
}

func TestDefaultLibrary(t *testing.T) {
	lib, err := DefaultLibrary()
	require.NoError(t, err)

	tmpl, ok := lib.Get("chronology")
	require.True(t, ok)
	assert.NotEmpty(t, tmpl.Sections)

	assert.Equal(t, []string{"chronology", "lt-notice-letter"}, lib.RequiredTemplates(model.DomainLandlordTenant))
	assert.Equal(t, []string{"chronology"}, lib.RequiredTemplates(model.DomainCriminal))

	assert.True(t, lib.RequiresPDFA(model.JurisdictionOntario, model.DomainInsurance))
	assert.False(t, lib.RequiresPDFA(model.JurisdictionOntario, model.DomainLandlordTenant))
	assert.True(t, lib.RequiresPDFA(model.JurisdictionFederal, model.DomainOther))
}

func TestParseLibrary_Errors(t *testing.T) {
	tests := []struct {
		yaml string
		desc string
	}{
		{"templates: [{title: x}]", "missing id"},
		{"templates: [{id: a}, {id: a}]", "duplicate id"},
		{"required: {insurance: [nope]}\ntemplates: [{id: a}]", "unknown required template"},
		{"templates: {", "bad yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := ParseLibrary([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestPackager_AlwaysEmitsFixedFiles(t *testing.T) {
	p := newTestPackager(t)

	pkg, err := p.Assemble(context.Background(), testInput())
	require.NoError(t, err)

	for _, path := range []string{
		SourceManifestPath, EvidenceManifestPath, ForumMapPath, TimelinePath,
		MissingEvidencePath, ReadmePath, ReadinessPath,
	} {
		_, ok := pkg.File(path)
		assert.True(t, ok, path)
	}
	assert.Equal(t, "landlordTenant-20250501", pkg.Name)
	assert.Contains(t, pkg.Folders, "manifests")

	timeline, _ := pkg.File(TimelinePath)
	assert.Contains(t, timeline.Content, "40 days (high risk)")
	assert.Contains(t, timeline.Content, "rent / receipt")

	forum, _ := pkg.File(ForumMapPath)
	assert.Contains(t, forum.Content, "Divisional Court (ON-DivCt)")
}

func TestPackager_BackfillsLayout(t *testing.T) {
	p := newTestPackager(t)

	pkg, err := p.Assemble(context.Background(), testInput())
	require.NoError(t, err)

	for _, path := range []string{DraftPath("chronology"), DraftPath("lt-notice-letter")} {
		f, ok := pkg.File(path)
		require.True(t, ok, path)
		assert.Contains(t, f.Content, "Not generated")
	}
	assert.Len(t, pkg.Warnings, 2)
}

func TestPackager_RendersDrafts(t *testing.T) {
	p := newTestPackager(t)
	in := testInput()
	in.Drafts = []model.DocumentDraft{
		{
			ID:         "d-1",
			Title:      "Chronology of events",
			TemplateID: "chronology",
			Sections: []model.DraftSection{{
				Heading:      "Events",
				Content:      "Rent was paid.",
				EvidenceRefs: []model.EvidenceRef{{EvidenceID: "e1", AttachmentIndex: 1, Description: "Attachment 1: a.txt (TXT)"}},
			}},
			Citations:            []model.Citation{{AttachmentIndex: 1, SourceName: "RTA", SourceKind: model.SourceELaws}},
			MissingConfirmations: []string{"Events"},
			Disclaimer:           "Not legal advice.",
		},
		{ID: "d-2", Title: "Chronology of events", TemplateID: "chronology"},
	}

	pkg, err := p.Assemble(context.Background(), in)
	require.NoError(t, err)

	f, ok := pkg.File("drafts/chronology.md")
	require.True(t, ok)
	require.True(t, strings.HasPrefix(f.Content, "---\n"))

	parts := strings.SplitN(f.Content, "---\n", 3)
	require.Len(t, parts, 3)
	var fm draftFrontmatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "d-1", fm.ID)
	assert.Equal(t, 1, fm.Citations)
	assert.Equal(t, []string{"Events"}, fm.MissingConfirmations)

	assert.Contains(t, f.Content, "- Attachment 1: a.txt (TXT)")
	assert.Contains(t, f.Content, "_Not legal advice._")

	_, ok = pkg.File("drafts/chronology-2.md")
	assert.True(t, ok, "colliding slugs get a suffix")
}

func TestPackager_PDFAGuide(t *testing.T) {
	p := newTestPackager(t)

	in := testInput()
	pkg, err := p.Assemble(context.Background(), in)
	require.NoError(t, err)
	_, ok := pkg.File(PDFAGuidePath)
	assert.False(t, ok)

	in.Classification.Domain = model.DomainInsurance
	in.ForumMap.PrimaryForum.Name = "Superior Court of Justice"
	pkg, err = p.Assemble(context.Background(), in)
	require.NoError(t, err)
	guide, ok := pkg.File(PDFAGuidePath)
	require.True(t, ok)
	assert.Contains(t, guide.Content, "Superior Court of Justice")
}

func TestPackager_FormSummaries(t *testing.T) {
	p := newTestPackager(t)
	mappings, err := ParseFormMappings([]byte(`[
		// LTB tenant application
		{
			"formId": "T2",
			"title": "Application about Tenant Rights",
			"authority": "ON-LTB",
			"domains": ["landlordTenant"],
			"fields": {"Tenant name": "claimantName", "Amount": "amount"},
		},
		{"formId": "Form 7A", "domains": ["civil-negligence"], "fields": {"Plaintiff": "claimantName"}},
		{"formId": "", "fields": {"x": "amount"}},
		{"formId": "T6", "fields": {"Unit": "unitAddress"}}, /* unknown variable */
	]`))
	require.NoError(t, err)

	in := testInput()
	in.FormMappings = mappings
	pkg, err := p.Assemble(context.Background(), in)
	require.NoError(t, err)

	forms := pkg.FilesUnder("forms/")
	require.Len(t, forms, 1)
	assert.Equal(t, "forms/t2.md", forms[0].Path)
	assert.Contains(t, forms[0].Content, "| Tenant name | Alex Tran |")
	assert.Contains(t, forms[0].Content, "Filed with: ON-LTB")

	var formWarnings int
	for _, w := range pkg.Warnings {
		if strings.HasPrefix(w, "form summary skipped") {
			formWarnings++
		}
	}
	assert.Equal(t, 2, formWarnings)
}

func TestPackager_CancelledContext(t *testing.T) {
	p := newTestPackager(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Assemble(ctx, testInput())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chronology of events", "chronology-of-events"},
		{"lt-application-summary", "lt-application-summary"},
		{"  Form 7A!  ", "form-7a"},
		{"***", "untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}
