// Package pack assembles document packages from drafts, evidence and routing.
package pack

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/casefile/internal/model"
	"gopkg.in/yaml.v3"
)

// Fixed package paths
const (
	SourceManifestPath   = "manifests/source_manifest.json"
	EvidenceManifestPath = "manifests/evidence_manifest.json"
	ForumMapPath         = "forum_map.md"
	TimelinePath         = "timeline.md"
	MissingEvidencePath  = "missing_evidence.md"
	ReadmePath           = "README.md"
	ReadinessPath        = "readiness.md"
	PDFAGuidePath        = "guides/pdfa_conversion.md"
	draftsDir            = "drafts/"
	formsDir             = "forms/"
)

var baseLayout = []string{
	SourceManifestPath,
	EvidenceManifestPath,
	ForumMapPath,
	TimelinePath,
	MissingEvidencePath,
	ReadmePath,
	ReadinessPath,
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and joins its alphanumeric runs with hyphens
func Slug(s string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}

// DraftPath is where a draft with the given template id or title is written
func DraftPath(name string) string {
	return draftsDir + Slug(name) + ".md"
}

// AssembleInput is everything that goes into a package
type AssembleInput struct {
	Name             string
	Classification   model.MatterClassification
	ForumMap         model.ForumMap
	Drafts           []model.DocumentDraft
	SourceManifest   model.SourceManifest
	EvidenceManifest model.EvidenceManifest
	Timeline         []model.TimelineEntry
	Gaps             []model.TimelineGap
	Alerts           []model.MissingEvidenceAlert
	Readiness        *model.Readiness
	Vars             map[string]string
	FormMappings     []FormMapping
}

// Packager is the DocumentPackager
type Packager struct {
	library *TemplateLibrary
	logger  *slog.Logger
	now     func() time.Time
}

// NewPackager creates a packager. A nil logger uses slog.Default().
func NewPackager(library *TemplateLibrary, logger *slog.Logger) *Packager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Packager{
		library: library,
		logger:  logger,
		now:     time.Now,
	}
}

// Library returns the template library the packager lays packages out with
func (p *Packager) Library() *TemplateLibrary {
	return p.library
}

// Assemble builds the package. Only a manifest encoding failure is an error;
// missing layout files and form failures become warnings.
func (p *Packager) Assemble(ctx context.Context, in AssembleInput) (model.DocumentPackage, error) {
	if err := ctx.Err(); err != nil {
		return model.DocumentPackage{}, err
	}

	b := &builder{}

	// 1. Manifests
	sources, err := json.MarshalIndent(in.SourceManifest, "", "  ")
	if err != nil {
		return model.DocumentPackage{}, fmt.Errorf("encode source manifest: %w", err)
	}
	b.add(SourceManifestPath, string(sources)+"\n")

	evidence, err := json.MarshalIndent(in.EvidenceManifest, "", "  ")
	if err != nil {
		return model.DocumentPackage{}, fmt.Errorf("encode evidence manifest: %w", err)
	}
	b.add(EvidenceManifestPath, string(evidence)+"\n")

	// 2. Fixed reports
	b.add(ForumMapPath, renderForumMap(in.ForumMap))
	b.add(TimelinePath, renderTimeline(in.Timeline, in.Gaps))
	b.add(MissingEvidencePath, renderMissingEvidence(in.Alerts))
	b.add(ReadinessPath, renderReadiness(in.Readiness))

	// 3. Drafts
	for _, d := range in.Drafts {
		name := d.TemplateID
		if name == "" {
			name = d.Title
		}
		content, err := renderDraft(d)
		if err != nil {
			b.warn(fmt.Sprintf("draft %q could not be rendered: %v", d.Title, err))
			continue
		}
		b.add(b.unique(DraftPath(name)), content)
	}

	// 4. Conditional guide and form summaries
	if p.library != nil && p.library.RequiresPDFA(in.Classification.Jurisdiction, in.Classification.Domain) {
		b.add(PDFAGuidePath, pdfaGuide(in.ForumMap.PrimaryForum.Name))
	}
	for _, m := range in.FormMappings {
		if !m.Applies(in.Classification.Domain) {
			continue
		}
		content, err := renderForm(m, in.Vars)
		if err != nil {
			p.logger.Warn("form summary failed", "form", m.FormID, "error", err)
			b.warn(fmt.Sprintf("form summary skipped: %v", err))
			continue
		}
		b.add(formsDir+Slug(m.FormID)+".md", content)
	}

	// 5. Back-fill the layout
	if p.library != nil {
		for _, path := range p.library.Layout(in.Classification.Domain) {
			if b.has(path) || path == ReadmePath {
				continue
			}
			b.add(path, fmt.Sprintf("# Not generated\n\nThis file is part of the standard package layout but could not be generated. Prepare `%s` manually.\n", path))
			b.warn(fmt.Sprintf("%s was missing and has been replaced with a placeholder", path))
		}
	}

	// 6. README last so it lists every file
	b.add(ReadmePath, renderReadme(in, b.paths()))

	name := in.Name
	if name == "" {
		name = fmt.Sprintf("%s-%s", in.Classification.Domain, p.now().UTC().Format("20060102"))
	}

	sort.Slice(b.files, func(i, j int) bool { return b.files[i].Path < b.files[j].Path })

	p.logger.Debug("package assembled", "name", name, "files", len(b.files), "warnings", len(b.warnings))

	return model.DocumentPackage{
		Name:             name,
		Folders:          folders(b.files),
		Files:            b.files,
		SourceManifest:   in.SourceManifest,
		EvidenceManifest: in.EvidenceManifest,
		Warnings:         b.warnings,
	}, nil
}

type builder struct {
	files    []model.PackageFile
	warnings []string
}

func (b *builder) add(path, content string) {
	b.files = append(b.files, model.PackageFile{Path: path, Content: content})
}

func (b *builder) warn(msg string) {
	b.warnings = append(b.warnings, msg)
}

func (b *builder) has(path string) bool {
	for _, f := range b.files {
		if f.Path == path {
			return true
		}
	}
	return false
}

// unique appends -2, -3 ... to a path already in the package
func (b *builder) unique(path string) string {
	if !b.has(path) {
		return path
	}
	base := strings.TrimSuffix(path, ".md")
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d.md", base, n)
		if !b.has(candidate) {
			return candidate
		}
	}
}

func (b *builder) paths() []string {
	out := make([]string, 0, len(b.files))
	for _, f := range b.files {
		out = append(out, f.Path)
	}
	sort.Strings(out)
	return out
}

func folders(files []model.PackageFile) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range files {
		if i := strings.LastIndex(f.Path, "/"); i > 0 {
			dir := f.Path[:i]
			if !seen[dir] {
				seen[dir] = true
				out = append(out, dir)
			}
		}
	}
	sort.Strings(out)
	return out
}

type draftFrontmatter struct {
	ID                   string    `yaml:"id"`
	Title                string    `yaml:"title"`
	Template             string    `yaml:"template,omitempty"`
	Created              time.Time `yaml:"created"`
	Citations            int       `yaml:"citations"`
	CitationErrors       []string  `yaml:"citation_errors,omitempty"`
	CitationWarnings     []string  `yaml:"citation_warnings,omitempty"`
	StyleWarnings        []string  `yaml:"style_warnings,omitempty"`
	MissingConfirmations []string  `yaml:"missing_confirmations,omitempty"`
}

func renderDraft(d model.DocumentDraft) (string, error) {
	fm, err := yaml.Marshal(draftFrontmatter{
		ID:                   d.ID,
		Title:                d.Title,
		Template:             d.TemplateID,
		Created:              d.CreatedAt,
		Citations:            len(d.Citations),
		CitationErrors:       d.CitationErrors,
		CitationWarnings:     d.CitationWarnings,
		StyleWarnings:        d.StyleWarnings,
		MissingConfirmations: d.MissingConfirmations,
	})
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s\n\n", d.Title)

	for _, s := range d.Sections {
		if s.Heading != "" {
			fmt.Fprintf(&b, "## %s\n\n", s.Heading)
		}
		b.WriteString(strings.TrimSpace(s.Content))
		b.WriteString("\n\n")
		if len(s.EvidenceRefs) > 0 {
			b.WriteString("Evidence:\n\n")
			for _, ref := range s.EvidenceRefs {
				fmt.Fprintf(&b, "- %s\n", ref.Description)
			}
			b.WriteString("\n")
		}
	}

	if len(d.Citations) > 0 {
		b.WriteString("## Sources\n\n")
		for _, c := range d.Citations {
			fmt.Fprintf(&b, "- Attachment %d: %s (%s) %s\n", c.AttachmentIndex, c.SourceName, c.SourceKind, c.URL)
		}
		b.WriteString("\n")
	}

	if d.Disclaimer != "" {
		fmt.Fprintf(&b, "---\n\n_%s_\n", d.Disclaimer)
	}
	return b.String(), nil
}

func renderForumMap(fm model.ForumMap) string {
	var b strings.Builder
	b.WriteString("# Forum map\n\n")
	fmt.Fprintf(&b, "Primary forum: **%s** (%s, %s)\n\n", fm.PrimaryForum.Name, fm.PrimaryForum.ID, fm.PrimaryForum.Type)

	writeRefs := func(title string, refs []model.AuthorityRef) {
		fmt.Fprintf(&b, "## %s\n\n", title)
		if len(refs) == 0 {
			b.WriteString("None.\n\n")
			return
		}
		for _, r := range refs {
			fmt.Fprintf(&b, "- %s (%s)\n", r.Name, r.ID)
		}
		b.WriteString("\n")
	}
	writeRefs("Alternatives", fm.Alternatives)
	writeRefs("Escalation", fm.Escalation)
	return b.String()
}

func renderTimeline(timeline []model.TimelineEntry, gaps []model.TimelineGap) string {
	var b strings.Builder
	b.WriteString("# Timeline\n\n")
	if len(timeline) == 0 {
		b.WriteString("No dated evidence.\n")
		return b.String()
	}

	b.WriteString("| Date | File | Type | Summary |\n|---|---|---|---|\n")
	for _, e := range timeline {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", e.Date, e.Filename, e.Type, strings.ReplaceAll(e.Summary, "|", "/"))
	}

	if len(gaps) > 0 {
		b.WriteString("\n## Gaps\n\n")
		for _, g := range gaps {
			fmt.Fprintf(&b, "- %s to %s: %d days (%s risk)\n", g.From, g.To, g.DurationDays, g.RiskLevel)
		}
	}
	return b.String()
}

func renderMissingEvidence(alerts []model.MissingEvidenceAlert) string {
	var b strings.Builder
	b.WriteString("# Missing evidence\n\n")
	if len(alerts) == 0 {
		b.WriteString("No missing evidence was detected.\n")
		return b.String()
	}
	for _, a := range alerts {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", a.Type, a.Severity, a.Message)
	}
	return b.String()
}

func renderReadiness(r *model.Readiness) string {
	var b strings.Builder
	b.WriteString("# Readiness\n\n")
	if r == nil {
		b.WriteString("Readiness was not computed.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Readiness index: **%d/100** (%s confidence)\n\n", r.Index, r.Confidence)
	for _, s := range r.Signals {
		fmt.Fprintf(&b, "- %s [%s]: %s\n", s.Type, s.Severity, s.Description)
	}
	return b.String()
}

func renderReadme(in AssembleInput, paths []string) string {
	c := in.Classification

	var b strings.Builder
	b.WriteString("# Document package\n\n")
	fmt.Fprintf(&b, "- Matter: %s\n", c.ID)
	fmt.Fprintf(&b, "- Domain: %s\n", c.Domain)
	fmt.Fprintf(&b, "- Jurisdiction: %s\n", c.Jurisdiction)
	fmt.Fprintf(&b, "- Primary forum: %s\n", in.ForumMap.PrimaryForum.Name)
	if c.UPL != nil {
		fmt.Fprintf(&b, "- Support level: tier %d, %s\n", c.UPL.Tier, c.UPL.Label)
	}
	b.WriteString("\n## Files\n\n")
	for _, p := range paths {
		fmt.Fprintf(&b, "- `%s`\n", p)
	}
	fmt.Fprintf(&b, "- `%s`\n", ReadmePath)
	b.WriteString("\nEvery draft is a starting point for review. Confirm each section before filing or sending it.\n")
	return b.String()
}

func pdfaGuide(forum string) string {
	if forum == "" {
		forum = "the court"
	}
	return fmt.Sprintf(`# Converting documents to PDF/A

Electronic filings with %s are expected as searchable PDF or PDF/A files.

1. Open each draft in a word processor and review it.
2. Export with the PDF/A option enabled (LibreOffice: File > Export as PDF > PDF/A-2b).
3. Attach evidence in the attachment order listed in manifests/evidence_manifest.json.
4. Check that fonts are embedded and the file opens without warnings.
`, forum)
}
