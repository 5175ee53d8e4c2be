package pack

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/ppiankov/casefile/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// anyDomain matches every domain in layout and PDF/A tables
const anyDomain = "*"

// TemplateSection is one section of a draft template
type TemplateSection struct {
	ID       string `yaml:"id"`
	Heading  string `yaml:"heading"`
	Body     string `yaml:"body"`
	Evidence bool   `yaml:"evidence"` // Attach the matter's evidence to this section
}

// Template is a named sequence of sections
type Template struct {
	ID       string            `yaml:"id"`
	Title    string            `yaml:"title"`
	Sections []TemplateSection `yaml:"sections"`
}

type libraryFile struct {
	Required  map[string][]string `yaml:"required"`
	PDFA      map[string][]string `yaml:"pdfa"`
	Templates []Template          `yaml:"templates"`
}

// TemplateLibrary holds draft templates and the per-domain package layout
type TemplateLibrary struct {
	templates map[string]Template
	required  map[string][]string
	pdfa      map[string][]string
}

// DefaultLibrary loads the built-in templates
func DefaultLibrary() (*TemplateLibrary, error) {
	return ParseLibrary(templatesYAML)
}

// ParseLibrary decodes a YAML template library
func ParseLibrary(data []byte) (*TemplateLibrary, error) {
	var f libraryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal templates: %w", err)
	}

	lib := &TemplateLibrary{
		templates: make(map[string]Template, len(f.Templates)),
		required:  f.Required,
		pdfa:      f.PDFA,
	}
	for i, t := range f.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template %d: missing id", i)
		}
		if _, dup := lib.templates[t.ID]; dup {
			return nil, fmt.Errorf("template %s: duplicate id", t.ID)
		}
		lib.templates[t.ID] = t
	}
	for domain, ids := range lib.required {
		for _, id := range ids {
			if _, ok := lib.templates[id]; !ok {
				return nil, fmt.Errorf("layout %s: unknown template %s", domain, id)
			}
		}
	}
	return lib, nil
}

// LoadLibrary reads a YAML template library from disk
func LoadLibrary(path string) (*TemplateLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return ParseLibrary(data)
}

// Get returns a template by id
func (l *TemplateLibrary) Get(id string) (Template, bool) {
	t, ok := l.templates[id]
	return t, ok
}

// RequiredTemplates lists the template ids every package for the domain must contain
func (l *TemplateLibrary) RequiredTemplates(domain model.Domain) []string {
	ids := append([]string{}, l.required[anyDomain]...)
	return append(ids, l.required[string(domain)]...)
}

// Layout lists every path a package for the domain must contain
func (l *TemplateLibrary) Layout(domain model.Domain) []string {
	paths := append([]string{}, baseLayout...)
	for _, id := range l.RequiredTemplates(domain) {
		paths = append(paths, DraftPath(id))
	}
	return paths
}

// RequiresPDFA reports whether filings in the jurisdiction and domain need PDF/A
func (l *TemplateLibrary) RequiresPDFA(jurisdiction string, domain model.Domain) bool {
	for _, d := range l.pdfa[jurisdiction] {
		if d == anyDomain || d == string(domain) {
			return true
		}
	}
	return false
}
