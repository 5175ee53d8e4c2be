package pack

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/casefile/internal/model"
	"github.com/tidwall/jsonc"
)

// FormMapping maps the fields of an official form to package variables
type FormMapping struct {
	FormID    string            `json:"formId"`
	Title     string            `json:"title"`
	Authority model.AuthorityID `json:"authority,omitempty"`
	Domains   []model.Domain    `json:"domains,omitempty"` // Empty matches every domain
	Fields    map[string]string `json:"fields"`            // Form field label to variable name
	URL       string            `json:"url,omitempty"`
}

// ParseFormMappings decodes a JSON-with-comments list of form mappings
func ParseFormMappings(data []byte) ([]FormMapping, error) {
	var mappings []FormMapping
	if err := json.Unmarshal(jsonc.ToJSON(data), &mappings); err != nil {
		return nil, fmt.Errorf("unmarshal form mappings: %w", err)
	}
	return mappings, nil
}

// LoadFormMappings reads form mappings from disk
func LoadFormMappings(path string) ([]FormMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form mappings: %w", err)
	}
	return ParseFormMappings(data)
}

// Applies reports whether the mapping is used for the domain
func (m FormMapping) Applies(domain model.Domain) bool {
	if len(m.Domains) == 0 {
		return true
	}
	for _, d := range m.Domains {
		if d == domain {
			return true
		}
	}
	return false
}

// renderForm summarises how the package fills one form
func renderForm(m FormMapping, vars map[string]string) (string, error) {
	if strings.TrimSpace(m.FormID) == "" {
		return "", fmt.Errorf("form mapping %q has no formId", m.Title)
	}
	if len(m.Fields) == 0 {
		return "", fmt.Errorf("form %s has no fields", m.FormID)
	}

	labels := make([]string, 0, len(m.Fields))
	for label := range m.Fields {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var b strings.Builder
	title := m.Title
	if title == "" {
		title = m.FormID
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if m.Authority != "" {
		fmt.Fprintf(&b, "Filed with: %s\n\n", m.Authority)
	}
	if m.URL != "" {
		fmt.Fprintf(&b, "Form: %s\n\n", m.URL)
	}
	b.WriteString("| Field | Value |\n|---|---|\n")
	for _, label := range labels {
		name := m.Fields[label]
		value, ok := vars[name]
		if !ok {
			return "", fmt.Errorf("form %s: field %q uses unknown variable %q", m.FormID, label, name)
		}
		fmt.Fprintf(&b, "| %s | %s |\n", label, strings.ReplaceAll(value, "\n", " "))
	}
	return b.String(), nil
}
