// Package sources classifies and checks the legal sources backing a matter.
package sources

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/casefile/internal/model"
)

type hostRule struct {
	host       string
	pathPrefix string
	kind       model.SourceKind
	name       string
}

var defaultHostRules = []hostRule{
	{host: "canlii.org", kind: model.SourceCanLII, name: "CanLII"},
	{host: "ontario.ca", pathPrefix: "/laws", kind: model.SourceELaws, name: "Ontario e-Laws"},
	{host: "e-laws.gov.on.ca", kind: model.SourceELaws, name: "Ontario e-Laws"},
	{host: "laws-lois.justice.gc.ca", kind: model.SourceJusticeLaws, name: "Justice Laws"},
	{host: "laws.justice.gc.ca", kind: model.SourceJusticeLaws, name: "Justice Laws"},
}

// Classifier maps source URLs to the legal information service they come from
type Classifier struct {
	domainMap map[string]model.SourceKind
}

// NewClassifier creates a classifier. domainMap adds exact host overrides.
func NewClassifier(domainMap map[string]model.SourceKind) *Classifier {
	m := make(map[string]model.SourceKind, len(domainMap))
	for host, kind := range domainMap {
		m[strings.ToLower(host)] = kind
	}
	return &Classifier{domainMap: m}
}

// Classify returns the source kind of a URL
func (c *Classifier) Classify(rawURL string) model.SourceKind {
	kind, _ := c.classify(rawURL)
	return kind
}

func (c *Classifier) classify(rawURL string) (model.SourceKind, string) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return model.SourceOther, ""
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")

	if kind, ok := c.domainMap[host]; ok {
		return kind, host
	}

	for _, r := range defaultHostRules {
		if host != r.host && !strings.HasSuffix(host, "."+r.host) {
			continue
		}
		if r.pathPrefix != "" && !strings.HasPrefix(parsed.Path, r.pathPrefix) {
			continue
		}
		return r.kind, r.name
	}
	return model.SourceOther, host
}

// NewSource builds a manifest source from a URL. A blank name is derived from the URL.
func (c *Classifier) NewSource(name, rawURL string) (model.Source, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return model.Source{}, fmt.Errorf("invalid source URL %q", rawURL)
	}

	kind, service := c.classify(parsed.String())
	if strings.TrimSpace(name) == "" {
		name = service
		if last := lastSegment(parsed.Path); last != "" {
			name = service + ": " + last
		}
	}

	return model.Source{
		Name: strings.TrimSpace(name),
		Kind: kind,
		URL:  parsed.String(),
	}, nil
}

func lastSegment(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return ""
	}
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}
