package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link is an outbound reference found in a page
type Link struct {
	URL  string `json:"url"`
	Host string `json:"host"`
	Text string `json:"text,omitempty"`
}

// Links extracts absolute http(s) links from an HTML document
func Links(doc *html.Node, sourceURL string) ([]Link, error) {
	baseURL, err := url.Parse(sourceURL)
	if err != nil {
		return nil, err
	}

	var links []Link
	seen := make(map[string]bool)

	for _, n := range FindAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a"
	}) {
		href := strings.TrimSpace(Attribute(n, "href"))
		if href == "" {
			continue
		}

		resolved := resolveURL(baseURL, href)
		if resolved == "" || seen[resolved] {
			continue
		}
		seen[resolved] = true

		text := ""
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			text = strings.TrimSpace(n.FirstChild.Data)
		}

		host := ""
		if parsed, err := url.Parse(resolved); err == nil {
			host = parsed.Host
		}

		links = append(links, Link{URL: resolved, Host: host, Text: text})
	}

	return links, nil
}

// resolveURL resolves a relative URL against a base URL
func resolveURL(base *url.URL, href string) string {
	// Skip anchors
	if strings.HasPrefix(href, "#") {
		return ""
	}

	// Skip javascript: and mailto: links
	if strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)

	// Only keep http/https URLs
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	return resolved.String()
}
