// Package extract pulls text, sentences, statements and links out of evidence content.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML parses an HTML string into a node tree
func ParseHTML(content string) (*html.Node, error) {
	return html.Parse(strings.NewReader(content))
}

// VisibleText extracts text nodes from HTML, skipping scripts/styles
func VisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}

// MainContent finds the main content node of a page, falling back to the document
func MainContent(doc *html.Node) *html.Node {
	if main := FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "main"
	}); main != nil {
		return main
	}

	if article := FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && (n.Data == "article" || Attribute(n, "role") == "main")
	}); article != nil {
		return article
	}

	return doc
}

// Title returns the text of the first <title> element
func Title(doc *html.Node) string {
	n := FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title"
	})
	if n == nil || n.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(n.FirstChild.Data)
}

// MetaContent returns the content of the first <meta> whose name or property matches one of keys
func MetaContent(doc *html.Node, keys ...string) string {
	for _, key := range keys {
		n := FindFirst(doc, func(n *html.Node) bool {
			if n.Type != html.ElementNode || n.Data != "meta" {
				return false
			}
			return strings.EqualFold(Attribute(n, "name"), key) || strings.EqualFold(Attribute(n, "property"), key)
		})
		if n != nil {
			if v := strings.TrimSpace(Attribute(n, "content")); v != "" {
				return v
			}
		}
	}
	return ""
}

// Attribute gets an attribute value from a node
func Attribute(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// FindAll finds all nodes matching a predicate
func FindAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

// FindFirst finds the first node matching a predicate
func FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}
