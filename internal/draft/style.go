package draft

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownOnce   sync.Once
	markdownParser goldmark.Markdown
)

func getMarkdownParser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownParser = goldmark.New()
	})
	return markdownParser
}

var defaultAdvisoryTerms = []string{
	"should", "must", "recommend", "recommended", "advise", "ought to", "you need to",
}

var defaultEmotionalTerms = []string{
	"demand", "outraged", "outrageous", "furious", "disgusted", "disgusting",
	"unacceptable", "ridiculous", "appalling", "disgraceful", "incompetent",
}

type term struct {
	word    string
	pattern *regexp.Regexp
}

func compileTerms(words []string) []term {
	terms := make([]term, 0, len(words))
	for _, w := range words {
		terms = append(terms, term{
			word:    w,
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`),
		})
	}
	return terms
}

// StyleGuide flags advisory tone, emotional tone and unfinished sentences
type StyleGuide struct {
	advisory  []term
	emotional []term
}

// NewStyleGuide creates a new style guide with the built-in term lists
func NewStyleGuide() *StyleGuide {
	return &StyleGuide{
		advisory:  compileTerms(defaultAdvisoryTerms),
		emotional: compileTerms(defaultEmotionalTerms),
	}
}

// Check returns style warnings for markdown text. Headings and code are ignored.
func (g *StyleGuide) Check(markdown string) []string {
	var warnings []string

	blocks := textBlocks(markdown)
	texts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		texts = append(texts, b.text)
	}
	body := strings.Join(texts, "\n")

	for _, t := range g.advisory {
		if t.pattern.MatchString(body) {
			warnings = append(warnings, fmt.Sprintf("advisory tone: %q reads as advice; state facts and requests instead", t.word))
		}
	}

	for _, t := range g.emotional {
		if t.pattern.MatchString(body) {
			warnings = append(warnings, fmt.Sprintf("emotional tone: %q may undermine credibility", t.word))
		}
	}

	// List items are fragments by nature
	for _, b := range blocks {
		if !b.listItem && !hasTerminalPunctuation(b.text) {
			warnings = append(warnings, fmt.Sprintf("missing terminal punctuation: %q", snippet(b.text, 40)))
		}
	}

	return warnings
}

type textBlock struct {
	text     string
	listItem bool
}

// textBlocks returns the raw text of every paragraph and list item
func textBlocks(markdown string) []textBlock {
	src := []byte(markdown)
	doc := getMarkdownParser().Parser().Parse(text.NewReader(src))

	var blocks []textBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindParagraph, ast.KindTextBlock:
			var buf strings.Builder
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			if p := strings.Join(strings.Fields(buf.String()), " "); p != "" {
				inList := n.Kind() == ast.KindTextBlock || (n.Parent() != nil && n.Parent().Kind() == ast.KindListItem)
				blocks = append(blocks, textBlock{text: p, listItem: inList})
			}
			return ast.WalkSkipChildren, nil
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return blocks
}

func hasTerminalPunctuation(p string) bool {
	p = strings.TrimRight(p, `"')”’*_ `)
	if p == "" {
		return true
	}
	switch p[len(p)-1] {
	case '.', '!', '?', ':':
		return true
	}
	return false
}

func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
