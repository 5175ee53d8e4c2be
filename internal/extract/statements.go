package extract

import (
	"regexp"
	"strings"
)

// Statement is a sentence asserting something that evidence should back
type Statement struct {
	Text      string `json:"text"`
	Heuristic string `json:"heuristic"`
	Sentence  int    `json:"sentence"`
}

var (
	quotePattern  = regexp.MustCompile(`["“][^"”]{3,}["”]`)
	amountPattern = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d{2})?`)
	datePattern   = regexp.MustCompile(`(?i)\b(?:\d{4}-\d{2}-\d{2}|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.? \d{1,2},? \d{4})\b`)
)

// StatementExtractor finds statements in draft or evidence text
type StatementExtractor struct {
	minLen int
}

// NewStatementExtractor creates a new statement extractor
func NewStatementExtractor() *StatementExtractor {
	return &StatementExtractor{minLen: 12}
}

// Extract splits text into statements and tags how each was recognised.
// Headings and placeholder-only lines are not statements.
func (e *StatementExtractor) Extract(text string) []Statement {
	var statements []Statement

	for i, sentence := range Sentences(stripMarkdownHeadings(text), e.minLen, 0) {
		if isPlaceholderOnly(sentence) {
			continue
		}
		statements = append(statements, Statement{
			Text:      sentence,
			Heuristic: classify(sentence),
			Sentence:  i,
		})
	}

	return dedupeStatements(statements)
}

// Quotes returns quoted passages in text
func Quotes(text string) []string {
	return quotePattern.FindAllString(text, -1)
}

func classify(sentence string) string {
	switch {
	case quotePattern.MatchString(sentence):
		return "quote"
	case amountPattern.MatchString(sentence):
		return "amount"
	case datePattern.MatchString(sentence):
		return "dated"
	default:
		return "assertion"
	}
}

func stripMarkdownHeadings(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isPlaceholderOnly(sentence string) bool {
	s := strings.TrimSpace(strings.TrimRight(sentence, ".!?"))
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") && !strings.Contains(s[1:len(s)-1], "[")
}

// dedupeStatements removes duplicate statements
func dedupeStatements(statements []Statement) []Statement {
	seen := make(map[string]bool)
	var unique []Statement

	for _, st := range statements {
		key := strings.ToLower(strings.TrimSpace(st.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, st)
		}
	}

	return unique
}
