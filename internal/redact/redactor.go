// Package redact masks personal information in evidence previews.
package redact

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind names a class of personal information
type Kind string

const (
	KindEmail      Kind = "email"
	KindCard       Kind = "card"
	KindSIN        Kind = "sin"
	KindPhone      Kind = "phone"
	KindPostalCode Kind = "postal_code"
)

type rule struct {
	kind    Kind
	pattern *regexp.Regexp
}

// Order matters: card numbers are masked before the shorter SIN and phone shapes.
var defaultRules = []rule{
	{KindEmail, regexp.MustCompile(`(?i)\b[A-Z0-9._%+\-]+@[A-Z0-9.\-]+\.[A-Z]{2,}\b`)},
	{KindCard, regexp.MustCompile(`\b(?:\d[ \-]?){12,15}\d\b`)},
	{KindSIN, regexp.MustCompile(`\b\d{3}[ \-]\d{3}[ \-]\d{3}\b`)},
	{KindPhone, regexp.MustCompile(`(?:\+?1[ .\-]?)?(?:\(\d{3}\)\s?|\b\d{3}[ .\-])\d{3}[ .\-]\d{4}\b`)},
	{KindPostalCode, regexp.MustCompile(`(?i)\b[ABCEGHJ-NPRSTVXY]\d[ABCEGHJ-NPRSTV-Z][ \-]?\d[ABCEGHJ-NPRSTV-Z]\d\b`)},
}

// Result is redacted text plus what was masked
type Result struct {
	Text   string       `json:"text"`
	Counts map[Kind]int `json:"counts,omitempty"`
}

// Redactor masks emails, card numbers, SINs, phone numbers and postal codes
type Redactor struct {
	rules []rule
}

// NewRedactor creates a new redactor with the built-in rules
func NewRedactor() *Redactor {
	return &Redactor{rules: defaultRules}
}

// Redact masks every match with a [REDACTED-KIND] token
func (r *Redactor) Redact(text string) Result {
	res := Result{Text: text}
	for _, rl := range r.rules {
		n := 0
		token := "[REDACTED-" + strings.ToUpper(string(rl.kind)) + "]"
		res.Text = rl.pattern.ReplaceAllStringFunc(res.Text, func(string) string {
			n++
			return token
		})
		if n > 0 {
			if res.Counts == nil {
				res.Counts = make(map[Kind]int)
			}
			res.Counts[rl.kind] += n
		}
	}
	return res
}

// Preview redacts text, collapses whitespace and truncates it to maxRunes
func (r *Redactor) Preview(text string, maxRunes int) string {
	redacted := strings.Join(strings.Fields(r.Redact(text).Text), " ")
	if maxRunes <= 0 || utf8.RuneCountInString(redacted) <= maxRunes {
		return redacted
	}
	runes := []rune(redacted)
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}
