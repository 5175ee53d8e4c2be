package model

import (
	"strings"
	"time"
)

// DateLayout is the canonical date format used across the data model
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006.01.02",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan. 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// ParseDate parses the date formats seen in intake hints and evidence
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate returns s as YYYY-MM-DD, or s unchanged if it cannot be parsed
func NormalizeDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format(DateLayout)
	}
	return strings.TrimSpace(s)
}
