package evidence

import (
	"bytes"
	"net/mail"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ppiankov/casefile/internal/extract"
	"github.com/ppiankov/casefile/internal/model"
)

var (
	headerPattern   = regexp.MustCompile(`(?mi)^(from|to|subject|date):[ \t]*(.+)$`)
	isoDatePattern  = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	longDatePattern = regexp.MustCompile(`\b((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\.? \d{1,2},? \d{4})\b`)
	pdfDatePattern  = regexp.MustCompile(`/CreationDate\s*\(D:(\d{4})(\d{2})(\d{2})`)
	fileDatePattern = regexp.MustCompile(`(?:^|[^0-9])(\d{4})[-_.]?(\d{2})[-_.]?(\d{2})(?:[^0-9]|$)`)
)

// ExtractMetadata reads what it can from the file itself. It never fails;
// unreadable content yields whatever the filename offers.
func ExtractMetadata(t model.EvidenceType, filename string, content []byte) *model.EvidenceMetadata {
	var meta model.EvidenceMetadata

	switch t {
	case model.EvidenceEML:
		meta = emlMetadata(content)
	case model.EvidenceHTML:
		meta = htmlMetadata(content)
	case model.EvidenceTXT:
		meta = textMetadata(string(content))
	case model.EvidencePDF:
		if m := pdfDatePattern.FindSubmatch(content); m != nil {
			meta.Date = normalizeParts(string(m[1]), string(m[2]), string(m[3]))
		}
	}

	if meta.Date == "" {
		meta.Date = filenameDate(filename)
	}
	return &meta
}

func emlMetadata(content []byte) model.EvidenceMetadata {
	msg, err := mail.ReadMessage(bytes.NewReader(content))
	if err != nil {
		// Not RFC 5322; fall back to loose header scanning.
		return textMetadata(string(content))
	}

	meta := model.EvidenceMetadata{
		Sender:    strings.TrimSpace(msg.Header.Get("From")),
		Recipient: strings.TrimSpace(msg.Header.Get("To")),
		Subject:   strings.TrimSpace(msg.Header.Get("Subject")),
	}
	if d, err := msg.Header.Date(); err == nil {
		meta.Date = d.Format(model.DateLayout)
	}
	return meta
}

func htmlMetadata(content []byte) model.EvidenceMetadata {
	doc, err := extract.ParseHTML(string(content))
	if err != nil {
		return model.EvidenceMetadata{}
	}

	meta := model.EvidenceMetadata{Title: extract.Title(doc)}

	if raw := extract.MetaContent(doc, "date", "article:published_time", "dcterms.date", "dc.date", "dcterms.modified"); raw != "" {
		if d, ok := model.ParseDate(raw); ok {
			meta.Date = d.Format(model.DateLayout)
		}
	}
	if meta.Date == "" {
		meta.Date = firstDate(extract.VisibleText(extract.MainContent(doc)))
	}
	return meta
}

func textMetadata(text string) model.EvidenceMetadata {
	var meta model.EvidenceMetadata

	for _, m := range headerPattern.FindAllStringSubmatch(text, -1) {
		value := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "from":
			if meta.Sender == "" {
				meta.Sender = value
			}
		case "to":
			if meta.Recipient == "" {
				meta.Recipient = value
			}
		case "subject":
			if meta.Subject == "" {
				meta.Subject = value
			}
		case "date":
			if meta.Date == "" {
				if d, ok := model.ParseDate(value); ok {
					meta.Date = d.Format(model.DateLayout)
				}
			}
		}
	}

	if meta.Date == "" {
		meta.Date = firstDate(text)
	}
	return meta
}

// firstDate returns the first parseable date mentioned in text
func firstDate(text string) string {
	for _, p := range []*regexp.Regexp{isoDatePattern, longDatePattern} {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			if d, ok := model.ParseDate(m[1]); ok {
				return d.Format(model.DateLayout)
			}
		}
	}
	return ""
}

func filenameDate(filename string) string {
	m := fileDatePattern.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return ""
	}
	return normalizeParts(m[1], m[2], m[3])
}

func normalizeParts(y, m, d string) string {
	if t, ok := model.ParseDate(y + "-" + m + "-" + d); ok {
		return t.Format(model.DateLayout)
	}
	return ""
}
