package evidence

import (
	"testing"

	"github.com/ppiankov/casefile/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		typ      model.EvidenceType
		filename string
		content  string
		want     model.EvidenceMetadata
		desc     string
	}{
		{
			typ:      model.EvidenceEML,
			filename: "notice.eml",
			content:  "From: Landlord <landlord@example.com>\r\nTo: tenant@example.com\r\nSubject: N4 notice\r\nDate: Mon, 3 Mar 2025 10:15:00 -0500\r\n\r\nPlease pay.",
			want:     model.EvidenceMetadata{Sender: "Landlord <landlord@example.com>", Recipient: "tenant@example.com", Subject: "N4 notice", Date: "2025-03-03"},
			desc:     "eml headers",
		},
		{
			typ:      model.EvidenceEML,
			filename: "forwarded.eml",
			content:  "this was pasted from a mail client without headers",
			want:     model.EvidenceMetadata{},
			desc:     "eml without headers",
		},
		{
			typ:      model.EvidenceHTML,
			filename: "page.html",
			content:  `<html><head><title>Notice of Hearing</title><meta name="date" content="2025-02-10T09:00:00Z"></head><body><p>Hello</p></body></html>`,
			want:     model.EvidenceMetadata{Title: "Notice of Hearing", Date: "2025-02-10"},
			desc:     "html title and meta date",
		},
		{
			typ:      model.EvidenceHTML,
			filename: "page.html",
			content:  `<html><body><main><p>Posted on January 5, 2025 by the city.</p></main></body></html>`,
			want:     model.EvidenceMetadata{Date: "2025-01-05"},
			desc:     "html date from text",
		},
		{
			typ:      model.EvidenceTXT,
			filename: "texts.txt",
			content:  "From: Sam\nTo: Alex\nSubject: repairs\nDate: 2025-04-01\n\nThe sink is still broken.",
			want:     model.EvidenceMetadata{Sender: "Sam", Recipient: "Alex", Subject: "repairs", Date: "2025-04-01"},
			desc:     "txt inline headers",
		},
		{
			typ:      model.EvidenceTXT,
			filename: "diary.txt",
			content:  "Called the adjuster on 2025-05-12 and again later.",
			want:     model.EvidenceMetadata{Date: "2025-05-12"},
			desc:     "txt first date",
		},
		{
			typ:      model.EvidencePDF,
			filename: "policy.pdf",
			content:  "%PDF-1.4\n<< /CreationDate (D:20240611120000-04'00') >>",
			want:     model.EvidenceMetadata{Date: "2024-06-11"},
			desc:     "pdf creation date",
		},
		{
			typ:      model.EvidencePNG,
			filename: "Screenshot_2025-03-14_at_10.png",
			content:  "\x89PNG",
			want:     model.EvidenceMetadata{Date: "2025-03-14"},
			desc:     "filename date",
		},
		{
			typ:      model.EvidenceJPG,
			filename: "IMG_20250102.jpg",
			content:  "\xff\xd8\xff",
			want:     model.EvidenceMetadata{Date: "2025-01-02"},
			desc:     "compact filename date",
		},
		{
			typ:      model.EvidenceDOCX,
			filename: "letter.docx",
			content:  "PK\x03\x04",
			want:     model.EvidenceMetadata{},
			desc:     "nothing to extract",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := ExtractMetadata(tt.typ, tt.filename, []byte(tt.content))
			assert.Equal(t, tt.want, *got)
		})
	}
}
