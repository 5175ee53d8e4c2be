package evidence

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/casefile/internal/model"
)

// MaxFileSize is the largest evidence file accepted
const MaxFileSize = 25 << 20

var extensionTypes = map[string]model.EvidenceType{
	".pdf":  model.EvidencePDF,
	".png":  model.EvidencePNG,
	".jpg":  model.EvidenceJPG,
	".jpeg": model.EvidenceJPG,
	".eml":  model.EvidenceEML,
	".txt":  model.EvidenceTXT,
	".html": model.EvidenceHTML,
	".htm":  model.EvidenceHTML,
	".docx": model.EvidenceDOCX,
}

var mimeTypes = map[model.EvidenceType][]string{
	model.EvidencePDF:  {"application/pdf"},
	model.EvidencePNG:  {"image/png"},
	model.EvidenceJPG:  {"image/jpeg", "image/jpg"},
	model.EvidenceEML:  {"message/rfc822", "text/plain"},
	model.EvidenceTXT:  {"text/plain"},
	model.EvidenceHTML: {"text/html", "application/xhtml+xml"},
	model.EvidenceDOCX: {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
}

var magic = map[model.EvidenceType][]byte{
	model.EvidencePDF:  []byte("%PDF-"),
	model.EvidencePNG:  []byte("\x89PNG\r\n\x1a\n"),
	model.EvidenceJPG:  {0xFF, 0xD8, 0xFF},
	model.EvidenceDOCX: []byte("PK\x03\x04"),
}

// ValidationResult is the outcome of an upload check. Errors are user-facing.
type ValidationResult struct {
	OK     bool               `json:"ok"`
	Type   model.EvidenceType `json:"type,omitempty"`
	Errors []string           `json:"errors,omitempty"`
}

// DetectType maps a filename extension to an evidence type
func DetectType(filename string) (model.EvidenceType, bool) {
	t, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]
	return t, ok
}

// Validate checks extension, declared MIME type and content of an upload.
// An empty mime skips the MIME check.
func Validate(filename, mime string, content []byte) ValidationResult {
	var errs []string

	t, ok := DetectType(filename)
	if !ok {
		return ValidationResult{Errors: []string{fmt.Sprintf("unsupported file type %q", filepath.Ext(filename))}}
	}

	if len(content) == 0 {
		errs = append(errs, "file is empty")
	}
	if len(content) > MaxFileSize {
		errs = append(errs, fmt.Sprintf("file exceeds %d MB", MaxFileSize>>20))
	}

	if mime = normalizeMIME(mime); mime != "" && mime != "application/octet-stream" && !contains(mimeTypes[t], mime) {
		errs = append(errs, fmt.Sprintf("declared type %s does not match .%s file", mime, t))
	}

	if len(content) > 0 {
		if sig, binary := magic[t]; binary {
			if !bytes.HasPrefix(content, sig) {
				errs = append(errs, fmt.Sprintf("content is not a valid %s file", strings.ToUpper(string(t))))
			}
		} else if !utf8.Valid(content) || bytes.IndexByte(content, 0) >= 0 {
			errs = append(errs, "text file contains binary data")
		}
	}

	return ValidationResult{
		OK:     len(errs) == 0,
		Type:   t,
		Errors: errs,
	}
}

func normalizeMIME(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
