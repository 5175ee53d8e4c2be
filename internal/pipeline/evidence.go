package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ppiankov/casefile/internal/evidence"
	"github.com/ppiankov/casefile/internal/extract"
	"github.com/ppiankov/casefile/internal/model"
	"github.com/ppiankov/casefile/internal/pack"
	"github.com/ppiankov/casefile/internal/sources"
)

// UploadRequest is one file handed over by the upload layer
type UploadRequest struct {
	Filename   string
	MIME       string
	Content    []byte
	Provenance model.Provenance // Defaults to user-provided
	Options    evidence.AddOptions
	Actor      string
}

// UploadResult is the evidence picture after an upload. A rejected file
// has OK false, the reasons in Errors, and nothing else set.
type UploadResult struct {
	OK               bool                         `json:"ok"`
	Errors           []string                     `json:"errors,omitempty"`
	Item             *model.EvidenceItem          `json:"item,omitempty"`
	Index            model.EvidenceIndex          `json:"index"`
	Timeline         []model.TimelineEntry        `json:"timeline"`
	Gaps             []model.TimelineGap          `json:"gaps"`
	Alerts           []model.MissingEvidenceAlert `json:"alerts"`
	Duplicates       []model.EvidenceItem         `json:"duplicates,omitempty"`
	RedactedPreview  string                       `json:"redactedPreview,omitempty"`
	SuggestedSources []model.Source               `json:"suggestedSources,omitempty"` // Legal sources linked from a fetched page
}

// evidenceView is the derived state every evidence operation reports
type evidenceView struct {
	index    model.EvidenceIndex
	timeline []model.TimelineEntry
	gaps     []model.TimelineGap
	alerts   []model.MissingEvidenceAlert
}

func (p *Pipeline) view(s *Session) evidenceView {
	index := s.indexer.GenerateIndex()
	timeline := p.timeline.Generate(index)
	alerts := p.timeline.FlagMissingEvidence(index, timeline)
	alerts = append(alerts, p.timeline.FlagDuplicates(index)...)
	return evidenceView{
		index:    index,
		timeline: timeline,
		gaps:     p.timeline.DetectGaps(timeline),
		alerts:   alerts,
	}
}

// UploadEvidence validates and indexes one file, then recomputes the
// timeline, gaps and alerts. Identical content is indexed again and
// reported through Duplicates.
func (p *Pipeline) UploadEvidence(ctx context.Context, s *Session, req UploadRequest) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	provenance := req.Provenance
	if provenance == "" {
		provenance = model.ProvenanceUser
	}

	check := evidence.Validate(req.Filename, req.MIME, req.Content)
	if !provenance.Valid() {
		check.OK = false
		check.Errors = append(check.Errors, fmt.Sprintf("unknown provenance %q: use %s, %s or %s",
			provenance, model.ProvenanceUser, model.ProvenanceOfficialAPI, model.ProvenanceOfficialLink))
	}
	if !check.OK {
		fileType := string(check.Type)
		if fileType == "" {
			fileType = strings.TrimPrefix(strings.ToLower(filepath.Ext(req.Filename)), ".")
		}
		p.metrics.RecordUpload(fileType, false)
		_, err := s.audit.Record(ctx, model.AuditEvidenceRejected, req.Actor, fmt.Sprintf("%s rejected", req.Filename), map[string]any{
			"filename": req.Filename,
			"errors":   check.Errors,
		})
		if err != nil {
			return nil, err
		}
		p.logger.Info("evidence rejected", "matter", s.ID, "filename", req.Filename, "errors", len(check.Errors))
		return &UploadResult{OK: false, Errors: check.Errors}, nil
	}

	item := s.indexer.AddItem(req.Filename, req.Content, check.Type, provenance, req.Options)
	p.metrics.RecordUpload(string(check.Type), true)

	if s.Classification != nil && s.Classification.Status == model.StatusClassified {
		s.Classification.Status = model.StatusEvidence
	}

	_, err := s.audit.Record(ctx, model.AuditEvidenceUploaded, req.Actor, fmt.Sprintf("%s indexed", req.Filename), map[string]any{
		"evidenceId": string(item.ID),
		"filename":   item.Filename,
		"type":       string(item.Type),
		"provenance": string(item.Provenance),
		"hash":       item.Hash,
	})
	if err != nil {
		return nil, err
	}

	v := p.view(s)
	return &UploadResult{
		OK:              true,
		Item:            &item,
		Index:           v.index,
		Timeline:        v.timeline,
		Gaps:            v.gaps,
		Alerts:          v.alerts,
		Duplicates:      s.indexer.HashCollisions(item.ID),
		RedactedPreview: p.preview(item.Type, req.Content),
	}, nil
}

// preview redacts the readable text of correspondence and web pages
func (p *Pipeline) preview(t model.EvidenceType, content []byte) string {
	switch t {
	case model.EvidenceTXT, model.EvidenceEML:
		return p.redactor.Preview(string(content), previewRunes)
	case model.EvidenceHTML:
		doc, err := extract.ParseHTML(string(content))
		if err != nil {
			return ""
		}
		return p.redactor.Preview(extract.VisibleText(extract.MainContent(doc)), previewRunes)
	default:
		return ""
	}
}

// FetchEvidence downloads an official web page and indexes it as
// official-link evidence. Links on the page that point at a recognised
// legal information service are returned as suggested sources.
func (p *Pipeline) FetchEvidence(ctx context.Context, s *Session, rawURL, actor string) (*UploadResult, error) {
	page, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	name := page.Title
	if name == "" {
		name = page.Subject
	}
	filename := pack.Slug(name)
	if filename == "" {
		filename = "page"
	}

	res, err := p.UploadEvidence(ctx, s, UploadRequest{
		Filename:   filename + ".html",
		MIME:       "text/html",
		Content:    []byte(page.HTML),
		Provenance: model.ProvenanceOfficialLink,
		Options: evidence.AddOptions{
			Summary:   page.Title,
			SourceURL: page.FinalURL,
		},
		Actor: actor,
	})
	if err != nil || !res.OK {
		return res, err
	}

	res.SuggestedSources = p.linkedSources(page.HTML, page.FinalURL)
	return res, nil
}

func (p *Pipeline) linkedSources(page, pageURL string) []model.Source {
	doc, err := extract.ParseHTML(page)
	if err != nil {
		return nil
	}
	links, err := extract.Links(doc, pageURL)
	if err != nil {
		return nil
	}

	var out []model.Source
	seen := make(map[string]bool)
	for _, l := range links {
		src, err := p.sourceKinds.NewSource(l.Text, l.URL)
		if err != nil || src.Kind == model.SourceOther || seen[src.URL] {
			continue
		}
		seen[src.URL] = true
		out = append(out, src)
	}
	return out
}

// AddSource classifies a URL and appends it to the source manifest
func (p *Pipeline) AddSource(ctx context.Context, s *Session, name, rawURL, actor string) (model.Source, error) {
	src, err := p.sourceKinds.NewSource(name, rawURL)
	if err != nil {
		return model.Source{}, err
	}
	retrieved := p.now().UTC()
	src.RetrievedAt = &retrieved
	src = s.indexer.AddSource(src)

	_, err = s.audit.Record(ctx, model.AuditSourceAdded, actor, fmt.Sprintf("source %s added", src.Name), map[string]any{
		"sourceId": src.ID,
		"kind":     string(src.Kind),
		"url":      src.URL,
	})
	if err != nil {
		return model.Source{}, err
	}
	return src, nil
}

// CheckSources checks every manifest source for liveness and staleness
func (p *Pipeline) CheckSources(ctx context.Context, s *Session) []sources.CheckResult {
	return p.validator.Check(ctx, s.indexer.GenerateIndex().SourceManifest.Sources)
}
