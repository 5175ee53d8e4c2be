// Package evidence indexes uploaded evidence and derives timelines and manifests from it.
package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/casefile/internal/extract"
	"github.com/ppiankov/casefile/internal/model"
)

// Credibility weights
const (
	baseCredibility     = 0.5
	officialAPIBonus    = 0.3
	officialLinkBonus   = 0.25
	userProvidedBonus   = 0.1
	dateBonus           = 0.1
	partiesBonus        = 0.1
	subjectBonus        = 0.05
	maxCredibility      = 1.0
	summaryPreviewRunes = 160
)

// AddOptions carries caller-supplied facts about an upload
type AddOptions struct {
	Date      string // Overrides any date found in the file
	Summary   string
	Tags      []string
	SourceURL string
}

// Indexer is the append-only evidence store of one matter. It is not safe
// for concurrent use; the pipeline owns one per session.
type Indexer struct {
	items      []model.EvidenceItem
	sources    []model.Source
	compiledAt *time.Time
	logger     *slog.Logger
	newID      func() string
	now        func() time.Time
}

// NewIndexer creates an empty indexer. A nil logger uses slog.Default().
func NewIndexer(logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		logger: logger,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// Restore rebuilds an indexer from a previously generated index
func Restore(index model.EvidenceIndex, logger *slog.Logger) *Indexer {
	ix := NewIndexer(logger)
	ix.items = append(ix.items, index.Items...)
	ix.sources = append(ix.sources, index.SourceManifest.Sources...)
	ix.compiledAt = index.SourceManifest.CompiledAt
	return ix
}

// AddItem hashes, dates, summarises and scores content, then appends it
func (ix *Indexer) AddItem(filename string, content []byte, t model.EvidenceType, provenance model.Provenance, opts AddOptions) model.EvidenceItem {
	sum := sha256.Sum256(content)
	meta := ExtractMetadata(t, filename, content)

	date := meta.Date
	if opts.Date != "" {
		date = model.NormalizeDate(opts.Date)
	}

	item := model.EvidenceItem{
		ID:         model.EvidenceID(ix.newID()),
		Filename:   filename,
		Type:       t,
		Date:       date,
		Summary:    summarize(opts.Summary, t, filename, meta, content),
		Provenance: provenance,
		Hash:       hex.EncodeToString(sum[:]),
		Tags:       append([]string(nil), opts.Tags...),
		Metadata:   meta,
		SourceURL:  opts.SourceURL,
		AddedAt:    ix.now().UTC(),
	}
	item.CredibilityScore = Credibility(item)

	ix.items = append(ix.items, item)
	ix.logger.Debug("evidence indexed",
		"id", item.ID,
		"filename", filename,
		"type", t,
		"credibility", item.CredibilityScore,
	)
	return item
}

// Credibility scores an item from its provenance and extracted metadata
func Credibility(item model.EvidenceItem) float64 {
	score := baseCredibility

	switch item.Provenance {
	case model.ProvenanceOfficialAPI:
		score += officialAPIBonus
	case model.ProvenanceOfficialLink:
		score += officialLinkBonus
	case model.ProvenanceUser:
		score += userProvidedBonus
	}

	if item.Date != "" {
		score += dateBonus
	}
	if item.Metadata.HasParties() {
		score += partiesBonus
	}
	if item.Metadata != nil && item.Metadata.Subject != "" {
		score += subjectBonus
	}

	return math.Round(math.Min(score, maxCredibility)*100) / 100
}

// HashCollisions returns items indexed before id that share its hash
func (ix *Indexer) HashCollisions(id model.EvidenceID) []model.EvidenceItem {
	var target *model.EvidenceItem
	var earlier []model.EvidenceItem
	for i := range ix.items {
		if ix.items[i].ID == id {
			target = &ix.items[i]
			break
		}
		earlier = append(earlier, ix.items[i])
	}
	if target == nil {
		return nil
	}

	var out []model.EvidenceItem
	for _, item := range earlier {
		if item.Hash == target.Hash {
			out = append(out, item)
		}
	}
	return out
}

// AddSource appends a legal source to the manifest. A blank id is assigned.
func (ix *Indexer) AddSource(src model.Source) model.Source {
	if src.ID == "" {
		src.ID = ix.newID()
	}
	if src.Kind == "" {
		src.Kind = model.SourceOther
	}
	ix.sources = append(ix.sources, src)
	return src
}

// MarkCompiled stamps the source manifest once; later calls keep the first stamp
func (ix *Indexer) MarkCompiled(now time.Time) {
	if ix.compiledAt == nil {
		t := now.UTC()
		ix.compiledAt = &t
	}
}

// Len returns the number of indexed items
func (ix *Indexer) Len() int {
	return len(ix.items)
}

// GenerateIndex returns a snapshot. Later additions do not affect it.
func (ix *Indexer) GenerateIndex() model.EvidenceIndex {
	return model.EvidenceIndex{
		Items:       append([]model.EvidenceItem{}, ix.items...),
		GeneratedAt: ix.now().UTC(),
		SourceManifest: model.SourceManifest{
			CompiledAt: ix.compiledAt,
			Sources:    append([]model.Source{}, ix.sources...),
		},
	}
}

func summarize(given string, t model.EvidenceType, filename string, meta *model.EvidenceMetadata, content []byte) string {
	if s := strings.TrimSpace(given); s != "" {
		return s
	}
	if meta.Subject != "" {
		return meta.Subject
	}
	if meta.Title != "" {
		return meta.Title
	}

	if t == model.EvidenceTXT {
		if sentences := extract.Sentences(string(content), 12, summaryPreviewRunes); len(sentences) > 0 {
			return sentences[0]
		}
	}
	return fmt.Sprintf("%s file %s", strings.ToUpper(string(t)), filename)
}
