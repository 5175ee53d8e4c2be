package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/ppiankov/casefile/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexer() *Indexer {
	ix := NewIndexer(nil)
	n := 0
	ix.newID = func() string {
		n++
		return fmt.Sprintf("ev-%d", n)
	}
	ix.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return ix
}

func TestIndexer_AddItem(t *testing.T) {
	ix := newTestIndexer()
	content := []byte("From: Sam\nTo: Alex\nSubject: repairs\n\nThe sink is still broken.")

	item := ix.AddItem("texts.txt", content, model.EvidenceTXT, model.ProvenanceUser, AddOptions{Date: "April 1, 2025", Tags: []string{"repairs"}})

	sum := sha256.Sum256(content)
	assert.Equal(t, model.EvidenceID("ev-1"), item.ID)
	assert.Equal(t, hex.EncodeToString(sum[:]), item.Hash)
	assert.Equal(t, "2025-04-01", item.Date)
	assert.Equal(t, "repairs", item.Summary)
	assert.Equal(t, []string{"repairs"}, item.Tags)
	assert.Equal(t, 1, ix.Len())
	// 0.5 + 0.1 user + 0.1 date + 0.1 parties + 0.05 subject
	assert.InDelta(t, 0.85, item.CredibilityScore, 1e-9)
}

func TestCredibility(t *testing.T) {
	tests := []struct {
		item model.EvidenceItem
		want float64
		desc string
	}{
		{model.EvidenceItem{}, 0.5, "baseline"},
		{model.EvidenceItem{Provenance: model.ProvenanceUser}, 0.6, "user provided"},
		{model.EvidenceItem{Provenance: model.ProvenanceOfficialLink}, 0.75, "official link"},
		{model.EvidenceItem{Provenance: model.ProvenanceOfficialAPI, Date: "2025-01-01"}, 0.9, "official api with date"},
		{model.EvidenceItem{
			Provenance: model.ProvenanceOfficialAPI,
			Date:       "2025-01-01",
			Metadata:   &model.EvidenceMetadata{Sender: "a", Subject: "s"},
		}, 1.0, "capped at one"},
		{model.EvidenceItem{
			Provenance: model.ProvenanceUser,
			Metadata:   &model.EvidenceMetadata{Recipient: "b"},
		}, 0.7, "recipient counts as parties"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := Credibility(tt.item)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestIndexer_SummaryFallbacks(t *testing.T) {
	ix := newTestIndexer()

	given := ix.AddItem("a.txt", []byte("anything at all here."), model.EvidenceTXT, model.ProvenanceUser, AddOptions{Summary: "  custom  "})
	sentence := ix.AddItem("b.txt", []byte("The landlord entered without notice. Then left."), model.EvidenceTXT, model.ProvenanceUser, AddOptions{})
	image := ix.AddItem("c.png", pngHeader, model.EvidencePNG, model.ProvenanceUser, AddOptions{})

	assert.Equal(t, "custom", given.Summary)
	assert.Equal(t, "The landlord entered without notice.", sentence.Summary)
	assert.Equal(t, "PNG file c.png", image.Summary)
}

func TestIndexer_HashCollisions(t *testing.T) {
	ix := newTestIndexer()

	first := ix.AddItem("a.png", pngHeader, model.EvidencePNG, model.ProvenanceUser, AddOptions{})
	ix.AddItem("b.txt", []byte("different"), model.EvidenceTXT, model.ProvenanceUser, AddOptions{})
	dup := ix.AddItem("a-copy.png", pngHeader, model.EvidencePNG, model.ProvenanceUser, AddOptions{})

	assert.Empty(t, ix.HashCollisions(first.ID))
	collisions := ix.HashCollisions(dup.ID)
	require.Len(t, collisions, 1)
	assert.Equal(t, first.ID, collisions[0].ID)
	assert.Equal(t, 3, ix.Len(), "duplicates are kept")
	assert.Nil(t, ix.HashCollisions("missing"))
}

func TestIndexer_GenerateIndexIsSnapshot(t *testing.T) {
	ix := newTestIndexer()
	ix.AddItem("a.txt", []byte("first item text."), model.EvidenceTXT, model.ProvenanceUser, AddOptions{})
	ix.AddSource(model.Source{Name: "RTA", Kind: model.SourceELaws, URL: "https://www.ontario.ca/laws/statute/06r17"})

	snap := ix.GenerateIndex()
	ix.AddItem("b.txt", []byte("second item text."), model.EvidenceTXT, model.ProvenanceUser, AddOptions{})
	ix.AddSource(model.Source{Name: "Other"})

	assert.Len(t, snap.Items, 1)
	assert.Len(t, snap.SourceManifest.Sources, 1)
	assert.Nil(t, snap.SourceManifest.CompiledAt)

	again := ix.GenerateIndex()
	assert.Len(t, again.Items, 2)
	assert.Equal(t, model.SourceOther, again.SourceManifest.Sources[1].Kind)
	assert.NotEmpty(t, again.SourceManifest.Sources[1].ID)
}

func TestIndexer_MarkCompiledAndRestore(t *testing.T) {
	ix := newTestIndexer()
	ix.AddItem("a.txt", []byte("first item text."), model.EvidenceTXT, model.ProvenanceUser, AddOptions{})

	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ix.MarkCompiled(first)
	ix.MarkCompiled(first.Add(time.Hour))

	snap := ix.GenerateIndex()
	require.NotNil(t, snap.SourceManifest.CompiledAt)
	assert.Equal(t, first, *snap.SourceManifest.CompiledAt)

	restored := Restore(snap, nil)
	assert.Equal(t, 1, restored.Len())
	restored.AddItem("b.txt", []byte("second item text."), model.EvidenceTXT, model.ProvenanceUser, AddOptions{})
	assert.Equal(t, 2, restored.Len())
	assert.Len(t, snap.Items, 1)
}

func TestBuildManifest(t *testing.T) {
	ix := newTestIndexer()
	a := ix.AddItem("a.txt", []byte("first item text."), model.EvidenceTXT, model.ProvenanceUser, AddOptions{})
	b := ix.AddItem("b.png", pngHeader, model.EvidencePNG, model.ProvenanceOfficialLink, AddOptions{})

	m := BuildManifest(ix.GenerateIndex(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, m.Entries, 2)
	assert.Equal(t, 1, m.Entries[0].AttachmentIndex)
	assert.Equal(t, a.ID, m.Entries[0].EvidenceID)
	assert.Equal(t, 2, m.Entries[1].AttachmentIndex)
	assert.Equal(t, b.Hash, m.Entries[1].Hash)
	assert.Equal(t, model.ProvenanceOfficialLink, m.Entries[1].Provenance)
}
