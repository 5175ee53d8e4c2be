package evidence

import (
	"time"

	"github.com/ppiankov/casefile/internal/model"
)

// BuildManifest lists every indexed item as a numbered attachment.
// Attachment numbers are the 1-based index positions.
func BuildManifest(index model.EvidenceIndex, now time.Time) model.EvidenceManifest {
	entries := make([]model.EvidenceManifestEntry, 0, len(index.Items))
	for i, item := range index.Items {
		entries = append(entries, model.EvidenceManifestEntry{
			AttachmentIndex:  i + 1,
			EvidenceID:       item.ID,
			Filename:         item.Filename,
			Type:             item.Type,
			Date:             item.Date,
			Provenance:       item.Provenance,
			Hash:             item.Hash,
			CredibilityScore: item.CredibilityScore,
		})
	}
	return model.EvidenceManifest{
		GeneratedAt: now.UTC(),
		Entries:     entries,
	}
}
