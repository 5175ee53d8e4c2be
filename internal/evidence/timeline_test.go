package evidence

import (
	"testing"

	"github.com/ppiankov/casefile/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(items ...model.EvidenceItem) model.EvidenceIndex {
	return model.EvidenceIndex{Items: items}
}

func item(id string, t model.EvidenceType, date string) model.EvidenceItem {
	return model.EvidenceItem{ID: model.EvidenceID(id), Filename: id, Type: t, Date: date, Hash: id}
}

func TestTimelineGenerator_Generate(t *testing.T) {
	g := NewTimelineGenerator()
	index := indexOf(
		item("c", model.EvidenceTXT, "2025-03-01"),
		item("undated", model.EvidencePNG, ""),
		item("a", model.EvidenceEML, "2025-01-01"),
		item("b1", model.EvidenceTXT, "2025-02-01"),
		item("b2", model.EvidencePDF, "2025-02-01"),
		item("bad", model.EvidenceTXT, "last spring"),
	)

	timeline := g.Generate(index)

	var order []model.EvidenceID
	for _, e := range timeline {
		order = append(order, e.EvidenceID)
	}
	assert.Equal(t, []model.EvidenceID{"a", "b1", "b2", "c"}, order)
	assert.Equal(t, timeline, g.Generate(index), "idempotent")
}

func TestTimelineGenerator_DetectGaps(t *testing.T) {
	g := NewTimelineGenerator()

	tests := []struct {
		from string
		to   string
		gaps int
		days int
		risk model.RiskLevel
		desc string
	}{
		{"2025-01-01", "2025-01-08", 0, 0, "", "exactly seven days is not a gap"},
		{"2025-01-01", "2025-01-09", 1, 8, model.RiskLow, "eight days"},
		{"2025-01-01", "2025-01-15", 1, 14, model.RiskLow, "fourteen days"},
		{"2025-01-01", "2025-01-16", 1, 15, model.RiskMedium, "fifteen days"},
		{"2025-01-01", "2025-01-31", 1, 30, model.RiskMedium, "thirty days"},
		{"2025-01-01", "2025-02-01", 1, 31, model.RiskHigh, "thirty one days"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			timeline := []model.TimelineEntry{
				{Date: tt.from, EvidenceID: "x"},
				{Date: tt.to, EvidenceID: "y"},
			}
			gaps := g.DetectGaps(timeline)
			require.Len(t, gaps, tt.gaps)
			if tt.gaps == 1 {
				assert.Equal(t, tt.days, gaps[0].DurationDays)
				assert.Equal(t, tt.risk, gaps[0].RiskLevel)
				assert.Equal(t, model.EvidenceID("x"), gaps[0].FromEvidence)
				assert.Equal(t, model.EvidenceID("y"), gaps[0].ToEvidence)
			}
		})
	}

	assert.Empty(t, g.DetectGaps(nil))
}

func alertTypes(alerts []model.MissingEvidenceAlert) []model.AlertType {
	var out []model.AlertType
	for _, a := range alerts {
		out = append(out, a.Type)
	}
	return out
}

func TestTimelineGenerator_FlagMissingEvidence(t *testing.T) {
	g := NewTimelineGenerator()

	withHeaders := item("mail", model.EvidenceEML, "2025-01-01")
	withHeaders.Metadata = &model.EvidenceMetadata{Sender: "a@example.com"}

	tests := []struct {
		index model.EvidenceIndex
		want  []model.AlertType
		desc  string
	}{
		{
			index: indexOf(),
			want:  []model.AlertType{model.AlertEmailOriginal},
			desc:  "empty index",
		},
		{
			index: indexOf(item("t", model.EvidenceTXT, "2025-01-01")),
			want:  []model.AlertType{model.AlertScreenshot, model.AlertEmailOriginal},
			desc:  "no image no email",
		},
		{
			index: indexOf(withHeaders, item("p", model.EvidencePNG, "2025-01-05")),
			want:  nil,
			desc:  "image and proper email",
		},
		{
			index: indexOf(item("mail", model.EvidenceEML, "2025-01-01"), item("p", model.EvidencePNG, "2025-01-05")),
			want:  []model.AlertType{model.AlertEmailOriginal},
			desc:  "email without headers",
		},
		{
			index: indexOf(
				withHeaders,
				item("p1", model.EvidencePNG, "2025-01-02"),
				item("p2", model.EvidencePNG, "2025-01-03"),
			),
			want: []model.AlertType{model.AlertUnknown},
			desc: "little correspondence",
		},
		{
			index: indexOf(
				withHeaders,
				item("t1", model.EvidenceTXT, "2025-01-02"),
				item("t2", model.EvidenceTXT, "2025-01-03"),
				item("p", model.EvidencePNG, "2025-01-04"),
			),
			want: nil,
			desc: "enough correspondence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			timeline := g.Generate(tt.index)
			alerts := g.FlagMissingEvidence(tt.index, timeline)
			assert.Equal(t, tt.want, alertTypes(alerts))
			assert.Equal(t, alerts, g.FlagMissingEvidence(tt.index, timeline), "idempotent")
		})
	}
}

func TestTimelineGenerator_FlagDuplicates(t *testing.T) {
	g := NewTimelineGenerator()
	a := item("a", model.EvidencePNG, "")
	b := item("b", model.EvidencePNG, "")
	b.Hash = a.Hash

	alerts := g.FlagDuplicates(indexOf(a, item("c", model.EvidenceTXT, ""), b))

	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertDuplicate, alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "b has the same content as a")
}

// An undated-header email and a photo forty days later.
func TestTimeline_EmailAndPhotoFortyDaysApart(t *testing.T) {
	ix := newTestIndexer()
	ix.AddItem("forwarded.eml", []byte("pasted text without any headers"), model.EvidenceEML, model.ProvenanceUser, AddOptions{Date: "2025-01-01"})
	ix.AddItem("damage.png", pngHeader, model.EvidencePNG, model.ProvenanceUser, AddOptions{Date: "2025-02-10"})

	g := NewTimelineGenerator()
	index := ix.GenerateIndex()
	timeline := g.Generate(index)
	gaps := g.DetectGaps(timeline)

	require.Len(t, gaps, 1)
	assert.Equal(t, 40, gaps[0].DurationDays)
	assert.Equal(t, model.RiskHigh, gaps[0].RiskLevel)

	alerts := alertTypes(g.FlagMissingEvidence(index, timeline))
	assert.NotContains(t, alerts, model.AlertScreenshot)
	assert.Contains(t, alerts, model.AlertEmailOriginal)
}
