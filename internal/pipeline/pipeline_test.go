package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"filippo.io/age"
	"github.com/ppiankov/casefile/internal/audit"
	"github.com/ppiankov/casefile/internal/authority"
	"github.com/ppiankov/casefile/internal/evidence"
	"github.com/ppiankov/casefile/internal/fetch"
	"github.com/ppiankov/casefile/internal/lifecycle"
	"github.com/ppiankov/casefile/internal/metrics"
	"github.com/ppiankov/casefile/internal/model"
	"github.com/ppiankov/casefile/internal/pack"
	"github.com/ppiankov/casefile/internal/upl"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake image body")

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	p, err := New(model.DefaultConfig(), opts...)
	require.NoError(t, err)
	return p
}

func landlordIntake() IntakeRequest {
	return IntakeRequest{
		Input: model.ClassificationInput{
			DomainHint:       "landlord tenant",
			JurisdictionHint: "Ontario",
			KeyDates:         []string{"2025-04-01"},
			Description:      "My landlord kept my deposit after I moved out.",
		},
	}
}

func auditTypes(t *testing.T, s *Session) []model.AuditEventType {
	t.Helper()
	events, err := s.AuditLog(context.Background())
	require.NoError(t, err)
	types := make([]model.AuditEventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func alertTypes(alerts []model.MissingEvidenceAlert) []model.AlertType {
	out := make([]model.AlertType, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Type)
	}
	return out
}

func TestIntakeLandlordTenantRoutesToBoard(t *testing.T) {
	p := newTestPipeline(t)
	s := p.NewSession()

	res, err := p.Intake(context.Background(), s, landlordIntake())
	require.NoError(t, err)

	assert.Equal(t, model.DomainLandlordTenant, res.Classification.Domain)
	assert.Equal(t, model.JurisdictionOntario, res.Classification.Jurisdiction)
	assert.Equal(t, s.ID, res.Classification.ID)
	assert.Equal(t, authority.LandlordTenantBoard, res.ForumMap.PrimaryForum.ID)

	var alternatives []model.AuthorityID
	for _, a := range res.ForumMap.Alternatives {
		alternatives = append(alternatives, a.ID)
	}
	assert.Contains(t, alternatives, authority.DivisionalCourt)

	assert.Equal(t, model.PillarAdministrative, res.Pillar)
	require.NotNil(t, res.Classification.Pillar)
	assert.NotEmpty(t, res.Classification.Journey)
	assert.Equal(t, upl.TierDocumentPrep, res.UPL.Tier)
	assert.NotEmpty(t, res.Deadlines)

	require.NotNil(t, s.Classification)
	assert.Equal(t, []model.AuditEventType{model.AuditIntake}, auditTypes(t, s))
}

func TestIntakeReferralTier(t *testing.T) {
	tests := []struct {
		name string
		req  IntakeRequest
	}{
		{
			name: "appeal",
			req: IntakeRequest{
				Input:    model.ClassificationInput{DomainHint: "insurance", JurisdictionHint: "Ontario"},
				IsAppeal: true,
			},
		},
		{
			name: "criminal accused",
			req: IntakeRequest{
				Input: model.ClassificationInput{DomainHint: "criminal", JurisdictionHint: "Ontario", Description: "I was charged with theft."},
				Role:  "accused",
			},
		},
		{
			name: "above small claims",
			req: IntakeRequest{
				Input: model.ClassificationInput{DomainHint: "insurance", JurisdictionHint: "Ontario", DisputeAmount: ptr(50000.0)},
			},
		},
	}

	p := newTestPipeline(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Intake(context.Background(), p.NewSession(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, upl.TierReferral, res.UPL.Tier)
			assert.NotEmpty(t, res.UPL.Reasons)
		})
	}
}

func TestUploadGapAndEmailOriginal(t *testing.T) {
	p := newTestPipeline(t)
	s := p.NewSession()
	ctx := context.Background()

	_, err := p.Intake(ctx, s, landlordIntake())
	require.NoError(t, err)

	res, err := p.UploadEvidence(ctx, s, UploadRequest{
		Filename: "forwarded.eml",
		MIME:     "message/rfc822",
		Content:  []byte("I am writing about the deposit you still hold.\n"),
		Options:  evidence.AddOptions{Date: "2025-01-01"},
	})
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, model.StatusEvidence, s.Classification.Status)

	res, err = p.UploadEvidence(ctx, s, UploadRequest{
		Filename: "unit-photo.png",
		MIME:     "image/png",
		Content:  pngBytes,
		Options:  evidence.AddOptions{Date: "2025-02-10"},
	})
	require.NoError(t, err)
	require.True(t, res.OK)

	assert.Len(t, res.Index.Items, 2)
	assert.Len(t, res.Timeline, 2)
	require.Len(t, res.Gaps, 1)
	assert.InDelta(t, 40, res.Gaps[0].DurationDays, 1)
	assert.Equal(t, model.RiskHigh, res.Gaps[0].RiskLevel)

	types := alertTypes(res.Alerts)
	assert.NotContains(t, types, model.AlertScreenshot)
	assert.Contains(t, types, model.AlertEmailOriginal)
	assert.Empty(t, res.RedactedPreview)
}

func TestUploadRejected(t *testing.T) {
	m := metrics.New()
	p := newTestPipeline(t, WithMetrics(m))
	s := p.NewSession()

	res, err := p.UploadEvidence(context.Background(), s, UploadRequest{
		Filename: "photo.png",
		MIME:     "image/png",
		Content:  []byte("not an image"),
	})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Errors)
	assert.Nil(t, res.Item)
	assert.Equal(t, 0, len(s.Index().Items))

	assert.Equal(t, []model.AuditEventType{model.AuditEvidenceRejected}, auditTypes(t, s))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("png", "rejected")))
}

func TestUploadUnknownProvenance(t *testing.T) {
	p := newTestPipeline(t)
	s := p.NewSession()

	res, err := p.UploadEvidence(context.Background(), s, UploadRequest{
		Filename:   "notice.txt",
		MIME:       "text/plain",
		Content:    []byte("The landlord served notice on 2025-01-04."),
		Provenance: model.Provenance("offical-api"),
	})
	require.NoError(t, err)
	assert.False(t, res.OK)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], `unknown provenance "offical-api"`)
	assert.Empty(t, s.Index().Items)
	assert.Equal(t, []model.AuditEventType{model.AuditEvidenceRejected}, auditTypes(t, s))
}

func TestUploadDuplicatesAndPreview(t *testing.T) {
	p := newTestPipeline(t)
	s := p.NewSession()
	ctx := context.Background()

	content := []byte("Call me at 416-555-0199 or write to alex@example.com about the repair.")
	first, err := p.UploadEvidence(ctx, s, UploadRequest{Filename: "note.txt", Content: content})
	require.NoError(t, err)
	require.True(t, first.OK)
	assert.Empty(t, first.Duplicates)
	assert.NotContains(t, first.RedactedPreview, "alex@example.com")
	assert.NotContains(t, first.RedactedPreview, "416-555-0199")

	second, err := p.UploadEvidence(ctx, s, UploadRequest{Filename: "note-copy.txt", Content: content})
	require.NoError(t, err)
	require.True(t, second.OK)
	require.Len(t, second.Duplicates, 1)
	assert.Equal(t, first.Item.ID, second.Duplicates[0].ID)
	assert.Len(t, second.Index.Items, 2)
	assert.Contains(t, alertTypes(second.Alerts), model.AlertDuplicate)
}

func TestFetchEvidence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><head><title>Rent deposits</title></head><body><main>
<p>Landlords must pay interest on rent deposits every year.</p>
<a href="https://www.ontario.ca/laws/statute/06r17">Residential Tenancies Act</a>
<a href="https://example.com/blog">Blog</a>
</main></body></html>`)
	}))
	defer server.Close()

	f := fetch.NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	p := newTestPipeline(t, WithFetcher(f))
	s := p.NewSession()

	res, err := p.FetchEvidence(context.Background(), s, server.URL+"/deposits", "")
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, "rent-deposits.html", res.Item.Filename)
	assert.Equal(t, model.ProvenanceOfficialLink, res.Item.Provenance)
	assert.Equal(t, model.EvidenceHTML, res.Item.Type)
	assert.Contains(t, res.RedactedPreview, "interest on rent deposits")

	require.Len(t, res.SuggestedSources, 1)
	assert.Equal(t, model.SourceELaws, res.SuggestedSources[0].Kind)
}

func TestAddSource(t *testing.T) {
	p := newTestPipeline(t)
	s := p.NewSession()
	ctx := context.Background()

	src, err := p.AddSource(ctx, s, "", "https://www.canlii.org/en/on/onltb/doc/2024/2024onltb1/2024onltb1.html", "")
	require.NoError(t, err)
	assert.Equal(t, model.SourceCanLII, src.Kind)
	assert.NotEmpty(t, src.ID)
	require.NotNil(t, src.RetrievedAt)

	_, err = p.AddSource(ctx, s, "", "not a url", "")
	assert.Error(t, err)

	assert.Len(t, s.Index().SourceManifest.Sources, 1)
	assert.Equal(t, []model.AuditEventType{model.AuditSourceAdded}, auditTypes(t, s))
}

func TestGenerateDocuments(t *testing.T) {
	m := metrics.New()
	p := newTestPipeline(t, WithMetrics(m))
	s := p.NewSession()
	ctx := context.Background()

	_, err := p.GenerateDocuments(ctx, s, GenerateRequest{})
	assert.ErrorIs(t, err, ErrNoClassification)

	_, err = p.Intake(ctx, s, landlordIntake())
	require.NoError(t, err)
	_, err = p.UploadEvidence(ctx, s, UploadRequest{Filename: "unit-photo.png", Content: pngBytes, Options: evidence.AddOptions{Date: "2025-04-01"}})
	require.NoError(t, err)

	res, err := p.GenerateDocuments(ctx, s, GenerateRequest{
		Notes:       "My name is Alex Tran. My landlord is Harbour Properties and kept my $1,200 deposit.",
		ConfirmAll:  true,
		PackageName: "deposit-claim",
	})
	require.NoError(t, err)

	assert.Equal(t, authority.LandlordTenantBoard, res.ForumMap.PrimaryForum.ID)
	assert.Equal(t, "deposit-claim", res.Package.Name)
	assert.NotEmpty(t, res.Drafts)
	_, ok := res.Package.File(pack.DraftPath("lt-notice-letter"))
	assert.True(t, ok)
	assert.Equal(t, s.ID, res.Readiness.MatterID)
	assert.Equal(t, model.StatusDrafted, s.Classification.Status)
	assert.NotNil(t, s.Index().SourceManifest.CompiledAt)

	assert.Equal(t, []model.AuditEventType{
		model.AuditIntake,
		model.AuditEvidenceUploaded,
		model.AuditDocumentsGenerated,
	}, auditTypes(t, s))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Packages.WithLabelValues(string(model.DomainLandlordTenant))))

	root, err := WritePackage(res.Package, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "deposit-claim", filepath.Base(root))
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(pack.ReadmePath)))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestGenerateReferralWarning(t *testing.T) {
	p := newTestPipeline(t)
	s := p.NewSession()
	ctx := context.Background()

	req := landlordIntake()
	req.IsAppeal = true
	_, err := p.Intake(ctx, s, req)
	require.NoError(t, err)

	res, err := p.GenerateDocuments(ctx, s, GenerateRequest{})
	require.NoError(t, err)
	assert.Contains(t, strings.Join(res.Warnings, "\n"), "refer to a licensed professional")
}

func TestExportData(t *testing.T) {
	p := newTestPipeline(t)
	s := p.NewSession()
	ctx := context.Background()

	_, err := p.ExportData(ctx, s, ExportRequest{})
	assert.ErrorIs(t, err, lifecycle.ErrNothingToExport)

	_, err = p.Intake(ctx, s, landlordIntake())
	require.NoError(t, err)

	identity, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	out, err := p.ExportData(ctx, s, ExportRequest{
		Format:     lifecycle.FormatZstd,
		Recipients: []string{identity.Recipient().String()},
	})
	require.NoError(t, err)

	plain, err := lifecycle.Decode(out, lifecycle.FormatZstd, identity)
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(plain, &snap))
	assert.Equal(t, s.ID, snap.ID)
	require.NotNil(t, snap.Classification)
	assert.Equal(t, model.DomainLandlordTenant, snap.Classification.Domain)

	assert.Equal(t, []model.AuditEventType{model.AuditIntake, model.AuditDataExported}, auditTypes(t, s))
}

func TestDeleteData(t *testing.T) {
	m := metrics.New()
	p := newTestPipeline(t, WithMetrics(m))
	ctx := context.Background()

	prepare := func(t *testing.T) *Session {
		t.Helper()
		s := p.NewSession()
		_, err := p.Intake(ctx, s, landlordIntake())
		require.NoError(t, err)
		_, err = p.UploadEvidence(ctx, s, UploadRequest{Filename: "unit-photo.png", Content: pngBytes})
		require.NoError(t, err)
		return s
	}

	t.Run("request hold blocks", func(t *testing.T) {
		s := prepare(t)
		res, err := p.DeleteData(ctx, s, DeleteRequest{LegalHold: true})
		require.NoError(t, err)
		assert.Equal(t, model.DeletionBlocked, res.Status)
		assert.NotNil(t, s.Classification)
		assert.Equal(t, 1, len(s.Index().Items))
	})

	t.Run("policy hold blocks", func(t *testing.T) {
		s := prepare(t)
		require.NoError(t, p.SetLegalHold(ctx, s, true, "litigation pending", ""))
		res, err := p.DeleteData(ctx, s, DeleteRequest{})
		require.NoError(t, err)
		assert.Equal(t, model.DeletionBlocked, res.Status)
		assert.Contains(t, res.Reason, "litigation pending")
	})

	t.Run("completed purges data and keeps audit", func(t *testing.T) {
		s := prepare(t)
		res, err := p.DeleteData(ctx, s, DeleteRequest{Reason: "client request"})
		require.NoError(t, err)
		assert.Equal(t, model.DeletionCompleted, res.Status)
		assert.Nil(t, s.Classification)
		assert.Equal(t, 0, len(s.Index().Items))

		types := auditTypes(t, s)
		assert.Equal(t, model.AuditDeletionRequested, types[len(types)-1])
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Deletions.WithLabelValues(string(model.DeletionBlocked))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deletions.WithLabelValues(string(model.DeletionCompleted))))
}

func TestSnapshotRestore(t *testing.T) {
	store := audit.NewMemoryStore()
	p := newTestPipeline(t, WithAuditStore(store))
	ctx := context.Background()

	s := p.NewSession()
	_, err := p.Intake(ctx, s, landlordIntake())
	require.NoError(t, err)
	_, err = p.UploadEvidence(ctx, s, UploadRequest{Filename: "unit-photo.png", Content: pngBytes})
	require.NoError(t, err)
	require.NoError(t, p.SetRetention(ctx, s, 365, ""))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := p.Restore(ctx, &decoded)
	require.NoError(t, err)
	assert.Equal(t, s.ID, restored.ID)
	assert.Equal(t, 1, len(restored.Index().Items))
	assert.Equal(t, 365, restored.Lifecycle().Policy().Days)
	assert.Equal(t, auditTypes(t, s), auditTypes(t, restored))

	decoded.Version = SnapshotVersion + 1
	_, err = p.Restore(ctx, &decoded)
	assert.ErrorIs(t, err, ErrSnapshotVersion)
}

func ptr[T any](v T) *T { return &v }
