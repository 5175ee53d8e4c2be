package lifecycle

import (
	"context"
	"testing"
	"time"

	"filippo.io/age"
	"github.com/ppiankov/casefile/internal/audit"
	"github.com/ppiankov/casefile/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *audit.Logger) {
	t.Helper()
	log := audit.NewLogger(audit.NewMemoryStore(), "m-1", nil)
	m := NewManager(model.RetentionPolicy{Days: 30}, log, nil)
	m.now = func() time.Time { return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC) }
	return m, log
}

func TestRequestDeletion(t *testing.T) {
	tests := []struct {
		name        string
		policyHold  bool
		requestHold bool
		want        model.DeletionStatus
	}{
		{"no hold", false, false, model.DeletionCompleted},
		{"policy hold", true, false, model.DeletionBlocked},
		{"request hold", false, true, model.DeletionBlocked},
		{"both", true, true, model.DeletionBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m, log := newTestManager(t)
			if tt.policyHold {
				require.NoError(t, m.SetLegalHold(ctx, true, "litigation pending", ""))
			}

			res, err := m.RequestDeletion(ctx, model.DeletionRequest{MatterID: "m-1", LegalHold: tt.requestHold})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.want == model.DeletionCompleted, res.PurgeAfter != nil)
			if tt.want == model.DeletionBlocked {
				assert.NotEmpty(t, res.Reason)
			}

			events, err := log.Events(ctx)
			require.NoError(t, err)
			last := events[len(events)-1]
			assert.Equal(t, model.AuditDeletionRequested, last.Type)
			assert.Equal(t, model.CategoryCompliance, last.Category)
		})
	}
}

func TestLegalHoldAndRetention(t *testing.T) {
	ctx := context.Background()
	m, log := newTestManager(t)

	require.NoError(t, m.SetLegalHold(ctx, true, "subpoena", "clerk"))
	assert.True(t, m.Policy().LegalHold)
	assert.Equal(t, "subpoena", m.Policy().LegalHoldReason)

	require.NoError(t, m.SetLegalHold(ctx, false, "", "clerk"))
	assert.False(t, m.Policy().LegalHold)
	assert.Empty(t, m.Policy().LegalHoldReason)

	require.NoError(t, m.SetRetention(ctx, 90, ""))
	assert.Equal(t, 90, m.Policy().Days)
	assert.ErrorIs(t, m.SetRetention(ctx, 0, ""), ErrInvalidRetention)

	events, err := log.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, model.AuditRetentionChanged, events[2].Type)

	assert.True(t, m.Expired(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, m.Expired(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"matter":"m-1","items":[]}`)

	identity, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	tests := []struct {
		name       string
		format     Format
		recipients []string
		identities []age.Identity
	}{
		{"json", FormatJSON, nil, nil},
		{"zstd", FormatZstd, nil, nil},
		{"zstd encrypted", FormatZstd, []string{identity.Recipient().String()}, []age.Identity{identity}},
		{"json encrypted", FormatJSON, []string{identity.Recipient().String()}, []age.Identity{identity}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			out, err := m.Export(ctx, payload, ExportOptions{Format: tt.format, Recipients: tt.recipients})
			require.NoError(t, err)
			if tt.format != FormatJSON || len(tt.recipients) > 0 {
				assert.NotEqual(t, payload, out)
			}

			back, err := Decode(out, tt.format, tt.identities...)
			require.NoError(t, err)
			assert.Equal(t, payload, back)
		})
	}
}

func TestExportErrors(t *testing.T) {
	ctx := context.Background()
	m, log := newTestManager(t)

	_, err := m.Export(ctx, nil, ExportOptions{})
	assert.ErrorIs(t, err, ErrNothingToExport)

	_, err = m.Export(ctx, []byte("{}"), ExportOptions{Recipients: []string{"not-a-key"}})
	assert.Error(t, err)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	events, err := log.Events(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}
