package audit

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/casefile/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(store Store, matterID string) *Logger {
	l := NewLogger(store, matterID, nil)
	n := 0
	l.newID = func() string {
		n++
		return fmt.Sprintf("%s-ev-%d", matterID, n)
	}
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base.Add(time.Duration(n) * time.Minute) }
	return l
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit", "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Store{
		DriverMemory: NewMemoryStore(),
		DriverSQLite: sqlite,
	}
}

func TestLoggerRecordAndList(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			l := newTestLogger(store, "m-1")
			other := newTestLogger(store, "m-2")

			_, err := l.Record(ctx, model.AuditIntake, "", "matter classified", map[string]any{"domain": "insurance"})
			require.NoError(t, err)
			_, err = other.Record(ctx, model.AuditIntake, "", "other matter", nil)
			require.NoError(t, err)
			e, err := l.Record(ctx, model.AuditLegalHoldChanged, "clerk", "legal hold on", nil)
			require.NoError(t, err)
			assert.Equal(t, model.CategoryCompliance, e.Category)

			events, err := l.Events(ctx)
			require.NoError(t, err)
			require.Len(t, events, 2)
			assert.Equal(t, model.AuditIntake, events[0].Type)
			assert.Equal(t, model.CategoryOperations, events[0].Category)
			assert.Equal(t, DefaultActor, events[0].Actor)
			assert.Equal(t, "insurance", events[0].Details["domain"])
			assert.Equal(t, "clerk", events[1].Actor)
			assert.Equal(t, "m-1", events[1].MatterID)

			require.NoError(t, l.Clear(ctx))
			events, err = l.Events(ctx)
			require.NoError(t, err)
			assert.Empty(t, events)

			events, err = other.Events(ctx)
			require.NoError(t, err)
			assert.Len(t, events, 1)
		})
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			l := newTestLogger(store, "m-1")
			e, err := l.Record(ctx, model.AuditEvidenceUploaded, "", "uploaded a.txt", nil)
			require.NoError(t, err)

			require.NoError(t, l.Restore(ctx, []model.AuditEvent{e, e}))

			events, err := l.Events(ctx)
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.True(t, e.Timestamp.Equal(events[0].Timestamp))
		})
	}
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	l := newTestLogger(s, "m-1")
	_, err = l.Record(ctx, model.AuditDataExported, "", "exported", map[string]any{"format": "zstd"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	events, err := s.List(ctx, "m-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "zstd", events[0].Details["format"])
}

func TestOpenStore(t *testing.T) {
	s, err := OpenStore(model.AuditConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = OpenStore(model.AuditConfig{Driver: DriverSQLite})
	assert.Error(t, err)

	_, err = OpenStore(model.AuditConfig{Driver: "postgres"})
	assert.Error(t, err)

	s, err = OpenStore(model.AuditConfig{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "a.db")})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
