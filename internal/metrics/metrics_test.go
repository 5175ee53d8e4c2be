package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()
	m.RecordIntake("insurance")
	m.RecordIntake("insurance")
	m.RecordUpload("pdf", true)
	m.RecordUpload("exe", false)
	m.RecordPackage("insurance", 72, 30*time.Millisecond)
	m.RecordDeletion("blocked")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Intakes.WithLabelValues("insurance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("pdf", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("exe", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Packages.WithLabelValues("insurance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deletions.WithLabelValues("blocked")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordIntake("x")
		m.RecordUpload("pdf", true)
		m.RecordPackage("x", 1, time.Second)
		m.RecordDeletion("completed")
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("ignored.prom"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.RecordIntake("criminal")

	path := filepath.Join(t.TempDir(), "casefile.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `casefile_intakes_total{domain="criminal"} 1`))
}

func TestSeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.RecordIntake("insurance")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Intakes.WithLabelValues("insurance")))
}
