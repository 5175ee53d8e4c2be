package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/casefile/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	validateSleepFunc = func(time.Duration) {}
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(map[string]model.SourceKind{"Tribunals.example": model.SourceCanLII})

	tests := []struct {
		url  string
		want model.SourceKind
		desc string
	}{
		{"https://www.canlii.org/en/on/onltb/doc/2024/x.html", model.SourceCanLII, "canlii"},
		{"https://canlii.ca/t/abc", model.SourceOther, "canlii short links are not the database"},
		{"https://www.ontario.ca/laws/statute/06r17", model.SourceELaws, "e-laws"},
		{"https://www.ontario.ca/page/rent-increase", model.SourceOther, "ontario.ca outside laws"},
		{"https://laws-lois.justice.gc.ca/eng/acts/C-46/", model.SourceJusticeLaws, "justice laws"},
		{"https://tribunals.example/decision", model.SourceCanLII, "domain override"},
		{"https://example.com", model.SourceOther, "other"},
		{"::not a url", model.SourceOther, "unparseable"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.url))
		})
	}
}

func TestClassifier_NewSource(t *testing.T) {
	c := NewClassifier(nil)

	src, err := c.NewSource("", "https://www.ontario.ca/laws/statute/06r17")
	require.NoError(t, err)
	assert.Equal(t, "Ontario e-Laws: 06r17", src.Name)
	assert.Equal(t, model.SourceELaws, src.Kind)

	named, err := c.NewSource(" Residential Tenancies Act ", "https://www.ontario.ca/laws/statute/06r17")
	require.NoError(t, err)
	assert.Equal(t, "Residential Tenancies Act", named.Name)

	_, err = c.NewSource("", "ftp://example.com/file")
	assert.Error(t, err)
	_, err = c.NewSource("", "not a url")
	assert.Error(t, err)
}

func TestValidator_Check(t *testing.T) {
	var flaky atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		if flaky.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusMovedPermanently)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	v := NewValidator(server.Client(), "casefile-test", 2, nil)
	results := v.Check(context.Background(), []model.Source{
		{ID: "a", URL: server.URL + "/ok"},
		{ID: "b", URL: server.URL + "/gone"},
		{ID: "c", URL: server.URL + "/flaky"},
		{ID: "d", URL: server.URL + "/old"},
	})

	require.Len(t, results, 4)

	assert.Equal(t, "a", results[0].SourceID)
	assert.True(t, results[0].Accessible)
	require.NotNil(t, results[0].LastModified)
	assert.True(t, results[0].Stale)
	assert.Equal(t, model.SourceOther, results[0].Kind)

	assert.True(t, results[1].Dead)
	assert.False(t, results[1].Accessible)

	assert.True(t, results[2].Accessible)
	assert.Equal(t, int32(2), flaky.Load())

	assert.True(t, results[3].Accessible)
	assert.Equal(t, server.URL+"/ok", results[3].RedirectURL)
}

func TestValidator_CancelledContext(t *testing.T) {
	v := NewValidator(nil, "casefile-test", 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := v.Check(ctx, []model.Source{{ID: "a", URL: "http://127.0.0.1:1/x"}})

	require.Len(t, results, 1)
	assert.False(t, results[0].Accessible)
	assert.NotEmpty(t, results[0].Error)
}
