package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func noSleep(t *testing.T) {
	t.Helper()
	orig := fetchSleepFunc
	fetchSleepFunc = func(time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = orig })
}

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><head><title>Residential Tenancies Act</title></head><body>OK</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL+"/laws/statute/06r17")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Title != "Residential Tenancies Act" {
		t.Errorf("Unexpected title: %s", result.Title)
	}
	if result.Subject != "06r17" {
		t.Errorf("Unexpected subject: %s", result.Subject)
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.HTML != "<html>OK</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	if _, err := fetcher.FetchWithRetry(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	if _, err := fetcher.FetchWithRetry(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
			return
		}
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "casefile/0.1", 1<<20, true, "", "", "")

	_, err := fetcher.Fetch(context.Background(), server.URL+"/private/page")
	if !errors.Is(err, ErrDisallowed) {
		t.Fatalf("Expected ErrDisallowed, got %v", err)
	}
	if _, err := fetcher.Fetch(context.Background(), server.URL+"/public"); err != nil {
		t.Fatalf("Expected public page to be allowed, got %v", err)
	}
}

type countingLimiter struct{ calls atomic.Int32 }

func (l *countingLimiter) Wait(context.Context, string) error {
	l.calls.Add(1)
	return nil
}

func TestFetch_UsesLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	limiter := &countingLimiter{}
	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "").WithLimiter(limiter)
	if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
		t.Fatal(err)
	}
	if limiter.calls.Load() != 1 {
		t.Errorf("Expected 1 limiter call, got %d", limiter.calls.Load())
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"unexpected status: 503 Service Unavailable", true},
		{"unexpected status: 500 Internal Server Error", true},
		{"unexpected status: 429 Too Many Requests", true},
		{"unexpected status: 404 Not Found", false},
		{"unexpected status: 403 Forbidden", false},
		{"fetch: connection refused", true},
		{"fetch: connection reset by peer", true},
		{"create request: invalid URL", false},
		{"read body: unexpected EOF", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			if got := isRetryableFetchError(errors.New(tt.err)); got != tt.retryable {
				t.Errorf("isRetryableFetchError(%q) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}

	if isRetryableFetchError(nil) {
		t.Error("Expected nil error to not be retryable")
	}
}

func TestNewProxyFunc_NoProxy(t *testing.T) {
	proxy := NewProxyFunc("http://proxy:3128", "", "internal.example, .corp")

	tests := []struct {
		url  string
		want string
	}{
		{"http://canlii.org/x", "http://proxy:3128"},
		{"http://internal.example/x", ""},
		{"http://a.corp/x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			got, err := proxy(req)
			if err != nil {
				t.Fatal(err)
			}
			if (got == nil && tt.want != "") || (got != nil && got.String() != tt.want) {
				t.Errorf("proxy(%s) = %v, want %q", tt.url, got, tt.want)
			}
		})
	}
}
