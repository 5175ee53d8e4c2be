// Package fetch retrieves official-link evidence over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/casefile/internal/extract"
)

const fetchMaxRetries = 3

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// ErrDisallowed is returned when robots.txt forbids the fetch
var ErrDisallowed = errors.New("disallowed by robots.txt")

// RateLimiter throttles requests per host
type RateLimiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Meta is what the response headers said about the page
type Meta struct {
	StatusCode   int               `json:"statusCode"`
	ContentType  string            `json:"contentType,omitempty"`
	LastModified string            `json:"lastModified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// Result contains the fetched page and what was read from it
type Result struct {
	HTML     string
	Meta     Meta
	Subject  string
	Title    string
	FinalURL string
}

// Fetcher fetches HTML pages for evidence
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	limiter    RateLimiter
}

// NewFetcher creates a new Fetcher. respectRobots enables robots.txt checks.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, respectRobots bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: NewProxyFunc(httpProxy, httpsProxy, noProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  userAgent,
		maxBytes:   maxBytes,
	}
	if respectRobots {
		f.robots = NewRobotsChecker(userAgent, client)
	}
	return f
}

// WithLimiter sets a per-host rate limiter
func (f *Fetcher) WithLimiter(l RateLimiter) *Fetcher {
	f.limiter = l
	return f
}

// Client returns the HTTP client so other checks share proxy settings
func (f *Fetcher) Client() *http.Client {
	return f.httpClient
}

// Fetch retrieves the page at rawURL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-CA,en;q=0.9,fr-CA;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	meta := Meta{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
		Headers:      make(map[string]string),
	}
	for _, key := range []string{"Content-Length", "Server", "Cache-Control"} {
		if val := resp.Header.Get(key); val != "" {
			meta.Headers[key] = val
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()
	result := &Result{
		HTML:     string(body),
		Meta:     meta,
		Subject:  extractSubject(finalURL),
		FinalURL: finalURL,
	}
	if doc, err := extract.ParseHTML(result.HTML); err == nil {
		result.Title = extract.Title(doc)
	}
	return result, nil
}

// FetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*Result, error) {
	var lastErr error
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) {
			return nil, err
		}
		if attempt < fetchMaxRetries-1 {
			fetchSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return nil, lastErr
}

// isRetryableFetchError reports 5xx, 429 and transient network failures
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	if strings.HasPrefix(s, "unexpected status: 5") || strings.HasPrefix(s, "unexpected status: 429") {
		return true
	}
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

// extractSubject turns the last path segment into a readable name
func extractSubject(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	last = strings.NewReplacer("_", " ", "-", " ").Replace(last)
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	return last
}
