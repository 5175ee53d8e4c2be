package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/casefile/internal/model"
)

const validateMaxRetries = 3

// validateSleepFunc is the sleep function used between retries (injectable for tests)
var validateSleepFunc = time.Sleep

// staleAfterDays marks a source whose Last-Modified is older than this
const staleAfterDays = 365 * 3

// CheckResult is the liveness of one manifest source
type CheckResult struct {
	SourceID     string           `json:"sourceId"`
	URL          string           `json:"url"`
	Kind         model.SourceKind `json:"kind"`
	StatusCode   int              `json:"statusCode,omitempty"`
	Accessible   bool             `json:"accessible"`
	Dead         bool             `json:"dead"`
	RedirectURL  string           `json:"redirectUrl,omitempty"`
	LastModified *time.Time       `json:"lastModified,omitempty"`
	Stale        bool             `json:"stale"`
	Error        string           `json:"error,omitempty"`
}

// Validator checks source URLs concurrently
type Validator struct {
	httpClient *http.Client
	userAgent  string
	maxWorkers int
	classifier *Classifier
	now        func() time.Time
}

// NewValidator creates a validator. A nil client gets a 10s timeout client.
func NewValidator(client *http.Client, userAgent string, maxWorkers int, classifier *Classifier) *Validator {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Validator{
		httpClient: client,
		userAgent:  userAgent,
		maxWorkers: maxWorkers,
		classifier: classifier,
		now:        time.Now,
	}
}

// Check validates every source. Results are in input order.
func (v *Validator) Check(ctx context.Context, sources []model.Source) []CheckResult {
	results := make([]CheckResult, len(sources))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.maxWorkers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s model.Source) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = CheckResult{SourceID: s.ID, URL: s.URL, Kind: s.Kind, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = v.checkWithRetry(ctx, s)
		}(i, src)
	}

	wg.Wait()
	return results
}

func (v *Validator) checkSingle(ctx context.Context, src model.Source) CheckResult {
	result := CheckResult{
		SourceID: src.ID,
		URL:      src.URL,
		Kind:     src.Kind,
	}
	if result.Kind == "" {
		result.Kind = v.classifier.Classify(src.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, src.URL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		result.Dead = true
		return result
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.Dead = true
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Accessible = true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		result.Dead = true
	}

	if final := resp.Request.URL.String(); final != src.URL {
		result.RedirectURL = final
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			result.LastModified = &t
			result.Stale = v.now().Sub(t) > staleAfterDays*24*time.Hour
		}
	}
	return result
}

func (v *Validator) checkWithRetry(ctx context.Context, src model.Source) CheckResult {
	var result CheckResult
	for attempt := 0; attempt < validateMaxRetries; attempt++ {
		result = v.checkSingle(ctx, src)
		if !isRetryable(result) {
			return result
		}
		if attempt < validateMaxRetries-1 {
			validateSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return result
}

func isRetryable(r CheckResult) bool {
	if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
		return true
	}
	s := strings.ToLower(r.Error)
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}
