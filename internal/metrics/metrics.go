// Package metrics exposes pipeline counters and latencies to Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the triage pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Matters classified by domain
	Intakes *prometheus.CounterVec

	// Evidence uploads by file type and outcome
	Uploads *prometheus.CounterVec

	// Packages generated by domain
	Packages *prometheus.CounterVec

	// Readiness index of generated packages
	Readiness prometheus.Histogram

	// Package generation latency
	GenerateLatency prometheus.Histogram

	// Deletion requests by status
	Deletions *prometheus.CounterVec
}

// New creates a Metrics instance on its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,

		Intakes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casefile_intakes_total",
			Help: "Total matters classified by domain",
		}, []string{"domain"}),

		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casefile_evidence_uploads_total",
			Help: "Total evidence uploads by type and result",
		}, []string{"type", "result"}), // result: "accepted", "rejected"

		Packages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casefile_packages_generated_total",
			Help: "Total document packages generated by domain",
		}, []string{"domain"}),

		Readiness: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "casefile_package_readiness_index",
			Help:    "Readiness index of generated packages",
			Buckets: []float64{20, 40, 60, 80, 100},
		}),

		GenerateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "casefile_generate_duration_seconds",
			Help:    "Duration of drafting and packaging",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		Deletions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casefile_deletion_requests_total",
			Help: "Total deletion requests by status",
		}, []string{"status"}),
	}
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordIntake counts a classified matter
func (m *Metrics) RecordIntake(domain string) {
	if m != nil {
		m.Intakes.WithLabelValues(domain).Inc()
	}
}

// RecordUpload counts an accepted or rejected upload
func (m *Metrics) RecordUpload(fileType string, accepted bool) {
	if m != nil {
		result := "rejected"
		if accepted {
			result = "accepted"
		}
		m.Uploads.WithLabelValues(fileType, result).Inc()
	}
}

// RecordPackage counts a generated package and observes its readiness and latency
func (m *Metrics) RecordPackage(domain string, readiness int, d time.Duration) {
	if m != nil {
		m.Packages.WithLabelValues(domain).Inc()
		m.Readiness.Observe(float64(readiness))
		m.GenerateLatency.Observe(d.Seconds())
	}
}

// RecordDeletion counts a deletion request
func (m *Metrics) RecordDeletion(status string) {
	if m != nil {
		m.Deletions.WithLabelValues(status).Inc()
	}
}

// WriteTextfile writes the metrics in the node-exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
