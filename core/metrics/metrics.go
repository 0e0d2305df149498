// Package metrics exposes validation counters for node-exporter style
// textfile collection.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"election-check/internal/errors"
)

// Outcome labels
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Metrics holds the validation metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Records validated by record kind and outcome
	RecordsValidated *prometheus.CounterVec

	// Rejections by record kind and failure kind
	Failures *prometheus.CounterVec

	// Duration of a document run
	DocumentDuration prometheus.Histogram
}

// New creates the metrics on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RecordsValidated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "election_check_records_validated_total",
			Help: "Total records validated by record kind and outcome",
		}, []string{"kind", "outcome"}),

		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "election_check_failures_total",
			Help: "Total rejected records by record kind and failure kind",
		}, []string{"kind", "failure"}),

		DocumentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "election_check_document_duration_seconds",
			Help:    "Duration of validating one dataset document",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncrementAccepted records an accepted record
func (m *Metrics) IncrementAccepted(kind string) {
	if m != nil {
		m.RecordsValidated.WithLabelValues(kind, OutcomeAccepted).Inc()
	}
}

// IncrementRejected records a rejected record and its failure kind
func (m *Metrics) IncrementRejected(kind string, failure errors.Kind) {
	if m != nil {
		m.RecordsValidated.WithLabelValues(kind, OutcomeRejected).Inc()
		m.Failures.WithLabelValues(kind, string(failure)).Inc()
	}
}

// ObserveDocument records the time spent on one document
func (m *Metrics) ObserveDocument(d time.Duration) {
	if m != nil {
		m.DocumentDuration.Observe(d.Seconds())
	}
}

// WriteTextfile writes the current values in the text exposition format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrap(errors.KindInternal, "failed to write metrics textfile", err).WithContext("path", path)
	}
	return nil
}
