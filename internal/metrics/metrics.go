// Package metrics exposes Prometheus collectors for coverage verification.
//
// Collectors are registered on a caller-supplied registry so each Server
// (and each test) gets an isolated set:
//
//	registry := prometheus.NewRegistry()
//	m := metrics.New(registry)
//	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "doihaveworkerscomp"

// Verification results used as the "outcome" label.
const (
	OutcomeValidated    = "validated"
	OutcomeNotValidated = "not_validated"
	OutcomeUnsupported  = "unsupported"
	OutcomeError        = "error"
)

// JurisdictionUnsupported is the "jurisdiction" label for every unregistered
// code, so codes taken from the URL never become label values.
const JurisdictionUnsupported = "unsupported"

// Metrics holds the service's collectors.
type Metrics struct {
	verifications  *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
}

// New creates and registers all collectors with registry.
// A nil registry falls back to prometheus.DefaultRegisterer.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Coverage verifications by jurisdiction and outcome",
		}, []string{"jurisdiction", "outcome"}),

		lookupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registry_lookup_duration_seconds",
			Help:      "Latency of upstream coverage registry lookups",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"jurisdiction", "status"}), // status: success, error
	}
}

// RecordVerification counts one verification. Nil-safe.
func (m *Metrics) RecordVerification(jurisdiction, outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(jurisdiction, outcome).Inc()
}

// ObserveLookup records the duration of one upstream lookup. Nil-safe.
func (m *Metrics) ObserveLookup(jurisdiction string, d time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	m.lookupDuration.WithLabelValues(jurisdiction, status).Observe(d.Seconds())
}
