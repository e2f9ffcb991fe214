package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"accord/internal/domain"
)

// Metrics holds the Prometheus metrics for message encryption and key migration.
type Metrics struct {
	// Crypto metrics
	CryptoOperationsTotal *prometheus.CounterVec
	DecryptFailuresTotal  prometheus.Counter
	LegacyPayloadsTotal   prometheus.Counter

	// Key metrics
	KeysPublishedTotal *prometheus.CounterVec

	// Migration metrics
	MigrationProfilesTotal *prometheus.CounterVec
	MigrationDuration      prometheus.Histogram
	MigrationRunsTotal     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the metrics and registers them on reg. A nil reg uses a
// fresh private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		CryptoOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accord_crypto_operations_total",
				Help: "Message cryptographic operations performed",
			},
			[]string{"operation"},
		),

		DecryptFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "accord_decrypt_failures_total",
				Help: "Payloads that failed authentication and were replaced by a placeholder",
			},
		),

		LegacyPayloadsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "accord_legacy_payloads_total",
				Help: "Plaintext payloads passed through without decryption",
			},
		),

		KeysPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accord_keys_published_total",
				Help: "Public key publish attempts",
			},
			[]string{"result"},
		),

		MigrationProfilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accord_migration_profiles_total",
				Help: "Profiles processed by the key migration",
			},
			[]string{"status"},
		),

		MigrationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "accord_migration_duration_seconds",
				Help:    "Key migration run time",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
		),

		MigrationRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accord_migration_runs_total",
				Help: "Key migration runs",
			},
			[]string{"mode"},
		),

		gatherer: reg,
	}
}

// RecordCrypto increments the counter for operation.
func (m *Metrics) RecordCrypto(operation string) {
	m.CryptoOperationsTotal.WithLabelValues(operation).Inc()
}

// RecordDecryptFailure counts a placeholder shown instead of a message.
func (m *Metrics) RecordDecryptFailure() {
	m.DecryptFailuresTotal.Inc()
}

// RecordLegacyPayload counts a plaintext pass-through.
func (m *Metrics) RecordLegacyPayload() {
	m.LegacyPayloadsTotal.Inc()
}

// RecordKeyPublish counts a publish attempt.
func (m *Metrics) RecordKeyPublish(changed bool) {
	result := "unchanged"
	if changed {
		result = "written"
	}
	m.KeysPublishedTotal.WithLabelValues(result).Inc()
}

// RecordMigration records a finished migration run.
func (m *Metrics) RecordMigration(sum domain.MigrationSummary, durationSeconds float64) {
	mode := "live"
	if sum.DryRun {
		mode = "dry_run"
	}
	m.MigrationRunsTotal.WithLabelValues(mode).Inc()
	m.MigrationDuration.Observe(durationSeconds)
	for _, rec := range sum.Details {
		m.MigrationProfilesTotal.WithLabelValues(string(rec.Status)).Inc()
	}
}

// Handler exposes the Prometheus metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
