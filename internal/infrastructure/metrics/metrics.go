package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the posting core. HTTP-level
// metrics live in the HTTP middleware; these cover the business operations.
type Metrics struct {
	// Posting metrics
	PostingsCommitted prometheus.Counter
	PostingDuration   prometheus.Histogram
	PostingAmount     prometheus.Histogram
	PostingErrors     *prometheus.CounterVec
	EntriesWritten    prometheus.Counter

	// Resolver metrics
	ResolverLookups  *prometheus.CounterVec
	AccountsCreated  prometheus.Counter
	ResolverDuration prometheus.Histogram

	// Reporting metrics
	ReportsGenerated *prometheus.CounterVec
	ReportDuration   *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Idempotency metrics
	IdempotencyHits prometheus.Counter

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Posting metrics
		PostingsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_postings_committed_total",
			Help: "Total number of committed postings",
		}),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "corebank_posting_duration_seconds",
			Help:    "Duration of posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		PostingAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "corebank_posting_amount",
			Help:    "Posted amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_posting_errors_total",
				Help: "Total number of posting errors by type",
			},
			[]string{"error_type"},
		),
		EntriesWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_entries_written_total",
			Help: "Total number of accounting entries written",
		}),

		// Resolver metrics
		ResolverLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_resolver_lookups_total",
				Help: "Total account resolutions by outcome",
			},
			[]string{"outcome"},
		),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_accounts_created_total",
			Help: "Total number of accounts created on first use",
		}),
		ResolverDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "corebank_resolver_duration_seconds",
			Help:    "Duration of account resolutions",
			Buckets: prometheus.DefBuckets,
		}),

		// Reporting metrics
		ReportsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_reports_generated_total",
				Help: "Total reports generated by kind",
			},
			[]string{"kind"},
		),
		ReportDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "corebank_report_duration_seconds",
				Help:    "Report generation duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "corebank_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Idempotency metrics
		IdempotencyHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_idempotency_hits_total",
			Help: "Total requests answered from the idempotency store",
		}),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"context", "severity"},
		),
	}
}
