package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the review service.
// Metrics are organized by subsystem: searches, articles, screening, and
// reporting. All counters and histograms are registered via promauto for
// automatic registration with the default Prometheus registry.
type Metrics struct {
	// SearchesStarted counts searches initiated, labeled by provider.
	SearchesStarted *prometheus.CounterVec

	// SearchesCompleted counts successful searches, labeled by provider.
	SearchesCompleted *prometheus.CounterVec

	// SearchesFailed counts failed searches, labeled by provider.
	SearchesFailed *prometheus.CounterVec

	// SearchDuration observes search duration in seconds, labeled by provider.
	SearchDuration *prometheus.HistogramVec

	// ArticlesPerSearch observes the distribution of articles returned per
	// search, labeled by provider.
	ArticlesPerSearch *prometheus.HistogramVec

	// ArticlesIdentified counts the total number of articles ingested into
	// review projects, labeled by provider.
	ArticlesIdentified *prometheus.CounterVec

	// DuplicatesDetected counts duplicate articles found by detection runs.
	DuplicatesDetected prometheus.Counter

	// DedupRuns counts duplicate detection runs.
	DedupRuns prometheus.Counter

	// DedupDuration observes duplicate detection run duration in seconds.
	DedupDuration prometheus.Histogram

	// ScreeningDecisions counts screening status changes, labeled by the
	// resulting status.
	ScreeningDecisions *prometheus.CounterVec

	// ArticlesRemoved counts articles removed before screening, labeled by
	// the missing field.
	ArticlesRemoved *prometheus.CounterVec

	// PrismaDerivations counts PRISMA count derivations.
	PrismaDerivations prometheus.Counter

	// NetworkBuilds counts bibliometric network graph builds.
	NetworkBuilds prometheus.Counter

	// NetworkBuildDuration observes graph build duration in seconds.
	NetworkBuildDuration prometheus.Histogram

	// NetworkElements observes the number of elements per built graph.
	NetworkElements prometheus.Histogram

	// Exports counts export operations, labeled by format.
	Exports *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Searches
		SearchesStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of article searches started by provider",
		}, []string{"source"}),
		SearchesCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of article searches completed by provider",
		}, []string{"source"}),
		SearchesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of article searches that failed by provider",
		}, []string{"source"}),
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of article searches in seconds by provider",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"source"}),
		ArticlesPerSearch: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "articles_per_search",
			Help:      "Number of articles returned per search by provider",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200, 500},
		}, []string{"source"}),

		// Articles
		ArticlesIdentified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_identified_total",
			Help:      "Total number of articles identified by provider",
		}, []string{"source"}),
		DuplicatesDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_detected_total",
			Help:      "Total number of duplicate articles detected",
		}),
		DedupRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dedup_runs_total",
			Help:      "Total number of duplicate detection runs",
		}),
		DedupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dedup_duration_seconds",
			Help:      "Duration of duplicate detection runs in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),

		// Screening
		ScreeningDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "screening_decisions_total",
			Help:      "Total number of screening decisions by resulting status",
		}, []string{"status"}),
		ArticlesRemoved: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_removed_total",
			Help:      "Total number of articles removed before screening by missing field",
		}, []string{"field"}),

		// Reporting
		PrismaDerivations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prisma_derivations_total",
			Help:      "Total number of PRISMA count derivations",
		}),
		NetworkBuilds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "network_builds_total",
			Help:      "Total number of bibliometric network graph builds",
		}),
		NetworkBuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "network_build_duration_seconds",
			Help:      "Duration of network graph builds in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		NetworkElements: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "network_elements",
			Help:      "Number of elements per built network graph",
			Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000},
		}),
		Exports: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total number of export operations by format",
		}, []string{"format"}),
	}
}

// RecordSearchStarted records that a provider search has started.
func (m *Metrics) RecordSearchStarted(source string) {
	m.SearchesStarted.WithLabelValues(source).Inc()
}

// RecordSearchCompleted records that a provider search has completed.
func (m *Metrics) RecordSearchCompleted(source string, articleCount int, durationSeconds float64) {
	m.SearchesCompleted.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
	m.ArticlesPerSearch.WithLabelValues(source).Observe(float64(articleCount))
}

// RecordSearchFailed records that a provider search has failed.
func (m *Metrics) RecordSearchFailed(source string, durationSeconds float64) {
	m.SearchesFailed.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordArticlesIdentified records articles ingested from a provider.
func (m *Metrics) RecordArticlesIdentified(source string, count int) {
	m.ArticlesIdentified.WithLabelValues(source).Add(float64(count))
}

// RecordDedupRun records a duplicate detection run and its findings.
func (m *Metrics) RecordDedupRun(duplicates int, durationSeconds float64) {
	m.DedupRuns.Inc()
	m.DuplicatesDetected.Add(float64(duplicates))
	m.DedupDuration.Observe(durationSeconds)
}

// RecordScreeningDecision records a screening status change.
func (m *Metrics) RecordScreeningDecision(status string) {
	m.ScreeningDecisions.WithLabelValues(status).Inc()
}

// RecordArticlesRemoved records articles removed for a missing field.
func (m *Metrics) RecordArticlesRemoved(field string, count int) {
	m.ArticlesRemoved.WithLabelValues(field).Add(float64(count))
}

// RecordPrismaDerivation records a PRISMA count derivation.
func (m *Metrics) RecordPrismaDerivation() {
	m.PrismaDerivations.Inc()
}

// RecordNetworkBuild records a network graph build.
func (m *Metrics) RecordNetworkBuild(elements int, durationSeconds float64) {
	m.NetworkBuilds.Inc()
	m.NetworkBuildDuration.Observe(durationSeconds)
	m.NetworkElements.Observe(float64(elements))
}

// RecordExport records an export operation.
func (m *Metrics) RecordExport(format string) {
	m.Exports.WithLabelValues(format).Inc()
}
