package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the results service, grouped
// by subsystem: merge pipeline, scraper and HTTP queries. Everything is
// registered via promauto against the default Prometheus registry.
type Metrics struct {
	// RecordsScanned counts participant records read by merge/import runs.
	RecordsScanned prometheus.Counter

	// DuplicatesMerged counts participant records absorbed into a keeper.
	DuplicatesMerged prometheus.Counter

	// RacesReassigned counts race rows moved onto a keeper during merges.
	RacesReassigned prometheus.Counter

	// ParticipantsDeleted counts absorbed participant rows deleted.
	ParticipantsDeleted prometheus.Counter

	// GenderRepairs counts records moved across gender buckets by the
	// consistency repair pass.
	GenderRepairs prometheus.Counter

	// MergeRuns counts merge executions by mode ("preview", "execute").
	MergeRuns *prometheus.CounterVec

	// MergeDuration observes end-to-end merge run duration in seconds.
	MergeDuration prometheus.Histogram

	// ScrapeRequestsTotal counts fetches against the results site by outcome.
	ScrapeRequestsTotal *prometheus.CounterVec

	// ScrapeRequestDuration observes fetch duration in seconds.
	ScrapeRequestDuration prometheus.Histogram

	// ScrapeRecordsParsed counts participant records extracted, labeled by season.
	ScrapeRecordsParsed *prometheus.CounterVec

	// ComparisonsServed counts comparison queries answered.
	ComparisonsServed prometheus.Counter

	// ComparisonRows observes the number of shared races per comparison.
	ComparisonRows prometheus.Histogram

	// HTTPRequestDuration observes request duration by route and status.
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RecordsScanned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_scanned_total",
			Help:      "Total number of participant records scanned",
		}),
		DuplicatesMerged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_merged_total",
			Help:      "Total number of duplicate participant records merged",
		}),
		RacesReassigned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "races_reassigned_total",
			Help:      "Total number of races reassigned to a keeper participant",
		}),
		ParticipantsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "participants_deleted_total",
			Help:      "Total number of absorbed participant rows deleted",
		}),
		GenderRepairs: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gender_repairs_total",
			Help:      "Total number of records moved across gender buckets",
		}),
		MergeRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_runs_total",
			Help:      "Total number of merge runs by mode",
		}, []string{"mode"}),
		MergeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merge_duration_seconds",
			Help:      "Duration of merge runs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),

		ScrapeRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrape_requests_total",
			Help:      "Total number of fetches against the results site",
		}, []string{"outcome"}),
		ScrapeRequestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_request_duration_seconds",
			Help:      "Duration of results-site fetches in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ScrapeRecordsParsed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrape_records_parsed_total",
			Help:      "Total number of participant records extracted by season",
		}, []string{"season"}),

		ComparisonsServed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_served_total",
			Help:      "Total number of comparison queries answered",
		}),
		ComparisonRows: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "comparison_rows",
			Help:      "Number of shared races per comparison",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),
	}
}

// RecordMergeRun records one merge run with its duration.
func (m *Metrics) RecordMergeRun(mode string, durationSeconds float64) {
	m.MergeRuns.WithLabelValues(mode).Inc()
	m.MergeDuration.Observe(durationSeconds)
}

// RecordMergeApplied records the counts from an executed merge plan.
func (m *Metrics) RecordMergeApplied(duplicates int, racesReassigned int64, participantsDeleted int) {
	m.DuplicatesMerged.Add(float64(duplicates))
	m.RacesReassigned.Add(float64(racesReassigned))
	m.ParticipantsDeleted.Add(float64(participantsDeleted))
}

// RecordRecordsScanned records participant records read during a batch run.
func (m *Metrics) RecordRecordsScanned(count int) {
	m.RecordsScanned.Add(float64(count))
}

// RecordGenderRepairs records records moved by the consistency repair pass.
func (m *Metrics) RecordGenderRepairs(count int) {
	m.GenderRepairs.Add(float64(count))
}

// RecordScrapeRequest records one fetch against the results site.
func (m *Metrics) RecordScrapeRequest(outcome string, durationSeconds float64) {
	m.ScrapeRequestsTotal.WithLabelValues(outcome).Inc()
	m.ScrapeRequestDuration.Observe(durationSeconds)
}

// RecordScrapeRecordsParsed records extracted records for a season.
func (m *Metrics) RecordScrapeRecordsParsed(season string, count int) {
	m.ScrapeRecordsParsed.WithLabelValues(season).Add(float64(count))
}

// RecordComparison records one comparison query and its row count.
func (m *Metrics) RecordComparison(rows int) {
	m.ComparisonsServed.Inc()
	m.ComparisonRows.Observe(float64(rows))
}

// RecordHTTPRequest records one HTTP request.
func (m *Metrics) RecordHTTPRequest(route, status string, durationSeconds float64) {
	m.HTTPRequestDuration.WithLabelValues(route, status).Observe(durationSeconds)
}
