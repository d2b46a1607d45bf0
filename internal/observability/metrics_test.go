package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: prometheus/promauto registers metrics globally, so we need to use
// unique namespaces per test to avoid registration conflicts.

func TestNewMetrics(t *testing.T) {
	m := NewMetrics("test_results_new")

	assert.NotNil(t, m.RecordsScanned)
	assert.NotNil(t, m.DuplicatesMerged)
	assert.NotNil(t, m.RacesReassigned)
	assert.NotNil(t, m.ParticipantsDeleted)
	assert.NotNil(t, m.GenderRepairs)
	assert.NotNil(t, m.MergeRuns)
	assert.NotNil(t, m.ScrapeRequestsTotal)
	assert.NotNil(t, m.ComparisonsServed)
	assert.NotNil(t, m.HTTPRequestDuration)
}

func TestRecordMergeApplied(t *testing.T) {
	m := NewMetrics("test_results_merge_applied")

	m.RecordMergeApplied(3, 12, 3)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.DuplicatesMerged))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.RacesReassigned))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ParticipantsDeleted))
}

func TestRecordMergeRun(t *testing.T) {
	m := NewMetrics("test_results_merge_run")

	m.RecordMergeRun("preview", 0.2)
	m.RecordMergeRun("execute", 1.5)
	m.RecordMergeRun("execute", 0.7)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MergeRuns.WithLabelValues("preview")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MergeRuns.WithLabelValues("execute")))

	var hist dto.Metric
	require.NoError(t, m.MergeDuration.Write(&hist))
	assert.Equal(t, uint64(3), hist.GetHistogram().GetSampleCount())
}

func TestRecordScrapeRequest(t *testing.T) {
	m := NewMetrics("test_results_scrape")

	m.RecordScrapeRequest("success", 0.4)
	m.RecordScrapeRequest("error", 0.1)
	m.RecordScrapeRecordsParsed("2023-2024", 150)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScrapeRequestsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScrapeRequestsTotal.WithLabelValues("error")))
	assert.Equal(t, 150.0, testutil.ToFloat64(m.ScrapeRecordsParsed.WithLabelValues("2023-2024")))
}

func TestRecordComparison(t *testing.T) {
	m := NewMetrics("test_results_comparison")

	m.RecordComparison(5)
	m.RecordComparison(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ComparisonsServed))
}

func TestRecordGenderRepairs(t *testing.T) {
	m := NewMetrics("test_results_gender")

	m.RecordGenderRepairs(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.GenderRepairs))
}
