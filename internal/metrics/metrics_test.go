package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageTimings(t *testing.T) {
	m := NewStageTimings("fern.jpg")
	m.Start("normalizing")
	m.End("normalizing")
	m.Start("uploading")
	m.End("uploading")
	assert.Zero(t, m.End("persisting"))
	m.Finalize()

	assert.Equal(t, []string{"normalizing", "uploading"}, m.Stages())

	headers := m.GetHeaders()
	assert.Contains(t, headers, "X-Latency-Total-Ms")
	assert.Contains(t, headers, "X-Latency-Normalizing-Ms")
	assert.Contains(t, headers, "X-Latency-Uploading-Ms")
	assert.NotContains(t, headers, "X-Latency-Persisting-Ms")

	assert.True(t, strings.HasPrefix(m.String(), "total="))
	assert.Contains(t, m.String(), "normalizing=")
}

func TestHeaderName(t *testing.T) {
	assert.Equal(t, "Enriching-Location", headerName("enriching_location"))
	assert.Equal(t, "Recognizing", headerName("recognizing"))
}

func TestImportSummary(t *testing.T) {
	s := NewImportSummary()
	s.Succeeded(1 << 20)
	s.Succeeded(1 << 20)
	s.Failed("broken.jpg", errors.New("decoding image"))
	s.Skipped()
	s.Finalize()

	assert.Equal(t, 4, s.EntryCount)
	summary := s.GetSummary()
	assert.Contains(t, summary, "4 entries, 2 ingested (66.67% success), 1 failed, 1 skipped")
	assert.Contains(t, summary, "Total Size: 2.00 MB")
	assert.Contains(t, summary, "failed broken.jpg: decoding image")
}

func TestImportSummaryEmpty(t *testing.T) {
	s := NewImportSummary()
	s.Finalize()
	assert.Contains(t, s.GetSummary(), "0 entries, 0 ingested (0.00% success)")
}

func TestPipelineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPipelineMetrics(reg)

	m.RecordIngestion(OutcomeSuccess, "done")
	m.RecordIngestion(OutcomeFailure, "recognizing")
	m.RecordIngestion(OutcomeFailure, "recognizing")
	m.RecordUpstream("plantnet", 200*time.Millisecond, nil)
	m.RecordUpstream("plantnet", time.Second, errors.New("boom"))
	m.RecordOrphan("recognizing", false)
	m.RecordStage("normalizing", 30*time.Millisecond)
	m.RecordNormalizedSize(400 << 10)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ingestions.WithLabelValues(OutcomeSuccess, "done")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ingestions.WithLabelValues(OutcomeFailure, "recognizing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("plantnet", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orphanedObjects.WithLabelValues("recognizing", "false")))

	count, err := testutil.GatherAndCount(reg, "plant_gallery_ingestion_stage_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
