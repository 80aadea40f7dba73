package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// PipelineMetrics holds all Prometheus metrics for ingestion and upstream calls.
type PipelineMetrics struct {
	ingestions       *prometheus.CounterVec
	stageLatency     *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	orphanedObjects  *prometheus.CounterVec
	normalizedBytes  prometheus.Histogram
}

// NewPipelineMetrics creates and registers all pipeline metrics on reg.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		ingestions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plant_gallery_ingestions_total",
				Help: "Total number of photo ingestions by outcome and terminal stage",
			},
			[]string{"outcome", "stage"},
		),
		stageLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "plant_gallery_ingestion_stage_seconds",
				Help:    "Latency of each ingestion stage in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage"},
		),
		upstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plant_gallery_upstream_requests_total",
				Help: "Total number of requests to external services by outcome",
			},
			[]string{"service", "outcome"},
		),
		upstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "plant_gallery_upstream_request_seconds",
				Help:    "Latency of requests to external services in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
		orphanedObjects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plant_gallery_orphaned_objects_total",
				Help: "Stored photos left without a database row, by failing stage and whether they were cleaned up",
			},
			[]string{"stage", "cleaned"},
		),
		normalizedBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "plant_gallery_normalized_bytes",
				Help:    "Size of normalized JPEG output in bytes",
				Buckets: prometheus.ExponentialBuckets(32<<10, 2, 8),
			},
		),
	}
}

// RecordIngestion counts a finished ingestion.
func (m *PipelineMetrics) RecordIngestion(outcome, stage string) {
	m.ingestions.WithLabelValues(outcome, stage).Inc()
}

// RecordStage records how long a stage took.
func (m *PipelineMetrics) RecordStage(stage string, d time.Duration) {
	m.stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordUpstream records one call to an external service.
func (m *PipelineMetrics) RecordUpstream(service string, d time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.upstreamRequests.WithLabelValues(service, outcome).Inc()
	m.upstreamLatency.WithLabelValues(service).Observe(d.Seconds())
}

// RecordOrphan counts an object stored without a matching row.
func (m *PipelineMetrics) RecordOrphan(stage string, cleaned bool) {
	label := "false"
	if cleaned {
		label = "true"
	}
	m.orphanedObjects.WithLabelValues(stage, label).Inc()
}

// RecordNormalizedSize records the size of a normalized image.
func (m *PipelineMetrics) RecordNormalizedSize(bytes int) {
	m.normalizedBytes.Observe(float64(bytes))
}
