package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// StageTimings holds latency measurements for one pass through the ingestion pipeline.
type StageTimings struct {
	mu sync.RWMutex

	startTime time.Time
	started   map[string]time.Time
	order     []string

	Filename       string             `json:"filename"`
	TotalLatencyMs float64            `json:"totalLatencyMs"`
	Timings        map[string]float64 `json:"timings"`
	FailedStage    string             `json:"failedStage,omitempty"`
}

// NewStageTimings creates a new collector for one upload.
func NewStageTimings(filename string) *StageTimings {
	return &StageTimings{
		startTime: time.Now(),
		started:   make(map[string]time.Time),
		Filename:  filename,
		Timings:   make(map[string]float64),
	}
}

// Start marks the beginning of stage.
func (m *StageTimings) Start(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started[stage] = time.Now()
}

// End marks the end of stage and returns its duration. Ending a stage that
// was never started is a no-op.
func (m *StageTimings) End(stage string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	start, ok := m.started[stage]
	if !ok {
		return 0
	}
	d := time.Since(start)
	if _, seen := m.Timings[stage]; !seen {
		m.order = append(m.order, stage)
	}
	m.Timings[stage] = float64(d.Microseconds()) / 1000.0
	delete(m.started, stage)
	return d
}

// Fail records the stage the pipeline stopped in.
func (m *StageTimings) Fail(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedStage = stage
}

// Finalize calculates the total latency.
func (m *StageTimings) Finalize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalLatencyMs = float64(time.Since(m.startTime).Microseconds()) / 1000.0
}

// Stages returns the completed stages in the order they finished.
func (m *StageTimings) Stages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// GetHeaders returns HTTP headers with latency metrics.
func (m *StageTimings) GetHeaders() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	headers := make(map[string]string, len(m.Timings)+1)
	headers["X-Latency-Total-Ms"] = formatFloat(m.TotalLatencyMs)
	for stage, ms := range m.Timings {
		headers["X-Latency-"+headerName(stage)+"-Ms"] = formatFloat(ms)
	}
	return headers
}

// String renders the timings for logs, in completion order.
func (m *StageTimings) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	parts := make([]string, 0, len(m.order))
	for _, stage := range m.order {
		parts = append(parts, fmt.Sprintf("%s=%sms", stage, formatFloat(m.Timings[stage])))
	}
	if len(parts) == 0 {
		keys := make([]string, 0, len(m.Timings))
		for k := range m.Timings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%sms", k, formatFloat(m.Timings[k])))
		}
	}
	return fmt.Sprintf("total=%sms %s", formatFloat(m.TotalLatencyMs), strings.Join(parts, " "))
}

// headerName turns "enriching_location" into "Enriching-Location".
func headerName(stage string) string {
	words := strings.FieldsFunc(stage, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, "-")
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
