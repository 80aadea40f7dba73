package metrics

import (
	"fmt"
	"time"
)

// ImportSummary tracks the outcome of a bulk archive import.
type ImportSummary struct {
	StartTime      time.Time `json:"-"`
	TotalLatencyMs float64   `json:"totalLatencyMs"`
	EntryCount     int       `json:"entryCount"`
	SuccessCount   int       `json:"successCount"`
	FailedCount    int       `json:"failedCount"`
	SkippedCount   int       `json:"skippedCount"`
	TotalSize      int64     `json:"totalSize"`
	Failures       []string  `json:"failures,omitempty"`
}

func NewImportSummary() *ImportSummary {
	return &ImportSummary{StartTime: time.Now()}
}

func (s *ImportSummary) Succeeded(size int64) {
	s.EntryCount++
	s.SuccessCount++
	s.TotalSize += size
}

func (s *ImportSummary) Failed(name string, err error) {
	s.EntryCount++
	s.FailedCount++
	s.Failures = append(s.Failures, fmt.Sprintf("%s: %v", name, err))
}

func (s *ImportSummary) Skipped() {
	s.EntryCount++
	s.SkippedCount++
}

func (s *ImportSummary) Finalize() {
	s.TotalLatencyMs = float64(time.Since(s.StartTime).Microseconds()) / 1000.0
}

// GetSummary returns a human-readable summary of the import.
func (s *ImportSummary) GetSummary() string {
	attempted := s.SuccessCount + s.FailedCount
	successRate := 0.0
	if attempted > 0 {
		successRate = float64(s.SuccessCount) / float64(attempted) * 100
	}

	summary := fmt.Sprintf(
		"Import Summary: %d entries, %d ingested (%.2f%% success), %d failed, %d skipped, Total Size: %.2f MB, Duration: %.2f ms",
		s.EntryCount, s.SuccessCount, successRate, s.FailedCount, s.SkippedCount,
		float64(s.TotalSize)/(1024*1024), s.TotalLatencyMs,
	)
	for _, f := range s.Failures {
		summary += "\n  failed " + f
	}
	return summary
}
