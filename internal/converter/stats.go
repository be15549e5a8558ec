package converter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Statistics aggregates conversion outcomes across one or more runs. Each
// report carries a unique ID so batch tooling can correlate exported
// reports with their runs.
type Statistics struct {
	ReportID        string    `json:"report_id"`
	InputSizeBytes  int64     `json:"input_size_bytes"`
	OutputSizeBytes int64     `json:"output_size_bytes"`
	TokenReduction  float64   `json:"token_reduction_percent"`
	ProcessingTime  int64     `json:"processing_time_ms"`
	OperationCount  int       `json:"operation_count"`
	FailureCount    int       `json:"failure_count"`
	CollectedAt     time.Time `json:"collected_at"`
}

// NewStatistics returns an empty statistics record with a fresh report ID.
func NewStatistics() *Statistics {
	return &Statistics{
		ReportID:    uuid.NewString(),
		CollectedAt: time.Now().UTC(),
	}
}

// Record folds one conversion result into the statistics.
func (s *Statistics) Record(res *Result) {
	s.InputSizeBytes += res.Metadata.InputSize
	s.OutputSizeBytes += res.Metadata.OutputSize
	s.ProcessingTime += res.Metadata.Duration.Milliseconds()
	s.OperationCount++
	s.TokenReduction = tokenReduction(s.InputSizeBytes, s.OutputSizeBytes)
}

// RecordFailure counts a conversion that produced no output.
func (s *Statistics) RecordFailure() {
	s.OperationCount++
	s.FailureCount++
}

// Combine merges another statistics record into this one. The report ID
// and collection time of the receiver are kept.
func (s *Statistics) Combine(other *Statistics) {
	s.InputSizeBytes += other.InputSizeBytes
	s.OutputSizeBytes += other.OutputSizeBytes
	s.ProcessingTime += other.ProcessingTime
	s.OperationCount += other.OperationCount
	s.FailureCount += other.FailureCount
	s.TokenReduction = tokenReduction(s.InputSizeBytes, s.OutputSizeBytes)
}

// AvgTimePerOperation returns the mean conversion time in milliseconds.
func (s *Statistics) AvgTimePerOperation() float64 {
	if s.OperationCount == 0 {
		return 0
	}
	return float64(s.ProcessingTime) / float64(s.OperationCount)
}

// Throughput returns processed input bytes per second.
func (s *Statistics) Throughput() float64 {
	if s.ProcessingTime == 0 {
		return 0
	}
	return float64(s.InputSizeBytes) / (float64(s.ProcessingTime) / 1000)
}

// Summary renders a one-paragraph human-readable report.
func (s *Statistics) Summary() string {
	return fmt.Sprintf(
		"report %s: %d operation(s), %d failed, %d -> %d bytes (%.1f%% reduction), %dms total, %.1f KB/s",
		s.ReportID, s.OperationCount, s.FailureCount,
		s.InputSizeBytes, s.OutputSizeBytes, s.TokenReduction,
		s.ProcessingTime, s.Throughput()/1024,
	)
}

// ToJSON exports the statistics as indented JSON.
func (s *Statistics) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
