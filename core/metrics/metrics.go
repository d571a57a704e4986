// Package metrics defines the observability events of the refresh pipeline
// and the sink interfaces infra adapters implement. The core transformation
// packages record nothing themselves; the refresh driver feeds sinks.
package metrics

import "time"

// RefreshResult summarizes one refresh cycle.
type RefreshResult struct {
	RefreshID    string
	Fingerprint  string
	CapturedAt   time.Time
	Duration     time.Duration
	Classes      int
	ChangedCells int
	Changed      bool
}

// MetricsSink records refresh results for observability purposes.
type MetricsSink interface {
	RecordRefresh(res RefreshResult) error
}

// ParseFailure captures an abandoned refresh attempt.
type ParseFailure struct {
	RefreshID string
	Reason    string
	Time      time.Time
}

// ParseFailureRecorder records abandoned refresh attempts.
type ParseFailureRecorder interface {
	RecordParseFailure(ev ParseFailure) error
}

// CompactionEvent captures an on-demand consolidation over the rolling log.
type CompactionEvent struct {
	Batches      int
	ChangedCells int
	WindowStart  time.Time
	WindowEnd    time.Time
	Time         time.Time
}

// CompactionRecorder records consolidation requests.
type CompactionRecorder interface {
	RecordCompaction(ev CompactionEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRefresh(RefreshResult) error      { return nil }
func (NopSink) RecordParseFailure(ParseFailure) error  { return nil }
func (NopSink) RecordCompaction(CompactionEvent) error { return nil }
