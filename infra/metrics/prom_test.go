package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/akulishov/timegrid/core/metrics"
)

func TestPromSink_RecordRefresh(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink, ok := sinkIf.(*PromSink)
	if !ok {
		t.Fatalf("expected PromSink")
	}
	res := coremetrics.RefreshResult{
		RefreshID:    "r1",
		Classes:      14,
		ChangedCells: 3,
		Changed:      true,
		Duration:     120 * time.Millisecond,
		CapturedAt:   time.Now(),
	}
	if err := sink.RecordRefresh(res); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP timegrid_refresh_cycles_total Total number of completed refresh cycles
# TYPE timegrid_refresh_cycles_total counter
timegrid_refresh_cycles_total{changed="true"} 1
`
	if err := testutil.CollectAndCompare(sink.refreshes, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if got := testutil.ToFloat64(sink.classes); got != 14 {
		t.Errorf("classes gauge = %v, want 14", got)
	}
	if got := testutil.ToFloat64(sink.cells); got != 3 {
		t.Errorf("cells counter = %v, want 3", got)
	}
}

func TestPromSink_FailuresAndCompactions(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink := sinkIf.(*PromSink)
	if err := sink.RecordParseFailure(coremetrics.ParseFailure{Reason: "bad header"}); err != nil {
		t.Fatalf("failure: %v", err)
	}
	if err := sink.RecordCompaction(coremetrics.CompactionEvent{Batches: 4}); err != nil {
		t.Fatalf("compaction: %v", err)
	}
	if got := testutil.ToFloat64(sink.failures); got != 1 {
		t.Errorf("failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(sink.compactions); got != 1 {
		t.Errorf("compactions = %v, want 1", got)
	}
}
