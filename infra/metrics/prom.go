package metrics

import (
	"strconv"

	coremetrics "github.com/akulishov/timegrid/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records refresh pipeline events in Prometheus metrics.
type PromSink struct {
	refreshes   *prometheus.CounterVec
	failures    prometheus.Counter
	cells       prometheus.Counter
	compactions prometheus.Counter
	classes     prometheus.Gauge
	duration    prometheus.Histogram
}

// NewPromSink registers refresh metrics on the default Prometheus
// registerer. The /metrics server is started separately.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	refreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timegrid_refresh_cycles_total",
		Help: "Total number of completed refresh cycles",
	}, []string{"changed"})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timegrid_parse_failures_total",
		Help: "Refresh attempts abandoned on a malformed source",
	})
	cells := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timegrid_changed_cells_total",
		Help: "Slot-level changes detected across all refresh cycles",
	})
	compactions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timegrid_compactions_total",
		Help: "On-demand consolidations over the rolling change log",
	})
	classes := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timegrid_classes_tracked",
		Help: "Number of classes in the latest snapshot",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timegrid_refresh_duration_seconds",
		Help:    "Time spent fetching, parsing and diffing one refresh",
		Buckets: prometheus.DefBuckets,
	})

	sink := &PromSink{
		refreshes:   refreshes,
		failures:    failures,
		cells:       cells,
		compactions: compactions,
		classes:     classes,
		duration:    duration,
	}
	collectors := []prometheus.Collector{refreshes, failures, cells, compactions, classes, duration}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				sink.refreshes = are.ExistingCollector.(*prometheus.CounterVec)
			case 1:
				sink.failures = are.ExistingCollector.(prometheus.Counter)
			case 2:
				sink.cells = are.ExistingCollector.(prometheus.Counter)
			case 3:
				sink.compactions = are.ExistingCollector.(prometheus.Counter)
			case 4:
				sink.classes = are.ExistingCollector.(prometheus.Gauge)
			case 5:
				sink.duration = are.ExistingCollector.(prometheus.Histogram)
			}
		}
	}
	return sink, nil
}

// RecordRefresh updates the refresh counters, gauge and histogram.
func (s *PromSink) RecordRefresh(res coremetrics.RefreshResult) error {
	s.refreshes.WithLabelValues(strconv.FormatBool(res.Changed)).Inc()
	s.cells.Add(float64(res.ChangedCells))
	s.classes.Set(float64(res.Classes))
	s.duration.Observe(res.Duration.Seconds())
	return nil
}

// RecordParseFailure counts an abandoned refresh attempt.
func (s *PromSink) RecordParseFailure(coremetrics.ParseFailure) error {
	s.failures.Inc()
	return nil
}

// RecordCompaction counts a consolidation request.
func (s *PromSink) RecordCompaction(coremetrics.CompactionEvent) error {
	s.compactions.Inc()
	return nil
}
