package metrics

import "github.com/akulishov/timegrid/core/factory"

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewMetricsSink creates a MetricsSink from the provided configuration.
// No sinks configured yields a NopSink; several yield a fan-out.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]MetricsSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}

// MultiSink fans records out to several sinks, returning the first error.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRefresh forwards the refresh result to all sinks.
func (m *MultiSink) RecordRefresh(res RefreshResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordRefresh(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordParseFailure forwards the failure to sinks that support it.
func (m *MultiSink) RecordParseFailure(ev ParseFailure) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ParseFailureRecorder); ok {
			if err := rec.RecordParseFailure(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordCompaction forwards the consolidation event to sinks that support it.
func (m *MultiSink) RecordCompaction(ev CompactionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(CompactionRecorder); ok {
			if err := rec.RecordCompaction(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
