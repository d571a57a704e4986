package metrics

import "github.com/akulishov/timegrid/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr, when non-empty, starts the /metrics HTTP server.
	PrometheusAddr string `json:"prometheus_addr"`
}
