// Package infra groups the adapters that connect the schedule core to the
// outside world: logging, metrics sinks, the notification publisher and the
// raw table sources.
package infra
