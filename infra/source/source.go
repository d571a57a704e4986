// Package source acquires the raw timetable grid the normalizer consumes.
// The publisher re-exports the sheet as a JSON grid; sources fetch and
// decode it without interpreting the schedule itself.
package source

import (
	"context"

	"github.com/akulishov/timegrid/core/factory"
	"github.com/akulishov/timegrid/core/schedule"
)

// Source produces the current raw table on demand. Implementations do the
// I/O; parsing stays in core/schedule.
type Source interface {
	Fetch(ctx context.Context) (schedule.RawTable, error)
}

var registry = factory.NewRegistry[Source]()

// Register adds a source factory identified by name.
func Register(name string, f factory.Factory[Source]) error {
	return registry.Register(name, f)
}

// New creates a Source from the provided configuration.
func New(cfg factory.ModuleConfig) (Source, error) {
	return registry.Create(cfg)
}

func init() {
	_ = Register("http", func(conf map[string]any) (Source, error) {
		var c struct {
			URL       string `json:"url"`
			TimeoutMS int    `json:"timeout_ms"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewHTTPSource(c.URL, c.TimeoutMS)
	})
	_ = Register("file", func(conf map[string]any) (Source, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewFileSource(c.Path)
	})
}
