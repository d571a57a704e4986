package source

import (
	"context"
	"fmt"
	"os"

	"github.com/akulishov/timegrid/core/schedule"
)

// FileSource reads the grid from a local JSON file. Useful for one-shot CLI
// runs and for replaying captured grids.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the given file path.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("source path is required")
	}
	return &FileSource{path: path}, nil
}

// Fetch reads and decodes the grid file.
func (s *FileSource) Fetch(ctx context.Context) (schedule.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return schedule.RawTable{}, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return schedule.RawTable{}, fmt.Errorf("open grid: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeGrid(f)
}
