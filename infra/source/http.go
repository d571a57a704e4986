package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/akulishov/timegrid/core/schedule"
	"github.com/akulishov/timegrid/infra/logger"
)

const defaultTimeoutMS = 10000

// HTTPSource fetches the published grid over HTTP.
type HTTPSource struct {
	url    string
	client *http.Client
	log    logger.Logger
}

// NewHTTPSource creates a source for the given grid URL.
func NewHTTPSource(url string, timeoutMS int) (*HTTPSource, error) {
	if url == "" {
		return nil, fmt.Errorf("source url is required")
	}
	if timeoutMS <= 0 {
		timeoutMS = defaultTimeoutMS
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: time.Duration(timeoutMS) * time.Millisecond},
		log:    logger.New("http_source"),
	}, nil
}

// Fetch downloads and decodes the grid.
func (s *HTTPSource) Fetch(ctx context.Context) (schedule.RawTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return schedule.RawTable{}, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return schedule.RawTable{}, fmt.Errorf("fetch grid: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return schedule.RawTable{}, fmt.Errorf("fetch grid: unexpected status %s", resp.Status)
	}
	table, err := DecodeGrid(resp.Body)
	if err != nil {
		return schedule.RawTable{}, err
	}
	s.log.Debugw("grid fetched", map[string]any{"rows": len(table.Rows)})
	return table, nil
}
