// Package notify defines the outbound change-notification port. The refresh
// driver hands consolidated change summaries to a Publisher; delivery
// details (broker, topic layout, encoding) live in the infra adapters.
package notify

import "time"

// ChangeNotice is the per-class summary published after a refresh that
// detected changes.
type ChangeNotice struct {
	RefreshID    string    `json:"refresh_id"`
	Class        string    `json:"class"`
	Days         []int     `json:"days"` // weekday indices touched, Monday = 0
	ChangedCells int       `json:"changed_cells"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
}

// Publisher delivers change notices to subscribed consumers.
type Publisher interface {
	PublishChange(notice ChangeNotice) error
	Close() error
}

// NopPublisher drops every notice.
type NopPublisher struct{}

func (NopPublisher) PublishChange(ChangeNotice) error { return nil }
func (NopPublisher) Close() error                     { return nil }
