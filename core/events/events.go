// Package events defines the refresh lifecycle events emitted on the event
// bus.
//
// Available event types:
//   - RefreshCompleted: a refresh cycle parsed a new snapshot and diffed it
//   - ClassesAppeared: classes present in the new snapshot only
//   - SourceFailed: the raw table could not be fetched or parsed
package events

import (
	"time"

	"github.com/akulishov/timegrid/core/diff"
)

// RefreshCompleted is published after every successful refresh cycle,
// whether or not the schedule changed.
type RefreshCompleted struct {
	RefreshID    string
	Fingerprint  string
	CapturedAt   time.Time
	Classes      int
	ChangedCells int
	Batch        diff.Batch
}

// ClassesAppeared is published when the diff step skipped classes that exist
// only in the new snapshot. Consumers decide whether to announce them.
type ClassesAppeared struct {
	RefreshID string
	Classes   []string
}

// SourceFailed is published when a refresh attempt is abandoned. The
// previously retained snapshot stays in effect.
type SourceFailed struct {
	RefreshID string
	Err       error
	Time      time.Time
}
