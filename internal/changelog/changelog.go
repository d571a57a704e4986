// Package changelog holds the bounded rolling log of diff batches produced
// by successive refresh cycles. The refresh driver is the single writer;
// consolidation reads a contiguous suffix under a read lock and never
// mutates stored batches.
package changelog

import (
	"sync"
	"time"

	"github.com/akulishov/timegrid/core/diff"
)

// DefaultCapacity bounds the log when no capacity is configured.
const DefaultCapacity = 64

// Log is a fixed-capacity append-only ring of diff batches, oldest evicted
// first.
type Log struct {
	mu       sync.RWMutex
	capacity int
	batches  []diff.Batch
}

// New creates a Log with the given capacity; non-positive values fall back
// to DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Append adds a batch, evicting the oldest when full. Batches must arrive
// in time order; the log does not reorder.
func (l *Log) Append(b diff.Batch) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.batches) == l.capacity {
		copy(l.batches, l.batches[1:])
		l.batches = l.batches[:len(l.batches)-1]
	}
	l.batches = append(l.batches, b)
}

// Len returns the number of retained batches.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.batches)
}

// Since returns the contiguous suffix of batches whose window ends after t.
// The returned slice is a copy; stored batches are shared and must not be
// mutated by callers.
func (l *Log) Since(t time.Time) []diff.Batch {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := len(l.batches)
	for i > 0 && l.batches[i-1].End.After(t) {
		i--
	}
	out := make([]diff.Batch, len(l.batches)-i)
	copy(out, l.batches[i:])
	return out
}

// All returns a copy of every retained batch, oldest first.
func (l *Log) All() []diff.Batch {
	return l.Since(time.Time{})
}
