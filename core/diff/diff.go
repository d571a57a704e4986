// Package diff compares schedule snapshots and consolidates the resulting
// change batches over time windows.
package diff

import (
	"sort"
	"time"

	"github.com/akulishov/timegrid/core/schedule"
)

// ChangeCell records what one slot position changed from and to. Either side
// may be the empty lesson (a slot appearing or disappearing).
type ChangeCell struct {
	Prev schedule.Lesson
	Next schedule.Lesson
}

// Equal compares both sides structurally.
func (c ChangeCell) Equal(o ChangeCell) bool {
	return c.Prev.Equal(o.Prev) && c.Next.Equal(o.Next)
}

// ChangeRow holds one cell per slot position; a nil cell means the position
// did not change.
type ChangeRow [schedule.SlotsPerDay]*ChangeCell

// IsZero reports whether no position in the row changed.
func (r ChangeRow) IsZero() bool {
	for _, c := range r {
		if c != nil {
			return false
		}
	}
	return true
}

// Batch is the set of changes between two snapshots, or a consolidation of
// several such sets, over the [Start, End] window. A class absent from a
// day's map had no changes that day.
type Batch struct {
	Start time.Time
	End   time.Time
	Days  [schedule.DaysPerWeek]map[string]ChangeRow
}

// Empty reports whether the batch records no change at all.
func (b Batch) Empty() bool {
	for d := range b.Days {
		if len(b.Days[d]) > 0 {
			return false
		}
	}
	return true
}

// ChangedCells counts the non-nil cells across the whole batch.
func (b Batch) ChangedCells() int {
	n := 0
	for d := range b.Days {
		for _, row := range b.Days[d] {
			for _, c := range row {
				if c != nil {
					n++
				}
			}
		}
	}
	return n
}

// Compute diffs two snapshots. Only classes present in both are compared; a
// class that newly appeared generates no entries (see NewClasses for the
// explicit signal). Days whose canonical content matches are skipped
// outright: the day key and slot equality derive from the same canonical
// form, so a key match implies slot-by-slot equality.
func Compute(prev, cur *schedule.Snapshot) Batch {
	b := Batch{Start: prev.CapturedAt, End: cur.CapturedAt}
	for class, prevWeek := range prev.Classes {
		curWeek, ok := cur.Classes[class]
		if !ok {
			continue
		}
		for day := 0; day < schedule.DaysPerWeek; day++ {
			pd, cd := prevWeek[day], curWeek[day]
			if pd.Key() == cd.Key() {
				continue
			}
			row, changed := diffDay(pd, cd)
			if !changed {
				continue
			}
			if b.Days[day] == nil {
				b.Days[day] = make(map[string]ChangeRow)
			}
			b.Days[day][class] = row
		}
	}
	return b
}

func diffDay(prev, cur schedule.DaySchedule) (ChangeRow, bool) {
	var row ChangeRow
	changed := false
	n := len(prev)
	if len(cur) > n {
		n = len(cur)
	}
	for slot := 0; slot < n && slot < schedule.SlotsPerDay; slot++ {
		p, c := prev.Slot(slot), cur.Slot(slot)
		if p.Equal(c) {
			continue
		}
		row[slot] = &ChangeCell{Prev: p, Next: c}
		changed = true
	}
	return row, changed
}

// NewClasses lists classes present in cur but not in prev, sorted. Diffing
// deliberately skips them, so callers wanting to announce a brand-new class
// use this signal instead.
func NewClasses(prev, cur *schedule.Snapshot) []string {
	var out []string
	for class := range cur.Classes {
		if _, ok := prev.Classes[class]; !ok {
			out = append(out, class)
		}
	}
	sort.Strings(out)
	return out
}
