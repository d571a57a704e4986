// Package index builds reverse lookup tables over a schedule snapshot:
// from a subject (or a room designator) to every weekday, class and slot
// position where it occurs. Indices are rebuilt wholesale from the latest
// snapshot; there is no incremental update path.
package index

import (
	"github.com/akulishov/timegrid/core/schedule"
)

// Kind selects the primary key of the index.
type Kind int

const (
	// BySubject keys the index on subject names; rooms become the
	// secondary key.
	BySubject Kind = iota
	// ByRoom keys the index on room designators; subjects become the
	// secondary key.
	ByRoom
)

// WeekOccurrences maps, per weekday, secondary key -> class -> slot
// positions. The day dimension is fixed at construction so the weekly shape
// is an enforced invariant, not an emergent one.
type WeekOccurrences [schedule.DaysPerWeek]map[string]map[string][]int

// Index maps the primary key (subject or room, per Kind) to its weekly
// occurrences. Read-only after Build returns.
type Index map[string]*WeekOccurrences

// Build walks the snapshot once. A slot listing k rooms contributes k
// entries sharing the same subject and slot position; that is how subgroup
// splits surface in lookups.
func Build(snap *schedule.Snapshot, kind Kind) Index {
	b := newBuilder()
	for class, week := range snap.Classes {
		for day := range week {
			for slot, lesson := range week[day] {
				if lesson.IsEmpty() {
					continue
				}
				for _, room := range lesson.Rooms {
					primary, secondary := lesson.Subject, room
					if kind == ByRoom {
						primary, secondary = room, lesson.Subject
					}
					b.add(primary, day, secondary, class, slot)
				}
			}
		}
	}
	return b.index
}

// builder pre-sizes the fixed day dimension for every primary key it sees.
type builder struct {
	index Index
}

func newBuilder() *builder {
	return &builder{index: make(Index)}
}

func (b *builder) add(primary string, day int, secondary, class string, slot int) {
	week := b.index[primary]
	if week == nil {
		week = &WeekOccurrences{}
		for d := range week {
			week[d] = make(map[string]map[string][]int)
		}
		b.index[primary] = week
	}
	classes := week[day][secondary]
	if classes == nil {
		classes = make(map[string][]int)
		week[day][secondary] = classes
	}
	classes[class] = append(classes[class], slot)
}

// Lookup returns the per-day occurrences for a primary key, or nil if the
// key never occurs in the indexed snapshot.
func (i Index) Lookup(primary string) *WeekOccurrences {
	return i[schedule.NormalizeText(primary)]
}
