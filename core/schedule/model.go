package schedule

import (
	"strings"
	"time"
)

const (
	// SlotsPerDay is the fixed number of lesson positions within one day.
	SlotsPerDay = 8
	// DaysPerWeek covers Monday through Saturday.
	DaysPerWeek = 6
)

// RoomUnspecified is the sentinel room designator used when a non-empty
// subject cell has no readable room next to it.
const RoomUnspecified = "unspecified"

// Lesson is one slot of a class's day. The zero value represents an empty
// slot (a free period, or no data past the trimmed tail of a day).
type Lesson struct {
	Subject string
	Rooms   []string // multiple rooms mean the class splits into subgroups
}

// IsEmpty reports whether the slot carries no lesson.
func (l Lesson) IsEmpty() bool { return l.Subject == "" }

// Equal compares subject and the ordered room list.
func (l Lesson) Equal(o Lesson) bool {
	if l.Subject != o.Subject || len(l.Rooms) != len(o.Rooms) {
		return false
	}
	for i := range l.Rooms {
		if l.Rooms[i] != o.Rooms[i] {
			return false
		}
	}
	return true
}

// Key renders the lesson in its canonical string form. Empty slots render
// as the empty string. The rendering is what fingerprints are computed over,
// so it must stay order-sensitive in the room list.
func (l Lesson) Key() string {
	if l.IsEmpty() {
		return ""
	}
	return l.Subject + "@" + strings.Join(l.Rooms, "/")
}

// DaySchedule is the ordered slot sequence of one class on one weekday.
// Trailing empty slots are trimmed at parse time; empty slots in the middle
// are real free periods and are kept.
type DaySchedule []Lesson

// Slot returns the lesson at position i, reading positions past the trimmed
// length as empty.
func (d DaySchedule) Slot(i int) Lesson {
	if i < 0 || i >= len(d) {
		return Lesson{}
	}
	return d[i]
}

// Key joins the canonical slot strings of the day. Two days with equal keys
// are slot-by-slot equal.
func (d DaySchedule) Key() string {
	parts := make([]string, len(d))
	for i, l := range d {
		parts[i] = l.Key()
	}
	return strings.Join(parts, ";")
}

func (d DaySchedule) trimTrailingEmpty() DaySchedule {
	n := len(d)
	for n > 0 && d[n-1].IsEmpty() {
		n--
	}
	return d[:n]
}

// ClassWeek holds one DaySchedule per weekday, Monday first.
type ClassWeek [DaysPerWeek]DaySchedule

// Snapshot is one fully parsed, immutable version of the whole timetable.
// A new refresh cycle produces a new Snapshot; nothing mutates an old one.
type Snapshot struct {
	Classes     map[string]ClassWeek
	Fingerprint string
	CapturedAt  time.Time
}

// Week returns the week of the given class and whether the class exists.
func (s *Snapshot) Week(class string) (ClassWeek, bool) {
	w, ok := s.Classes[class]
	return w, ok
}

// ClassNames returns the class identifiers present in the snapshot,
// in unspecified order.
func (s *Snapshot) ClassNames() []string {
	names := make([]string, 0, len(s.Classes))
	for c := range s.Classes {
		names = append(names, c)
	}
	return names
}
