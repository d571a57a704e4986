// Package export renders snapshots and change batches in JSON and CSV for
// external consumers. Downstream collaborators (bots, facades, storage) may
// pick either encoding; the core types themselves stay encoding-agnostic.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/akulishov/timegrid/core/diff"
	"github.com/akulishov/timegrid/core/schedule"
)

// LessonDoc is the serializable form of a lesson slot; nil marks an empty
// slot.
type LessonDoc struct {
	Subject string   `json:"subject"`
	Rooms   []string `json:"rooms"`
}

// SnapshotDoc is the serializable form of a snapshot.
type SnapshotDoc struct {
	CapturedAt  time.Time                 `json:"captured_at"`
	Fingerprint string                    `json:"fingerprint"`
	Classes     map[string][][]*LessonDoc `json:"classes"`
}

// ChangeDoc is one changed slot in a batch.
type ChangeDoc struct {
	Day   int        `json:"day"`
	Class string     `json:"class"`
	Slot  int        `json:"slot"`
	Prev  *LessonDoc `json:"prev"`
	Next  *LessonDoc `json:"next"`
}

// BatchDoc is the serializable form of a change batch.
type BatchDoc struct {
	Start   time.Time   `json:"window_start"`
	End     time.Time   `json:"window_end"`
	Changes []ChangeDoc `json:"changes"`
}

func lessonDoc(l schedule.Lesson) *LessonDoc {
	if l.IsEmpty() {
		return nil
	}
	return &LessonDoc{Subject: l.Subject, Rooms: l.Rooms}
}

// NewSnapshotDoc converts a snapshot into its serializable form.
func NewSnapshotDoc(snap *schedule.Snapshot) SnapshotDoc {
	doc := SnapshotDoc{
		CapturedAt:  snap.CapturedAt,
		Fingerprint: snap.Fingerprint,
		Classes:     make(map[string][][]*LessonDoc, len(snap.Classes)),
	}
	for class, week := range snap.Classes {
		days := make([][]*LessonDoc, schedule.DaysPerWeek)
		for d := range week {
			day := make([]*LessonDoc, len(week[d]))
			for i, l := range week[d] {
				day[i] = lessonDoc(l)
			}
			days[d] = day
		}
		doc.Classes[class] = days
	}
	return doc
}

// NewBatchDoc converts a batch into its serializable form, changes ordered
// by day, class, slot.
func NewBatchDoc(b diff.Batch) BatchDoc {
	doc := BatchDoc{Start: b.Start, End: b.End, Changes: []ChangeDoc{}}
	for d := range b.Days {
		classes := make([]string, 0, len(b.Days[d]))
		for class := range b.Days[d] {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		for _, class := range classes {
			row := b.Days[d][class]
			for slot, c := range row {
				if c == nil {
					continue
				}
				doc.Changes = append(doc.Changes, ChangeDoc{
					Day:   d,
					Class: class,
					Slot:  slot,
					Prev:  lessonDoc(c.Prev),
					Next:  lessonDoc(c.Next),
				})
			}
		}
	}
	return doc
}

// WriteSnapshotJSON writes the snapshot to w in JSON format.
func WriteSnapshotJSON(w io.Writer, snap *schedule.Snapshot) error {
	enc := json.NewEncoder(w)
	return enc.Encode(NewSnapshotDoc(snap))
}

// WriteBatchJSON writes the change batch to w in JSON format.
func WriteBatchJSON(w io.Writer, b diff.Batch) error {
	enc := json.NewEncoder(w)
	return enc.Encode(NewBatchDoc(b))
}

// WriteSnapshotCSV writes the snapshot to w as flat class/day/slot records.
func WriteSnapshotCSV(w io.Writer, snap *schedule.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"class", "day", "slot", "subject", "rooms"}); err != nil {
		return err
	}
	classes := make([]string, 0, len(snap.Classes))
	for class := range snap.Classes {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		week := snap.Classes[class]
		for d := range week {
			for slot, l := range week[d] {
				if l.IsEmpty() {
					continue
				}
				rec := []string{
					class,
					strconv.Itoa(d),
					strconv.Itoa(slot),
					l.Subject,
					strings.Join(l.Rooms, "/"),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBatchCSV writes the change batch to w as flat records.
func WriteBatchCSV(w io.Writer, b diff.Batch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"day", "class", "slot", "prev", "next"}); err != nil {
		return err
	}
	for _, c := range NewBatchDoc(b).Changes {
		rec := []string{
			strconv.Itoa(c.Day),
			c.Class,
			strconv.Itoa(c.Slot),
			renderLesson(c.Prev),
			renderLesson(c.Next),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderLesson(l *LessonDoc) string {
	if l == nil {
		return ""
	}
	return l.Subject + "@" + strings.Join(l.Rooms, "/")
}
