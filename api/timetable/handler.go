// Package timetable exposes the schedule core over a thin HTTP facade:
// the current snapshot, consolidated changes since a point in time, and
// subject/room lookups against the latest indices.
package timetable

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/akulishov/timegrid/core/diff"
	"github.com/akulishov/timegrid/core/index"
	"github.com/akulishov/timegrid/core/schedule"
	"github.com/akulishov/timegrid/jobs/changekpi"
	"github.com/akulishov/timegrid/pkg/export"
)

// Provider is the read surface the facade serves from; implemented by the
// app service.
type Provider interface {
	CurrentSnapshot() *schedule.Snapshot
	ChangesSince(t time.Time) (diff.Batch, bool)
	SubjectIndex() index.Index
	RoomIndex() index.Index
	History() []diff.Batch
}

// NewMux routes the facade endpoints.
func NewMux(p Provider) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/schedule", NewScheduleHandler(p))
	mux.Handle("/api/changes", NewChangesHandler(p))
	mux.Handle("/api/lookup", NewLookupHandler(p))
	mux.Handle("/api/kpi", NewKPIHandler(p))
	return mux
}

// NewScheduleHandler serves the latest snapshot via GET /api/schedule.
// An optional class query parameter narrows the response to one class.
func NewScheduleHandler(p Provider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap := p.CurrentSnapshot()
		if snap == nil {
			http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
			return
		}
		if class := r.URL.Query().Get("class"); class != "" {
			week, ok := snap.Week(schedule.NormalizeText(class))
			if !ok {
				http.Error(w, "unknown class", http.StatusNotFound)
				return
			}
			narrowed := &schedule.Snapshot{
				Classes:     map[string]schedule.ClassWeek{schedule.NormalizeText(class): week},
				Fingerprint: snap.Fingerprint,
				CapturedAt:  snap.CapturedAt,
			}
			snap = narrowed
		}
		w.Header().Set("Content-Type", "application/json")
		if err := export.WriteSnapshotJSON(w, snap); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// NewChangesHandler serves consolidated changes via GET /api/changes?since=RFC3339.
// A missing since parameter consolidates the whole retained log.
func NewChangesHandler(p Provider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		since := time.Time{}
		if raw := r.URL.Query().Get("since"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				http.Error(w, "invalid since parameter", http.StatusBadRequest)
				return
			}
			since = t
		}
		w.Header().Set("Content-Type", "application/json")
		batch, ok := p.ChangesSince(since)
		if !ok {
			batch = diff.Batch{Start: since, End: since}
		}
		if err := export.WriteBatchJSON(w, batch); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// occurrence is one (day, secondary, class, slots) hit of a lookup.
type occurrence struct {
	Day     int    `json:"day"`
	Against string `json:"against"` // room for subject lookups, subject for room lookups
	Class   string `json:"class"`
	Slots   []int  `json:"slots"`
}

// NewLookupHandler serves reverse lookups via GET /api/lookup with exactly
// one of the subject or room query parameters.
func NewLookupHandler(p Provider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		subject := r.URL.Query().Get("subject")
		room := r.URL.Query().Get("room")
		if (subject == "") == (room == "") {
			http.Error(w, "exactly one of subject or room is required", http.StatusBadRequest)
			return
		}
		var (
			idx index.Index
			key string
		)
		if subject != "" {
			idx, key = p.SubjectIndex(), subject
		} else {
			idx, key = p.RoomIndex(), room
		}
		if idx == nil {
			http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
			return
		}
		week := idx.Lookup(key)
		out := []occurrence{}
		if week != nil {
			for d := range week {
				for secondary, classes := range week[d] {
					for class, slots := range classes {
						out = append(out, occurrence{Day: d, Against: secondary, Class: class, Slots: slots})
					}
				}
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Day != out[j].Day {
				return out[i].Day < out[j].Day
			}
			if out[i].Against != out[j].Against {
				return out[i].Against < out[j].Against
			}
			return out[i].Class < out[j].Class
		})
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// NewKPIHandler serves change-volume indicators via GET /api/kpi.
func NewKPIHandler(p Provider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(changekpi.Summarize(p.History())); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
