package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akulishov/timegrid/api/timetable"
	"github.com/akulishov/timegrid/config"
	"github.com/akulishov/timegrid/core/diff"
	"github.com/akulishov/timegrid/core/events"
	"github.com/akulishov/timegrid/core/index"
	coremetrics "github.com/akulishov/timegrid/core/metrics"
	"github.com/akulishov/timegrid/core/notify"
	"github.com/akulishov/timegrid/core/schedule"
	"github.com/akulishov/timegrid/infra/logger"
	"github.com/akulishov/timegrid/infra/metrics"
	"github.com/akulishov/timegrid/infra/mqtt"
	"github.com/akulishov/timegrid/infra/source"
	"github.com/akulishov/timegrid/internal/changelog"
	"github.com/akulishov/timegrid/internal/eventbus"
)

// Service drives the refresh cycle: fetch the raw table, normalize it, diff
// against the retained snapshot, append to the rolling log and fan the
// outcome out to metrics, the event bus and the notifier.
type Service struct {
	src      source.Source
	log      logger.Logger
	bus      eventbus.EventBus
	sink     coremetrics.MetricsSink
	notifier notify.Publisher
	batches  *changelog.Log
	interval time.Duration
	promAddr string
	apiAddr  string

	mu         sync.RWMutex
	current    *schedule.Snapshot
	subjectIdx index.Index
	roomIdx    index.Index
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	src, err := source.New(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	var pub notify.Publisher = notify.NopPublisher{}
	if cfg.Notifier.Enabled {
		n, err := mqtt.NewNotifier(cfg.Notifier)
		if err != nil {
			return nil, fmt.Errorf("notifier: %w", err)
		}
		pub = n
	}

	return &Service{
		src:      src,
		log:      logg,
		bus:      eventbus.New(),
		sink:     sink,
		notifier: pub,
		batches:  changelog.New(cfg.Log.Capacity),
		interval: time.Duration(cfg.Refresh.IntervalSeconds) * time.Second,
		promAddr: cfg.Metrics.PrometheusAddr,
		apiAddr:  cfg.API.Addr,
	}, nil
}

// Refresh runs one full cycle. A malformed source abandons the cycle and
// keeps the previous snapshot in place.
func (s *Service) Refresh(ctx context.Context) error {
	id := uuid.NewString()
	start := time.Now()

	table, err := s.src.Fetch(ctx)
	if err != nil {
		s.failRefresh(id, err)
		return err
	}
	snap, err := schedule.Parse(table, time.Now().UTC())
	if err != nil {
		s.failRefresh(id, err)
		return err
	}

	s.mu.Lock()
	prev := s.current
	s.current = snap
	s.subjectIdx = index.Build(snap, index.BySubject)
	s.roomIdx = index.Build(snap, index.ByRoom)
	s.mu.Unlock()

	var batch diff.Batch
	if prev != nil {
		batch = diff.Compute(prev, snap)
		if !batch.Empty() {
			s.batches.Append(batch)
		}
		if appeared := diff.NewClasses(prev, snap); len(appeared) > 0 {
			s.bus.Publish(events.ClassesAppeared{RefreshID: id, Classes: appeared})
		}
	}

	changed := batch.ChangedCells()
	if err := s.sink.RecordRefresh(coremetrics.RefreshResult{
		RefreshID:    id,
		Fingerprint:  snap.Fingerprint,
		CapturedAt:   snap.CapturedAt,
		Duration:     time.Since(start),
		Classes:      len(snap.Classes),
		ChangedCells: changed,
		Changed:      changed > 0,
	}); err != nil {
		s.log.Warnf("record refresh: %v", err)
	}
	s.bus.Publish(events.RefreshCompleted{
		RefreshID:    id,
		Fingerprint:  snap.Fingerprint,
		CapturedAt:   snap.CapturedAt,
		Classes:      len(snap.Classes),
		ChangedCells: changed,
		Batch:        batch,
	})
	s.log.Debugw("refresh completed", map[string]any{
		"refresh_id":    id,
		"classes":       len(snap.Classes),
		"changed_cells": changed,
	})
	return nil
}

func (s *Service) failRefresh(id string, err error) {
	s.log.Errorf("refresh abandoned: %v", err)
	if rec, ok := s.sink.(coremetrics.ParseFailureRecorder); ok {
		if rerr := rec.RecordParseFailure(coremetrics.ParseFailure{
			RefreshID: id,
			Reason:    err.Error(),
			Time:      time.Now().UTC(),
		}); rerr != nil {
			s.log.Warnf("record parse failure: %v", rerr)
		}
	}
	s.bus.Publish(events.SourceFailed{RefreshID: id, Err: err, Time: time.Now().UTC()})
}

// CurrentSnapshot returns the latest retained snapshot, nil before the
// first successful refresh.
func (s *Service) CurrentSnapshot() *schedule.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SubjectIndex returns the latest subject index.
func (s *Service) SubjectIndex() index.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subjectIdx
}

// RoomIndex returns the latest room index.
func (s *Service) RoomIndex() index.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomIdx
}

// ChangesSince consolidates every logged batch whose window ends after t.
// ok is false when nothing changed since t.
func (s *Service) ChangesSince(t time.Time) (diff.Batch, bool) {
	suffix := s.batches.Since(t)
	if len(suffix) == 0 {
		return diff.Batch{}, false
	}
	merged, err := diff.Compact(suffix)
	if err != nil {
		// unreachable: the suffix is non-empty by construction
		s.log.Errorf("compact: %v", err)
		return diff.Batch{}, false
	}
	if rec, ok := s.sink.(coremetrics.CompactionRecorder); ok {
		if err := rec.RecordCompaction(coremetrics.CompactionEvent{
			Batches:      len(suffix),
			ChangedCells: merged.ChangedCells(),
			WindowStart:  merged.Start,
			WindowEnd:    merged.End,
			Time:         time.Now().UTC(),
		}); err != nil {
			s.log.Warnf("record compaction: %v", err)
		}
	}
	return merged, true
}

// History returns a copy of every retained batch, oldest first.
func (s *Service) History() []diff.Batch {
	return s.batches.All()
}

// Run starts the refresh loop and the auxiliary servers, blocking until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.watchChanges(ctx)
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.apiAddr != "" {
		go func() {
			if err := timetable.StartServer(ctx, s.apiAddr, s); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}

	if err := s.Refresh(ctx); err != nil {
		s.log.Warnf("initial refresh failed: %v", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.log.Warnf("refresh failed: %v", err)
			}
		}
	}
}

// watchChanges turns completed refreshes into per-class change notices.
func (s *Service) watchChanges(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			rc, ok := ev.(events.RefreshCompleted)
			if !ok || rc.ChangedCells == 0 {
				continue
			}
			for _, notice := range noticesFromBatch(rc.RefreshID, rc.Batch) {
				if err := s.notifier.PublishChange(notice); err != nil {
					s.log.Errorf("publish notice: %v", err)
				}
			}
		}
	}
}

// noticesFromBatch flattens a batch into one notice per touched class.
func noticesFromBatch(refreshID string, b diff.Batch) []notify.ChangeNotice {
	type agg struct {
		days  []int
		cells int
	}
	perClass := make(map[string]*agg)
	for d := range b.Days {
		for class, row := range b.Days[d] {
			a := perClass[class]
			if a == nil {
				a = &agg{}
				perClass[class] = a
			}
			a.days = append(a.days, d)
			for _, c := range row {
				if c != nil {
					a.cells++
				}
			}
		}
	}
	notices := make([]notify.ChangeNotice, 0, len(perClass))
	for class, a := range perClass {
		notices = append(notices, notify.ChangeNotice{
			RefreshID:    refreshID,
			Class:        class,
			Days:         a.days,
			ChangedCells: a.cells,
			WindowStart:  b.Start,
			WindowEnd:    b.End,
		})
	}
	return notices
}

// Close releases held resources.
func (s *Service) Close() error {
	s.bus.Close()
	return s.notifier.Close()
}
