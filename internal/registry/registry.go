// Package registry loads event and place records for the views, preferring
// pre-built JSON caches and falling back to raw spreadsheets.
package registry

import (
	"context"
	"fmt"
	"path"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kagai-portal/hanamachi/internal/assetpath"
	"github.com/kagai-portal/hanamachi/internal/records"
	"github.com/kagai-portal/hanamachi/internal/tabular"
)

// Options names the documents a Registry reads from its Source.
type Options struct {
	PlacesJSON    string
	PlacesTabular string
	EventsJSON    string
	EventsTabular string

	// Builtin serves the embedded schedule instead of loading events.
	Builtin bool

	Normalizer tabular.Normalizer
}

// DefaultOptions returns the document names used by the portal.
func DefaultOptions() Options {
	return Options{
		PlacesJSON:    "assets/kagai-data.json",
		PlacesTabular: "assets/花街map.xlsx",
		EventsJSON:    "assets/events-data.json",
		EventsTabular: "assets/全国花街ポータルサイト_東京_仮行事スケ_上半期_20250907.xlsx",
		Builtin:       true,
	}
}

// Registry memoizes loaded records. Concurrent first requests for the same
// collection share one fetch.
type Registry struct {
	src    Source
	opts   Options
	logger *zap.Logger

	group singleflight.Group

	mu         sync.Mutex
	generation uint64
	places     []records.PlaceRecord
	placesOK   bool
	events     *EventIndex
}

// New creates a registry over src.
func New(src Source, opts Options, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{src: src, opts: opts, logger: logger}
}

// Invalidate drops every memoized collection; the next request reloads.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.generation++
	r.places = nil
	r.placesOK = false
	r.events = nil
	r.mu.Unlock()
	r.group.Forget("places")
	r.group.Forget("events")
}

// Places returns the districts in region. An empty result means nothing
// matched or no source could be read.
func (r *Registry) Places(ctx context.Context, region records.Region) []records.PlaceRecord {
	out := []records.PlaceRecord{}
	for _, p := range r.AllPlaces(ctx) {
		if p.RegionKey == region {
			out = append(out, p)
		}
	}
	return out
}

// AllPlaces returns every loaded district.
func (r *Registry) AllPlaces(ctx context.Context) []records.PlaceRecord {
	r.mu.Lock()
	if r.placesOK {
		places := append([]records.PlaceRecord(nil), r.places...)
		r.mu.Unlock()
		return places
	}
	gen := r.generation
	r.mu.Unlock()

	v, _, _ := r.group.Do("places", func() (any, error) {
		places := r.loadPlaces(context.WithoutCancel(ctx))
		r.mu.Lock()
		if r.generation == gen {
			r.places = places
			r.placesOK = true
		}
		r.mu.Unlock()
		return places, nil
	})
	return append([]records.PlaceRecord(nil), v.([]records.PlaceRecord)...)
}

// PlaceByID finds a district across all regions.
func (r *Registry) PlaceByID(ctx context.Context, id string) (records.PlaceRecord, bool) {
	for _, p := range r.AllPlaces(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return records.PlaceRecord{}, false
}

// Events returns the event index.
func (r *Registry) Events(ctx context.Context) *EventIndex {
	r.mu.Lock()
	if r.events != nil {
		idx := r.events
		r.mu.Unlock()
		return idx
	}
	gen := r.generation
	r.mu.Unlock()

	v, _, _ := r.group.Do("events", func() (any, error) {
		idx := r.loadEvents(context.WithoutCancel(ctx))
		r.mu.Lock()
		if r.generation == gen {
			r.events = idx
		}
		r.mu.Unlock()
		return idx, nil
	})
	return v.(*EventIndex)
}

// EventsForDate returns the events on dateKey, never nil.
func (r *Registry) EventsForDate(ctx context.Context, dateKey string) []records.EventRecord {
	return r.Events(ctx).ForDate(dateKey)
}

// EventByID looks up a single event.
func (r *Registry) EventByID(ctx context.Context, id string) (records.EventRecord, bool) {
	return r.Events(ctx).ByID(id)
}

// loadPlaces tries the JSON cache, then the spreadsheet. An empty result is
// memoized like any other until Invalidate.
func (r *Registry) loadPlaces(ctx context.Context) []records.PlaceRecord {
	if r.opts.PlacesJSON != "" {
		places, err := r.placesFromJSON(ctx)
		if err == nil {
			return places
		}
		r.logger.Warn("places cache unavailable, falling back to spreadsheet",
			zap.String("source", r.opts.PlacesJSON), zap.Error(err))
	}
	if r.opts.PlacesTabular != "" {
		places, err := r.placesFromTabular(ctx)
		if err == nil {
			return places
		}
		r.logger.Error("places spreadsheet unavailable",
			zap.String("source", r.opts.PlacesTabular), zap.Error(err))
	}
	return []records.PlaceRecord{}
}

func (r *Registry) placesFromJSON(ctx context.Context) ([]records.PlaceRecord, error) {
	data, err := r.src.Fetch(ctx, r.opts.PlacesJSON)
	if err != nil {
		return nil, err
	}
	return decodePlaces(data)
}

func (r *Registry) placesFromTabular(ctx context.Context) ([]records.PlaceRecord, error) {
	rows, err := r.fetchRows(ctx, r.opts.PlacesTabular)
	if err != nil {
		return nil, err
	}
	return r.opts.Normalizer.Places(rows), nil
}

func (r *Registry) loadEvents(ctx context.Context) *EventIndex {
	if r.opts.Builtin {
		idx, err := BuiltinEvents(r.opts.Normalizer.IsSubpage, r.logger)
		if err != nil {
			r.logger.Error("built-in schedule unreadable", zap.Error(err))
			return NewEventIndex()
		}
		return idx
	}

	if r.opts.EventsJSON != "" {
		idx, err := r.eventsFromJSON(ctx)
		if err == nil {
			return idx
		}
		r.logger.Warn("events cache unavailable, falling back to spreadsheet",
			zap.String("source", r.opts.EventsJSON), zap.Error(err))
	}
	if r.opts.EventsTabular != "" {
		idx, err := r.eventsFromTabular(ctx)
		if err == nil {
			return idx
		}
		r.logger.Error("events spreadsheet unavailable",
			zap.String("source", r.opts.EventsTabular), zap.Error(err))
	}
	return NewEventIndex()
}

func (r *Registry) eventsFromJSON(ctx context.Context) (*EventIndex, error) {
	data, err := r.src.Fetch(ctx, r.opts.EventsJSON)
	if err != nil {
		return nil, err
	}
	idx, dropped, err := decodeEventIndex(data, r.relocate)
	if err != nil {
		return nil, err
	}
	for _, id := range dropped {
		r.logger.Warn("dropped cached event", zap.String("key", id))
	}
	return idx, nil
}

// relocate rewrites a cached event's image and detail link for this
// registry's page depth. The cache may have been written for either depth.
func (r *Registry) relocate(ev records.EventRecord) records.EventRecord {
	n := r.opts.Normalizer
	if ev.HasImage() {
		img := assetpath.Resolve(*ev.Image, n.IsSubpage)
		ev.Image = &img
	}
	if ev.DetailURL != "" && ev.ID != "" {
		ev.DetailURL = n.EventDetailURL(ev.ID)
	}
	return ev
}

func (r *Registry) eventsFromTabular(ctx context.Context) (*EventIndex, error) {
	rows, err := r.fetchRows(ctx, r.opts.EventsTabular)
	if err != nil {
		return nil, err
	}
	idx := NewEventIndex()
	for _, ev := range r.opts.Normalizer.Events(rows) {
		if !idx.Add(ev) {
			r.logger.Warn("duplicate event id dropped", zap.String("id", ev.ID), zap.String("date", ev.DateKey))
		}
	}
	return idx, nil
}

func (r *Registry) fetchRows(ctx context.Context, name string) ([]tabular.Row, error) {
	data, err := r.src.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	rows, err := tabular.ReadFile(path.Base(name), data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return rows, nil
}
