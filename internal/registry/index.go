package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/kagai-portal/hanamachi/internal/records"
	"github.com/kagai-portal/hanamachi/internal/tabular"
)

// EventIndex groups events by date key. Groups only ever grow.
type EventIndex struct {
	byDate map[string][]records.EventRecord
	byID   map[string]records.EventRecord
	count  int
}

// NewEventIndex returns an empty index.
func NewEventIndex() *EventIndex {
	return &EventIndex{
		byDate: make(map[string][]records.EventRecord),
		byID:   make(map[string]records.EventRecord),
	}
}

// Add appends ev to its date group. It reports false and leaves the index
// unchanged when the id is already taken.
func (x *EventIndex) Add(ev records.EventRecord) bool {
	if ev.ID != "" {
		if _, taken := x.byID[ev.ID]; taken {
			return false
		}
		x.byID[ev.ID] = ev
	}
	x.byDate[ev.DateKey] = append(x.byDate[ev.DateKey], ev)
	x.count++
	return true
}

// Assign stores a whole date group, merging into any existing group for the
// same key. It reports whether the key was already present.
func (x *EventIndex) Assign(dateKey string, events []records.EventRecord) (merged bool, dropped []string) {
	_, merged = x.byDate[dateKey]
	for _, ev := range events {
		ev.DateKey = dateKey
		if !x.Add(ev) {
			dropped = append(dropped, ev.ID)
		}
	}
	return merged, dropped
}

// ForDate returns the events on dateKey in insertion order, never nil.
func (x *EventIndex) ForDate(dateKey string) []records.EventRecord {
	if x == nil {
		return []records.EventRecord{}
	}
	events := x.byDate[dateKey]
	out := make([]records.EventRecord, len(events))
	copy(out, events)
	return out
}

// ByID looks up a single event.
func (x *EventIndex) ByID(id string) (records.EventRecord, bool) {
	if x == nil {
		return records.EventRecord{}, false
	}
	ev, ok := x.byID[id]
	return ev, ok
}

// Len is the number of indexed events.
func (x *EventIndex) Len() int {
	if x == nil {
		return 0
	}
	return x.count
}

// Keys returns the date keys in chronological order.
func (x *EventIndex) Keys() []string {
	if x == nil {
		return nil
	}
	keys := make([]string, 0, len(x.byDate))
	for k := range x.byDate {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		yi, mi, di, _ := tabular.ParseDateKey(keys[i])
		yj, mj, dj, _ := tabular.ParseDateKey(keys[j])
		if yi != yj {
			return yi < yj
		}
		if mi != mj {
			return mi < mj
		}
		if di != dj {
			return di < dj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// WriteJSON encodes the index as a dateKey to event-list object.
func (x *EventIndex) WriteJSON(w io.Writer) error {
	out := make(map[string][]records.EventRecord, len(x.byDate))
	for k, v := range x.byDate {
		out[k] = v
	}
	return encodeJSON(w, out)
}

// decodeEventIndex parses a cache document, passing every record through
// fix before indexing.
func decodeEventIndex(data []byte, fix func(records.EventRecord) records.EventRecord) (*EventIndex, []string, error) {
	var raw map[string][]records.EventRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("decoding events json: %w", err)
	}
	idx := NewEventIndex()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var dropped []string
	for _, k := range keys {
		if _, _, _, ok := tabular.ParseDateKey(k); !ok {
			dropped = append(dropped, k)
			continue
		}
		events := raw[k]
		if fix != nil {
			for i := range events {
				events[i] = fix(events[i])
			}
		}
		_, d := idx.Assign(k, events)
		dropped = append(dropped, d...)
	}
	return idx, dropped, nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
