package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/kagai-portal/hanamachi/internal/records"
)

// GroupPlaces buckets places by region key.
func GroupPlaces(places []records.PlaceRecord) map[records.Region][]records.PlaceRecord {
	grouped := make(map[records.Region][]records.PlaceRecord)
	for _, p := range places {
		grouped[p.RegionKey] = append(grouped[p.RegionKey], p)
	}
	return grouped
}

// WritePlacesJSON encodes places as a region to place-list object, the
// layout the district pages read.
func WritePlacesJSON(w io.Writer, places []records.PlaceRecord) error {
	return encodeJSON(w, GroupPlaces(places))
}

// decodePlaces flattens a grouped places document. Mapped regions come
// first in display order, then everything else by key.
func decodePlaces(data []byte) ([]records.PlaceRecord, error) {
	var grouped map[string][]records.PlaceRecord
	if err := json.Unmarshal(data, &grouped); err != nil {
		return nil, fmt.Errorf("decoding places json: %w", err)
	}

	order := make([]string, 0, len(grouped))
	seen := make(map[string]bool, len(grouped))
	for _, r := range records.Regions {
		if _, ok := grouped[string(r)]; ok {
			order = append(order, string(r))
			seen[string(r)] = true
		}
	}
	var rest []string
	for k := range grouped {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	var places []records.PlaceRecord
	for _, key := range order {
		for _, p := range grouped[key] {
			if p.RegionKey == "" {
				p.RegionKey = records.Region(key)
			}
			if p.Desc == "" {
				p.Desc = p.Details
			}
			places = append(places, p)
		}
	}
	return places, nil
}
