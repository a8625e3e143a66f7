// Package mapview models the clickable Japan map: region hotspots, the
// region modal with its browser-history integration, and district cards.
package mapview

import "github.com/kagai-portal/hanamachi/internal/records"

// Hotspot is a clickable region marker positioned in percent of the map.
type Hotspot struct {
	Key   records.Region
	Label string
	X, Y  int
}

// Hotspots is the fixed marker table.
var Hotspots = []Hotspot{
	{records.RegionTokyo, "東京", 56, 61},
	{records.RegionKyoto, "京都", 36, 62},
	{records.RegionIshikawa, "石川", 43, 54},
	{records.RegionYamagata, "山形", 58, 43},
	{records.RegionNiigata, "新潟", 53, 50},
	{records.RegionFukuoka, "福岡", 12, 72},
	{records.RegionAkita, "秋田", 60, 34},
	{records.RegionFukui, "福井", 40, 58},
}

var prefLabels = map[records.Region]string{
	records.RegionTokyo:    "東京都",
	records.RegionKyoto:    "京都府",
	records.RegionIshikawa: "石川県",
	records.RegionYamagata: "山形県",
	records.RegionNiigata:  "新潟県",
	records.RegionFukuoka:  "福岡県",
	records.RegionAkita:    "秋田県",
	records.RegionFukui:    "福井県",
}

// RegionLabel is the modal heading for a region.
func RegionLabel(key records.Region) string {
	if l, ok := prefLabels[key]; ok {
		return l
	}
	return "地域"
}

// HotspotFor looks up the marker for a region.
func HotspotFor(key records.Region) (Hotspot, bool) {
	for _, h := range Hotspots {
		if h.Key == key {
			return h, true
		}
	}
	return Hotspot{}, false
}
