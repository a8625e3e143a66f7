package records

import (
	"fmt"
	"strings"
)

// Region is the map area a prefecture belongs to.
type Region string

const (
	RegionTokyo    Region = "tokyo"
	RegionKyoto    Region = "kyoto"
	RegionIshikawa Region = "ishikawa"
	RegionYamagata Region = "yamagata"
	RegionNiigata  Region = "niigata"
	RegionFukuoka  Region = "fukuoka"
	RegionAkita    Region = "akita"
	RegionFukui    Region = "fukui"
	RegionOther    Region = "other"
)

// Regions lists the mapped regions in display order.
var Regions = []Region{
	RegionTokyo, RegionKyoto, RegionIshikawa, RegionYamagata,
	RegionNiigata, RegionFukuoka, RegionAkita, RegionFukui,
}

type rule[T any] struct {
	match string
	value T
}

// regionRules is evaluated in order; the first substring match wins, so 東京
// must stay ahead of 京都.
var regionRules = []rule[Region]{
	{"東京", RegionTokyo},
	{"京都", RegionKyoto},
	{"石川", RegionIshikawa},
	{"山形", RegionYamagata},
	{"新潟", RegionNiigata},
	{"福岡", RegionFukuoka},
	{"秋田", RegionAkita},
	{"福井", RegionFukui},
}

// RegionForPrefecture maps a prefecture name to its region. The mapping is
// total: unknown prefectures land in RegionOther.
func RegionForPrefecture(pref string) Region {
	for _, r := range regionRules {
		if strings.Contains(pref, r.match) {
			return r.value
		}
	}
	return RegionOther
}

// ParseRegion validates a region key.
func ParseRegion(s string) (Region, error) {
	key := Region(strings.ToLower(strings.TrimSpace(s)))
	if key == RegionOther {
		return key, nil
	}
	for _, r := range Regions {
		if r == key {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown region %q", s)
}

// Full names are tried before short forms: 東京都 contains 京都.
var prefectureRules = []rule[string]{
	{"東京都", "東京都"},
	{"京都府", "京都府"},
	{"石川県", "石川県"},
	{"山形県", "山形県"},
	{"新潟県", "新潟県"},
	{"福岡県", "福岡県"},
	{"秋田県", "秋田県"},
	{"福井県", "福井県"},
	{"京都", "京都府"},
	{"東京", "東京都"},
	{"石川", "石川県"},
	{"山形", "山形県"},
	{"新潟", "新潟県"},
	{"福岡", "福岡県"},
	{"秋田", "秋田県"},
	{"福井", "福井県"},
}

// ExtractPrefecture finds a known prefecture mentioned in a free-text area.
func ExtractPrefecture(area string) string {
	for _, r := range prefectureRules {
		if strings.Contains(area, r.match) {
			return r.value
		}
	}
	return ""
}

var eventTypeRules = []rule[EventType]{
	{"公演", TypePerformance},
	{"performance", TypePerformance},
	{"体験", TypeExperience},
	{"workshop", TypeExperience},
	{"experience", TypeExperience},
}

// ClassifyEventType maps a free-text category to one of the canonical
// event types. Anything unrecognised is a generic event.
func ClassifyEventType(raw string) EventType {
	s := strings.ToLower(raw)
	for _, r := range eventTypeRules {
		if strings.Contains(s, r.match) {
			return r.value
		}
	}
	return TypeEvent
}
