package tabular

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kagai-portal/hanamachi/internal/assetpath"
	"github.com/kagai-portal/hanamachi/internal/records"
)

// DefaultEventImage is used when a row names no image.
const DefaultEventImage = "images/1.jpg"

// Normalizer converts rows for a page at a given depth.
type Normalizer struct {
	IsSubpage    bool
	DefaultImage string
}

// Event normalizes one row. Rows without a parseable date are skipped.
func (n Normalizer) Event(row Row) (records.EventRecord, bool) {
	date, ok := ParseDate(row.Cell(EventDateColumns...))
	if !ok {
		return records.EventRecord{}, false
	}
	y, m, d := date.Year(), int(date.Month()), date.Day()

	title := row.Get(EventTitleColumns...)
	id := EventID(row.Get(EventIDColumns...), title, y, m, d)
	if title == "" {
		title = fmt.Sprintf("%d/%d/%d イベント", y, m, d)
	}

	image := row.Get(EventImageColumns...)
	if image == "" {
		image = n.DefaultImage
		if image == "" {
			image = DefaultEventImage
		}
	}
	resolved := assetpath.Resolve(image, n.IsSubpage)

	return records.EventRecord{
		ID:          id,
		Title:       title,
		Type:        records.ClassifyEventType(row.Get(EventTypeColumns...)),
		Time:        row.Get(EventTimeColumns...),
		Location:    row.Get(EventLocationColumns...),
		Price:       row.Get(EventPriceColumns...),
		Description: row.Get(EventDescriptionColumns...),
		Contact:     row.Get(EventContactColumns...),
		Image:       &resolved,
		Link:        row.Get(EventLinkColumns...),
		DateKey:     DateKey(date),
		DetailURL:   n.EventDetailURL(id),
	}, true
}

// EventDetailURL links to the event detail page relative to the current page.
func (n Normalizer) EventDetailURL(id string) string {
	base := "pages/event-detail.html"
	if n.IsSubpage {
		base = "event-detail.html"
	}
	return base + "?id=" + escapeID(id)
}

// PlaceDetailURL links to the district detail page relative to the current page.
func (n Normalizer) PlaceDetailURL(id string) string {
	base := "pages/kagai-detail.html"
	if n.IsSubpage {
		base = "kagai-detail.html"
	}
	return base + "?id=" + escapeID(id)
}

func escapeID(id string) string {
	return strings.ReplaceAll(url.QueryEscape(id), "+", "%20")
}

// Place normalizes one row. Rows missing a name or a prefecture are skipped;
// the prefecture may be inferred from the area text.
func (n Normalizer) Place(row Row) (records.PlaceRecord, bool) {
	name := row.Get(PlaceNameColumns...)
	area := row.Get(PlaceAreaColumns...)
	pref := row.Get(PlacePrefColumns...)
	if pref == "" {
		pref = records.ExtractPrefecture(area)
	}
	if name == "" || pref == "" {
		return records.PlaceRecord{}, false
	}
	desc := row.Get(PlaceDescColumns...)
	return records.PlaceRecord{
		ID:        PlaceID(row.Get(PlaceIDColumns...), pref, name),
		Pref:      pref,
		Name:      name,
		Area:      area,
		Image:     row.Get(PlaceImageColumns...),
		Link:      row.Get(PlaceLinkColumns...),
		Desc:      desc,
		Details:   desc,
		RegionKey: records.RegionForPrefecture(pref),
	}, true
}

// Events normalizes a batch, dropping malformed rows.
func (n Normalizer) Events(rows []Row) []records.EventRecord {
	out := make([]records.EventRecord, 0, len(rows))
	for _, row := range rows {
		if ev, ok := n.Event(row); ok {
			out = append(out, ev)
		}
	}
	return out
}

// Places normalizes a batch, dropping malformed rows.
func (n Normalizer) Places(rows []Row) []records.PlaceRecord {
	out := make([]records.PlaceRecord, 0, len(rows))
	for _, row := range rows {
		if p, ok := n.Place(row); ok {
			out = append(out, p)
		}
	}
	return out
}
