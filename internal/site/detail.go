package site

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/kagai-portal/hanamachi/internal/assetpath"
	"github.com/kagai-portal/hanamachi/internal/calendar"
	"github.com/kagai-portal/hanamachi/internal/records"
)

// EventLookup finds an event by id.
type EventLookup interface {
	EventByID(ctx context.Context, id string) (records.EventRecord, bool)
}

// PlaceLookup finds a district by id.
type PlaceLookup interface {
	PlaceByID(ctx context.Context, id string) (records.PlaceRecord, bool)
}

// Not-found copy for the detail pages.
const (
	PlaceNotFoundTitle   = "花街が見つかりません"
	PlaceMissingIDDesc   = "URLパラメータが正しくありません。"
	PlaceNotFoundDesc    = "指定された花街の情報が見つかりませんでした。"
	EventNotFoundTitle   = "イベントが見つかりません"
	EventNotFoundDesc    = "指定されたイベントの情報が見つかりませんでした。"
	placeDescPlaceholder = "詳細情報は準備中です。"
)

var detailPolicy = bluemonday.UGCPolicy()

func setText(doc *goquery.Document, id, text string) {
	doc.Find("#" + id).SetText(text)
}

func setHTML(doc *goquery.Document, id, markup string) {
	doc.Find("#" + id).SetHtml(markup)
}

// setCrumb writes the breadcrumb's last entry. Injected breadcrumbs carry
// no id, so the last span is used when #crumb-title is gone.
func setCrumb(doc *goquery.Document, text string) {
	if crumb := doc.Find("#crumb-title"); crumb.Length() > 0 {
		crumb.SetText(text)
		return
	}
	doc.Find(".breadcrumb span:last-child").SetText(text)
}

func paragraph(text string) string {
	return "<p>" + detailPolicy.Sanitize(text) + "</p>"
}

// RenderEventDetail fills an event detail page for id. It reports false and
// renders the not-found state when id is empty or unknown.
func RenderEventDetail(ctx context.Context, doc *goquery.Document, events EventLookup, id string) bool {
	ev, ok := records.EventRecord{}, false
	if id != "" {
		ev, ok = events.EventByID(ctx, id)
	}
	if !ok {
		doc.Find("#event-detail").AddClass("error")
		setText(doc, "page-title", EventNotFoundTitle)
		setText(doc, "page-desc", EventNotFoundDesc)
		return false
	}

	setCrumb(doc, ev.Title)
	setText(doc, "page-title", ev.Title)
	setText(doc, "event-title", ev.Title)
	if ev.HasImage() {
		setHTML(doc, "event-image", fmt.Sprintf(`<img src="%s" alt="%s" />`,
			html.EscapeString(ev.ImageURL()), html.EscapeString(ev.Title)))
	} else {
		setHTML(doc, "event-image", "")
	}
	setText(doc, "event-date", strings.TrimSpace("📅 日時: "+calendar.FormatDate(ev.DateKey)+" "+ev.Time))
	setText(doc, "event-location", "📍 場所: "+orDash(ev.Location))
	setText(doc, "event-price", "💴 料金: "+orDash(ev.Price))
	setText(doc, "event-type", "🏷 種別: "+string(ev.Type))
	if ev.Description != "" {
		setHTML(doc, "event-description", paragraph(ev.Description))
	} else {
		setHTML(doc, "event-description", "")
	}
	return true
}

// RenderPlaceDetail fills a district detail page for id. It reports false
// and renders the not-found state when id is empty or unknown.
func RenderPlaceDetail(ctx context.Context, doc *goquery.Document, places PlaceLookup, id string, isSubpage bool) bool {
	detail := doc.Find("#kagai-detail")
	if id == "" {
		detail.AddClass("error")
		setText(doc, "page-title", PlaceNotFoundTitle)
		setText(doc, "page-desc", PlaceMissingIDDesc)
		return false
	}
	p, ok := places.PlaceByID(ctx, id)
	if !ok {
		detail.AddClass("error")
		setText(doc, "page-title", PlaceNotFoundTitle)
		setText(doc, "page-desc", PlaceNotFoundDesc)
		return false
	}
	detail.RemoveClass("loading error")

	setCrumb(doc, p.Name)
	setText(doc, "page-title", p.Name)
	setText(doc, "page-desc", p.Pref+"の花街「"+p.Name+"」の詳細情報です。")

	if img := strings.TrimSpace(p.Image); img != "" {
		setHTML(doc, "hana-image", fmt.Sprintf(`<img src="%s" alt="%s" loading="lazy">`,
			html.EscapeString(assetpath.Resolve(img, isSubpage)), html.EscapeString(p.Name)))
	} else {
		setHTML(doc, "hana-image", "")
	}

	setText(doc, "hana-pref", "📍 都道府県: "+orDash(p.Pref))
	setText(doc, "hana-area", "🗺 エリア: "+orDash(p.Area))

	if link := strings.TrimSpace(p.Link); link != "" {
		setHTML(doc, "hana-links", fmt.Sprintf(`🔗 リンク: <a href="%s" target="_blank" rel="noopener noreferrer">公式サイト</a>`,
			html.EscapeString(string(calendar.SafeURL(link)))))
	} else {
		setText(doc, "hana-links", "🔗 リンク: -")
	}

	desc := p.Desc
	if desc == "" {
		desc = p.Details
	}
	if strings.TrimSpace(desc) != "" {
		setHTML(doc, "hana-description", paragraph(desc))
	} else {
		setHTML(doc, "hana-description", "<p>"+placeDescPlaceholder+"</p>")
	}
	return true
}

// DetailKind tells which detail page a URL path serves.
type DetailKind int

const (
	NoDetail DetailKind = iota
	EventDetail
	PlaceDetail
)

// DetailPageFor maps a page file name to its detail kind.
func DetailPageFor(name string) DetailKind {
	switch name {
	case "event-detail.html":
		return EventDetail
	case "kagai-detail.html":
		return PlaceDetail
	}
	return NoDetail
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
