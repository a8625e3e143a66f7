package site

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagai-portal/hanamachi/internal/records"
)

type fakeEvents map[string]records.EventRecord

func (f fakeEvents) EventByID(_ context.Context, id string) (records.EventRecord, bool) {
	ev, ok := f[id]
	return ev, ok
}

type fakePlaces map[string]records.PlaceRecord

func (f fakePlaces) PlaceByID(_ context.Context, id string) (records.PlaceRecord, bool) {
	p, ok := f[id]
	return p, ok
}

const eventDetailPage = `<html><body>
<div class="breadcrumb"><a href="../index.html">ホーム</a><span>/</span><span>イベント詳細</span></div>
<h1 id="page-title"></h1><p id="page-desc"></p>
<article id="event-detail">
<h2 id="event-title"></h2><div id="event-image"></div>
<p id="event-date"></p><p id="event-location"></p><p id="event-price"></p><p id="event-type"></p>
<div id="event-description"></div>
</article></body></html>`

const placeDetailPage = `<html><body>
<div class="breadcrumb"><a href="../index.html">ホーム</a><span>/</span><span id="crumb-title"></span></div>
<h1 id="page-title"></h1><p id="page-desc"></p>
<article id="kagai-detail" class="loading">
<div id="hana-image"></div><p id="hana-pref"></p><p id="hana-area"></p>
<p id="hana-links"></p><div id="hana-description"></div>
</article></body></html>`

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestRenderEventDetail(t *testing.T) {
	img := "../images/odori.jpg"
	events := fakeEvents{"2025-4-1-都をどり": {
		ID: "2025-4-1-都をどり", Title: "都をどり", Type: records.TypePerformance,
		Time: "12:30", Location: "祇園甲部歌舞練場", Image: &img,
		Description: `春の公演<script>alert(1)</script>`, DateKey: "2025-4-1",
	}}

	doc := parse(t, eventDetailPage)
	require.True(t, RenderEventDetail(context.Background(), doc, events, "2025-4-1-都をどり"))

	assert.Equal(t, "都をどり", doc.Find("#page-title").Text())
	assert.Equal(t, "都をどり", doc.Find(".breadcrumb span").Last().Text())
	src, _ := doc.Find("#event-image img").Attr("src")
	assert.Equal(t, img, src)
	assert.Equal(t, "📅 日時: 2025年4月1日 12:30", doc.Find("#event-date").Text())
	assert.Equal(t, "📍 場所: 祇園甲部歌舞練場", doc.Find("#event-location").Text())
	assert.Equal(t, "💴 料金: -", doc.Find("#event-price").Text())
	assert.Equal(t, "🏷 種別: performance", doc.Find("#event-type").Text())
	assert.Equal(t, "春の公演", doc.Find("#event-description p").Text())
	assert.Equal(t, 0, doc.Find("#event-description script").Length())
}

func TestRenderEventDetailNotFound(t *testing.T) {
	for _, id := range []string{"", "missing"} {
		doc := parse(t, eventDetailPage)
		assert.False(t, RenderEventDetail(context.Background(), doc, fakeEvents{}, id))
		assert.Equal(t, EventNotFoundTitle, doc.Find("#page-title").Text())
		assert.True(t, doc.Find("#event-detail").HasClass("error"))
	}
}

func TestRenderPlaceDetail(t *testing.T) {
	places := fakePlaces{"kyoto-gion": {
		ID: "kyoto-gion", Pref: "京都府", Name: "祇園甲部", Area: "東山区",
		Image: "images/gion.jpg", Link: "https://www.gionkobu.com", Details: "京都最大の花街",
	}}

	doc := parse(t, placeDetailPage)
	require.True(t, RenderPlaceDetail(context.Background(), doc, places, "kyoto-gion", true))

	assert.Equal(t, "祇園甲部", doc.Find("#crumb-title").Text())
	assert.Equal(t, "京都府の花街「祇園甲部」の詳細情報です。", doc.Find("#page-desc").Text())
	img := doc.Find("#hana-image img")
	src, _ := img.Attr("src")
	assert.Equal(t, "../images/gion.jpg", src)
	loading, _ := img.Attr("loading")
	assert.Equal(t, "lazy", loading)
	assert.Equal(t, "📍 都道府県: 京都府", doc.Find("#hana-pref").Text())
	assert.Equal(t, "🗺 エリア: 東山区", doc.Find("#hana-area").Text())
	link := doc.Find("#hana-links a")
	href, _ := link.Attr("href")
	assert.Equal(t, "https://www.gionkobu.com", href)
	assert.Equal(t, "公式サイト", link.Text())
	assert.Equal(t, "京都最大の花街", doc.Find("#hana-description p").Text())
	assert.False(t, doc.Find("#kagai-detail").HasClass("loading"))
}

func TestRenderPlaceDetailFallbacks(t *testing.T) {
	places := fakePlaces{"x": {ID: "x", Pref: "秋田県", Name: "川反", Link: "javascript:alert(1)"}}

	doc := parse(t, placeDetailPage)
	require.True(t, RenderPlaceDetail(context.Background(), doc, places, "x", true))
	assert.Equal(t, 0, doc.Find("#hana-image img").Length())
	assert.Equal(t, "🗺 エリア: -", doc.Find("#hana-area").Text())
	href, _ := doc.Find("#hana-links a").Attr("href")
	assert.Equal(t, "#", href)
	assert.Equal(t, "詳細情報は準備中です。", doc.Find("#hana-description p").Text())
}

func TestRenderPlaceDetailNotFound(t *testing.T) {
	doc := parse(t, placeDetailPage)
	assert.False(t, RenderPlaceDetail(context.Background(), doc, fakePlaces{}, "", true))
	assert.Equal(t, PlaceNotFoundTitle, doc.Find("#page-title").Text())
	assert.Equal(t, PlaceMissingIDDesc, doc.Find("#page-desc").Text())
	assert.True(t, doc.Find("#kagai-detail").HasClass("error"))

	doc = parse(t, placeDetailPage)
	assert.False(t, RenderPlaceDetail(context.Background(), doc, fakePlaces{}, "nowhere", true))
	assert.Equal(t, PlaceNotFoundDesc, doc.Find("#page-desc").Text())
}

func TestDetailPageFor(t *testing.T) {
	assert.Equal(t, EventDetail, DetailPageFor("event-detail.html"))
	assert.Equal(t, PlaceDetail, DetailPageFor("kagai-detail.html"))
	assert.Equal(t, NoDetail, DetailPageFor("events.html"))
}
