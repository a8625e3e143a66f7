// Package tabular turns loosely structured spreadsheet rows into event and
// place records.
package tabular

import (
	"strconv"
	"strings"
	"time"
)

// Row is one spreadsheet row keyed by header text. Cells are string,
// float64 or time.Time.
type Row map[string]any

// Get returns the first non-empty trimmed value among the aliases, in order.
func (r Row) Get(aliases ...string) string {
	for _, key := range aliases {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(cellString(v)); s != "" {
			return s
		}
	}
	return ""
}

// Cell returns the raw value of the first alias with a non-empty value.
func (r Row) Cell(aliases ...string) any {
	for _, key := range aliases {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		if t, ok := v.(time.Time); ok {
			if !t.IsZero() {
				return t
			}
			continue
		}
		if strings.TrimSpace(cellString(v)) != "" {
			return v
		}
	}
	return nil
}

func cellString(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case int:
		return strconv.Itoa(c)
	case time.Time:
		if c.IsZero() {
			return ""
		}
		return c.Format("2006/1/2")
	case bool:
		return strconv.FormatBool(c)
	default:
		return ""
	}
}

// Column aliases, tried in order.
var (
	EventDateColumns        = []string{"日付", "日時", "開催日", "DATE", "date"}
	EventTitleColumns       = []string{"タイトル", "件名", "イベント名", "名称", "title", "題名"}
	EventLocationColumns    = []string{"場所", "会場", "エリア", "所在地", "location"}
	EventTimeColumns        = []string{"時間", "開演", "開場", "start", "time"}
	EventPriceColumns       = []string{"料金", "価格", "金額", "price"}
	EventDescriptionColumns = []string{"説明", "概要", "詳細", "description", "解説"}
	EventContactColumns     = []string{"問い合わせ", "お問い合わせ", "連絡先", "contact"}
	EventTypeColumns        = []string{"種別", "カテゴリ", "分類", "type", "カテゴリ1"}
	EventImageColumns       = []string{"画像", "image", "サムネイル"}
	EventLinkColumns        = []string{"リンク", "URL", "Link", "link"}
	EventIDColumns          = []string{"ID", "id", "イベントID"}

	PlacePrefColumns  = []string{"都道府県", "県", "府", "地域", "pref", "Prefecture"}
	PlaceNameColumns  = []string{"花街名", "名称", "name", "Name", "名前"}
	PlaceAreaColumns  = []string{"エリア", "地区", "Area", "住所（エリア）"}
	PlaceImageColumns = []string{"画像", "Image", "photo"}
	PlaceLinkColumns  = []string{"リンク", "URL", "Link"}
	PlaceDescColumns  = []string{"説明", "概要", "Description", "details", "詳細", "description"}
	PlaceIDColumns    = []string{"ID", "id"}
)
