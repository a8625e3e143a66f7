package registry

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kagai-portal/hanamachi/internal/records"
	"github.com/kagai-portal/hanamachi/internal/tabular"
)

const placesJSON = `{
  "tokyo": [
    {"id": "tokyo-shinbashi", "pref": "東京都", "name": "新橋", "area": "港区", "desc": "d1"},
    {"id": "tokyo-akasaka", "pref": "東京都", "name": "赤坂", "area": "港区", "details": "d2"}
  ],
  "kyoto": [
    {"id": "kyoto-gion", "pref": "京都府", "name": "祇園甲部", "area": "東山区"}
  ]
}`

// countingSource wraps a Source and counts fetches per name.
type countingSource struct {
	inner Source
	mu    sync.Mutex
	calls map[string]int
	gate  chan struct{}
}

func newCountingSource(inner Source) *countingSource {
	return &countingSource{inner: inner, calls: make(map[string]int)}
}

func (s *countingSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	s.calls[name]++
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return s.inner.Fetch(ctx, name)
}

func (s *countingSource) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestPlacesFromJSON(t *testing.T) {
	src := DirSource{FS: fstest.MapFS{
		"assets/kagai-data.json": {Data: []byte(placesJSON)},
	}}
	reg := New(src, DefaultOptions(), zap.NewNop())

	tokyo := reg.Places(context.Background(), records.RegionTokyo)
	require.Len(t, tokyo, 2)
	assert.Equal(t, "新橋", tokyo[0].Name)
	assert.Equal(t, "d2", tokyo[1].Desc)

	assert.Empty(t, reg.Places(context.Background(), records.RegionAkita))
	assert.NotNil(t, reg.Places(context.Background(), records.RegionAkita))

	p, ok := reg.PlaceByID(context.Background(), "kyoto-gion")
	require.True(t, ok)
	assert.Equal(t, records.RegionKyoto, p.RegionKey)

	_, ok = reg.PlaceByID(context.Background(), "missing")
	assert.False(t, ok)
}

func TestPlacesFallBackToSpreadsheet(t *testing.T) {
	src := DirSource{FS: fstest.MapFS{
		"assets/花街map.xlsx": {Data: workbook(t,
			[]any{"花街名", "エリア", "説明"},
			[]any{"新橋", "東京都港区", "desc"},
			[]any{"", "京都府", "no name"},
		)},
	}}
	core, logs := observer.New(zap.WarnLevel)
	reg := New(src, DefaultOptions(), zap.New(core))

	tokyo := reg.Places(context.Background(), records.RegionTokyo)
	require.Len(t, tokyo, 1)
	assert.Equal(t, "東京都-新橋", tokyo[0].ID)
	assert.Equal(t, 1, logs.FilterMessage("places cache unavailable, falling back to spreadsheet").Len())
}

func TestPlacesBothSourcesFail(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	src := newCountingSource(DirSource{FS: fstest.MapFS{}})
	reg := New(src, DefaultOptions(), zap.New(core))
	ctx := context.Background()

	assert.Empty(t, reg.Places(ctx, records.RegionTokyo))
	assert.Empty(t, reg.Places(ctx, records.RegionKyoto))
	assert.Equal(t, 1, logs.FilterMessage("places spreadsheet unavailable").Len())
	assert.Equal(t, 1, src.count("assets/kagai-data.json"))
	assert.Equal(t, 1, src.count("assets/花街map.xlsx"))

	reg.Invalidate()
	reg.Places(ctx, records.RegionTokyo)
	assert.Equal(t, 2, src.count("assets/kagai-data.json"))
}

func TestPlacesLoadSurvivesCancelledCaller(t *testing.T) {
	reg := New(DirSource{FS: fstest.MapFS{
		"assets/kagai-data.json": {Data: []byte(placesJSON)},
	}}, DefaultOptions(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Len(t, reg.Places(ctx, records.RegionTokyo), 2)
	assert.Len(t, reg.Places(context.Background(), records.RegionKyoto), 1)
}

func TestPlacesMemoizedUntilInvalidate(t *testing.T) {
	src := newCountingSource(DirSource{FS: fstest.MapFS{
		"assets/kagai-data.json": {Data: []byte(placesJSON)},
	}})
	reg := New(src, DefaultOptions(), zap.NewNop())
	ctx := context.Background()

	reg.Places(ctx, records.RegionTokyo)
	reg.Places(ctx, records.RegionKyoto)
	reg.AllPlaces(ctx)
	assert.Equal(t, 1, src.count("assets/kagai-data.json"))

	reg.Invalidate()
	reg.Places(ctx, records.RegionTokyo)
	assert.Equal(t, 2, src.count("assets/kagai-data.json"))
}

func TestPlacesConcurrentRequestsShareFetch(t *testing.T) {
	src := newCountingSource(DirSource{FS: fstest.MapFS{
		"assets/kagai-data.json": {Data: []byte(placesJSON)},
	}})
	src.gate = make(chan struct{})
	reg := New(src, DefaultOptions(), zap.NewNop())

	var wg sync.WaitGroup
	var total atomic.Int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			total.Add(int64(len(reg.Places(context.Background(), records.RegionTokyo))))
		}()
	}

	require.Eventually(t, func() bool { return src.count("assets/kagai-data.json") == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, 1, src.count("assets/kagai-data.json"))
	assert.Equal(t, int64(16), total.Load())
}

func TestEventsFallBackToSpreadsheetOverHTTP(t *testing.T) {
	xlsx := workbook(t,
		[]any{"日付", "タイトル", "場所"},
		[]any{"2025/4/18", "第4回 八王子をどり", "八王子 いちょうホール"},
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/site/assets/events.xlsx":
			w.Write(xlsx)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL+"/site", srv.Client())
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Builtin = false
	opts.EventsTabular = "assets/events.xlsx"
	reg := New(src, opts, zap.NewNop())

	events := reg.EventsForDate(context.Background(), "2025-4-18")
	require.Len(t, events, 1)
	assert.Equal(t, "第4回 八王子をどり", events[0].Title)
	assert.Equal(t, "八王子 いちょうホール", events[0].Location)
	assert.Equal(t, records.TypeEvent, events[0].Type)
	assert.Equal(t, "2025-4-18", events[0].DateKey)
	assert.Equal(t, "2025-4-18-第4回-八王子をどり", events[0].ID)

	ev, ok := reg.EventByID(context.Background(), "2025-4-18-第4回-八王子をどり")
	require.True(t, ok)
	assert.Equal(t, "第4回 八王子をどり", ev.Title)
}

func TestEventsFromJSONCache(t *testing.T) {
	doc := `{"2025-4-18": [{"id": "a", "title": "A", "type": "performance", "image": null}],
	         "bogus": [{"id": "b", "title": "B"}]}`
	src := DirSource{FS: fstest.MapFS{"assets/events-data.json": {Data: []byte(doc)}}}
	opts := DefaultOptions()
	opts.Builtin = false
	reg := New(src, opts, zap.NewNop())

	idx := reg.Events(context.Background())
	assert.Equal(t, 1, idx.Len())
	got := idx.ForDate("2025-4-18")
	require.Len(t, got, 1)
	assert.Equal(t, "2025-4-18", got[0].DateKey)
	assert.Nil(t, got[0].Image)
}

func TestEventsFromJSONCacheRelocatedForPageDepth(t *testing.T) {
	events := tabular.Normalizer{IsSubpage: true}.Events([]tabular.Row{
		{"日付": "2025/4/18", "タイトル": "第4回 八王子をどり"},
		{"日付": "2025/4/19", "タイトル": "remote", "画像": "https://example.com/a.jpg"},
	})
	idx := NewEventIndex()
	for _, ev := range events {
		require.True(t, idx.Add(ev))
	}
	var buf bytes.Buffer
	require.NoError(t, idx.WriteJSON(&buf))
	fsys := fstest.MapFS{"assets/events-data.json": {Data: buf.Bytes()}}

	load := func(isSubpage bool) *EventIndex {
		opts := DefaultOptions()
		opts.Builtin = false
		opts.Normalizer = tabular.Normalizer{IsSubpage: isSubpage}
		return New(DirSource{FS: fsys}, opts, zap.NewNop()).Events(context.Background())
	}

	root := load(false).ForDate("2025-4-18")
	require.Len(t, root, 1)
	assert.Equal(t, tabular.Normalizer{}.EventDetailURL(root[0].ID), root[0].DetailURL)
	assert.True(t, strings.HasPrefix(root[0].DetailURL, "pages/event-detail.html?id="))
	assert.Equal(t, "images/1.jpg", root[0].ImageURL())

	sub := load(true).ForDate("2025-4-18")
	require.Len(t, sub, 1)
	assert.True(t, strings.HasPrefix(sub[0].DetailURL, "event-detail.html?id="))
	assert.Equal(t, "../images/1.jpg", sub[0].ImageURL())

	remote := load(false).ForDate("2025-4-19")
	require.Len(t, remote, 1)
	assert.Equal(t, "https://example.com/a.jpg", remote[0].ImageURL())
}

func TestEventsFromJSONCacheKeepsMissingDetailURL(t *testing.T) {
	doc := `{"2025-4-18": [{"id": "a", "title": "A", "image": "../images/a.jpg"}]}`
	opts := DefaultOptions()
	opts.Builtin = false
	reg := New(DirSource{FS: fstest.MapFS{"assets/events-data.json": {Data: []byte(doc)}}}, opts, zap.NewNop())

	got := reg.EventsForDate(context.Background(), "2025-4-18")
	require.Len(t, got, 1)
	assert.Empty(t, got[0].DetailURL)
	assert.Equal(t, "images/a.jpg", got[0].ImageURL())
}

func TestEventsBothSourcesFail(t *testing.T) {
	opts := DefaultOptions()
	opts.Builtin = false
	opts.EventsTabular = "assets/events.xlsx"
	reg := New(DirSource{FS: fstest.MapFS{}}, opts, zap.NewNop())

	events := reg.EventsForDate(context.Background(), "2025-4-18")
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestBuiltinEvents(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	idx, err := BuiltinEvents(true, zap.New(core))
	require.NoError(t, err)

	assert.Greater(t, idx.Len(), 50)
	assert.Len(t, idx.ForDate("2025-7-6"), 2)
	assert.Equal(t, 1, logs.FilterMessage("duplicate schedule date merged").Len())

	feb := idx.ForDate("2025-2-2")
	require.Len(t, feb, 2)
	assert.Equal(t, records.TypeCeremony, feb[0].Type)
	require.NotNil(t, feb[0].Image)
	assert.Equal(t, "../images/2月/0202_浅草_節分1.JPG", *feb[0].Image)
	assert.Nil(t, feb[1].Image)
	assert.NotEmpty(t, feb[0].ID)

	root, err := BuiltinEvents(false, nil)
	require.NoError(t, err)
	assert.Equal(t, "images/2月/0202_浅草_節分1.JPG", *root.ForDate("2025-2-2")[0].Image)
}

func TestEventIndexKeysChronological(t *testing.T) {
	idx := NewEventIndex()
	for _, k := range []string{"2025-10-1", "2025-2-15", "2024-12-31", "2025-2-3"} {
		idx.Add(records.EventRecord{ID: k, DateKey: k})
	}
	assert.Equal(t, []string{"2024-12-31", "2025-2-3", "2025-2-15", "2025-10-1"}, idx.Keys())
	assert.False(t, idx.Add(records.EventRecord{ID: "2025-2-3", DateKey: "2025-2-3"}))
	assert.Equal(t, 4, idx.Len())
}

func TestWriteJSONRoundTripsThroughRegistry(t *testing.T) {
	places := tabular.Normalizer{}.Places([]tabular.Row{
		{"花街名": "新橋", "都道府県": "東京都"},
		{"花街名": "西の茶屋街", "都道府県": "石川県"},
	})
	var buf bytes.Buffer
	require.NoError(t, WritePlacesJSON(&buf, places))

	reg := New(DirSource{FS: fstest.MapFS{"assets/kagai-data.json": {Data: buf.Bytes()}}}, DefaultOptions(), nil)
	got := reg.Places(context.Background(), records.RegionIshikawa)
	require.Len(t, got, 1)
	assert.Equal(t, "西の茶屋街", got[0].Name)
}

func TestHTTPSourceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, nil)
	require.NoError(t, err)
	_, err = src.Fetch(context.Background(), "assets/kagai-data.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = NewHTTPSource("ftp://example.com", nil)
	require.Error(t, err)
}
