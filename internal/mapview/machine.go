package mapview

import (
	"context"

	"github.com/kagai-portal/hanamachi/internal/assetpath"
	"github.com/kagai-portal/hanamachi/internal/records"
	"github.com/kagai-portal/hanamachi/internal/tabular"
)

// Status is the content state of an open modal.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusEmpty
	StatusError
)

// Status messages shown in the modal body.
const (
	LoadingMessage = "データを読み込み中..."
	EmptyMessage   = "該当する花街が見つかりませんでした。"
	ErrorMessage   = "データの読み込みに失敗しました。"
)

// Card is one district tile in the modal.
type Card struct {
	ID    string
	Name  string
	Area  string
	Image string
	URL   string
}

// View is what the modal shows.
type View struct {
	Region  records.Region
	Title   string
	Status  Status
	Message string
	Cards   []Card
}

// Loader fetches the districts of a region.
type Loader func(ctx context.Context, region records.Region) ([]records.PlaceRecord, error)

// Machine is the modal state: closed, or open on one region.
type Machine struct {
	history   History
	isSubpage bool

	open   bool
	region records.Region
	view   View
}

// NewMachine returns a closed machine driving h.
func NewMachine(h History, isSubpage bool) *Machine {
	return &Machine{history: h, isSubpage: isSubpage}
}

// Open shows the modal for region in its loading state and records a
// history entry so the back button closes it.
func (m *Machine) Open(region records.Region) View {
	m.history.Push(Entry{Region: region, Fragment: "#modal-" + string(region)})
	return m.show(region)
}

func (m *Machine) show(region records.Region) View {
	m.open = true
	m.region = region
	m.view = View{Region: region, Title: RegionLabel(region), Status: StatusLoading, Message: LoadingMessage}
	return m.view
}

// Close hides the modal and unwinds the history entry pushed by Open. It
// returns the region whose hotspot should take focus back, or "" when the
// modal was already closed.
func (m *Machine) Close() records.Region {
	if !m.open {
		return ""
	}
	region := m.region
	m.open = false
	m.region = ""
	m.view = View{}
	if cur, ok := m.history.Current(); ok && cur.Region != "" {
		m.history.Back()
	}
	return region
}

// PopState reacts to browser navigation. An entry without a region closes
// the modal; an entry with one reopens it without pushing a new entry.
func (m *Machine) PopState(e *Entry) View {
	if e == nil || e.Region == "" {
		m.open = false
		m.region = ""
		m.view = View{}
		return m.view
	}
	if m.open && m.region == e.Region {
		return m.view
	}
	return m.show(e.Region)
}

// IsOpen reports the current state and region.
func (m *Machine) IsOpen() (bool, records.Region) {
	return m.open, m.region
}

// View returns what the modal currently shows.
func (m *Machine) View() View {
	return m.view
}

// Resolve applies a load result. Results for a region that is no longer
// open are discarded.
func (m *Machine) Resolve(region records.Region, places []records.PlaceRecord, err error) View {
	if !m.open || m.region != region {
		return m.view
	}
	switch {
	case err != nil:
		m.view.Status = StatusError
		m.view.Message = ErrorMessage
		m.view.Cards = nil
	case len(places) == 0:
		m.view.Status = StatusEmpty
		m.view.Message = EmptyMessage
		m.view.Cards = nil
	default:
		m.view.Status = StatusReady
		m.view.Message = ""
		m.view.Cards = Cards(places, m.isSubpage)
	}
	return m.view
}

// Load fetches the open region's districts and resolves the view.
func (m *Machine) Load(ctx context.Context, load Loader) View {
	if !m.open {
		return m.view
	}
	region := m.region
	places, err := load(ctx, region)
	return m.Resolve(region, places, err)
}

// Cards turns districts into tiles linking to their detail page.
func Cards(places []records.PlaceRecord, isSubpage bool) []Card {
	n := tabular.Normalizer{IsSubpage: isSubpage}
	cards := make([]Card, 0, len(places))
	for _, p := range places {
		cards = append(cards, Card{
			ID:    p.ID,
			Name:  p.Name,
			Area:  p.Area,
			Image: assetpath.Resolve(p.Image, isSubpage),
			URL:   n.PlaceDetailURL(p.ID),
		})
	}
	return cards
}

// FocusTrap returns the index Tab should move to inside a dialog with count
// focusable elements. It reports false when the browser default applies.
func FocusTrap(count, current int, shift bool) (int, bool) {
	if count == 0 {
		return current, false
	}
	last := count - 1
	if shift && current == 0 {
		return last, true
	}
	if !shift && current == last {
		return 0, true
	}
	return current, false
}
