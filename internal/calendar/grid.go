package calendar

import (
	"strconv"
	"strings"
	"time"

	"github.com/kagai-portal/hanamachi/internal/records"
)

// GridSize is six weeks of seven days.
const GridSize = 42

// CellKind tells which month a cell belongs to.
type CellKind string

const (
	PrevMonth    CellKind = "prev-month"
	CurrentMonth CellKind = "current-month"
	NextMonth    CellKind = "next-month"
)

// Lookup returns the events on a date key.
type Lookup func(dateKey string) []records.EventRecord

// Cell is one day in the grid. Only current-month cells carry events.
type Cell struct {
	Day     int
	Kind    CellKind
	DateKey string
	Today   bool
	Events  []records.EventRecord
}

// Grid is a rendered month.
type Grid struct {
	State State
	Cells []Cell
}

// BuildGrid lays out the month: trailing days of the previous month, every
// day of the current month, then leading days of the next month up to 42.
func BuildGrid(s State, lookup Lookup, today time.Time) Grid {
	first := s.First()
	startDay := int(first.Weekday())
	prevDays := s.Previous().DaysInMonth()

	cells := make([]Cell, 0, GridSize)
	for i := startDay - 1; i >= 0; i-- {
		cells = append(cells, Cell{Day: prevDays - i, Kind: PrevMonth})
	}
	for day := 1; day <= s.DaysInMonth(); day++ {
		c := Cell{Day: day, Kind: CurrentMonth, DateKey: s.Key(day)}
		c.Today = today.Year() == s.Year && int(today.Month())-1 == s.Month && today.Day() == day
		if lookup != nil {
			c.Events = lookup(c.DateKey)
		}
		cells = append(cells, c)
	}
	for day := 1; len(cells) < GridSize; day++ {
		cells = append(cells, Cell{Day: day, Kind: NextMonth})
	}
	return Grid{State: s, Cells: cells}
}

// HasEvents reports whether the cell is an event day.
func (c Cell) HasEvents() bool {
	return c.Kind == CurrentMonth && len(c.Events) > 0
}

// Label is the first event's title, with " ほかN件" when more follow.
func (c Cell) Label() string {
	if !c.HasEvents() {
		return ""
	}
	if n := len(c.Events); n > 1 {
		return c.Events[0].Title + " ほか" + strconv.Itoa(n-1) + "件"
	}
	return c.Events[0].Title
}

// Tooltip lists every title on the day.
func (c Cell) Tooltip() string {
	titles := make([]string, len(c.Events))
	for i, ev := range c.Events {
		titles[i] = ev.Title
	}
	return strings.Join(titles, " / ")
}

// TypeClass is the background class for the first event's type.
func (c Cell) TypeClass() string {
	if !c.HasEvents() || !c.Events[0].Type.Styled() {
		return ""
	}
	return "event-type-" + string(c.Events[0].Type)
}

// Classes is the full class attribute for the cell.
func (c Cell) Classes() string {
	classes := []string{"calendar-day", string(c.Kind)}
	if c.Today {
		classes = append(classes, "today")
	}
	if c.HasEvents() {
		classes = append(classes, "has-event")
		if tc := c.TypeClass(); tc != "" {
			classes = append(classes, tc)
		}
	}
	return strings.Join(classes, " ")
}

// ActionKind is what activating a cell does.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionNavigate
	ActionOpenModal
)

// Action describes the result of activating a cell.
type Action struct {
	Kind ActionKind
	URL  string
}

// Activate returns the cell's click behaviour: navigate to the first
// event's detail page when it has one, otherwise open the day modal.
func (c Cell) Activate() Action {
	if !c.HasEvents() {
		return Action{Kind: ActionNone}
	}
	if u := c.Events[0].DetailURL; u != "" {
		return Action{Kind: ActionNavigate, URL: u}
	}
	return Action{Kind: ActionOpenModal}
}
