// Package calendar models the monthly event calendar: navigation state,
// the six-week grid, district tags and the per-day detail modal.
package calendar

import (
	"strconv"
	"time"
)

// State is the month being displayed. Month is zero-indexed.
type State struct {
	Year  int
	Month int
}

// NewState returns the state for the month containing t.
func NewState(t time.Time) State {
	return State{Year: t.Year(), Month: int(t.Month()) - 1}
}

// First is midnight on the first day of the month.
func (s State) First() time.Time {
	return time.Date(s.Year, time.Month(s.Month+1), 1, 0, 0, 0, 0, time.Local)
}

// Next advances one month, rolling into the next year after December.
func (s State) Next() State {
	return NewState(s.First().AddDate(0, 1, 0))
}

// Previous goes back one month, rolling into the previous year before January.
func (s State) Previous() State {
	return NewState(s.First().AddDate(0, -1, 0))
}

// GoToMonth jumps to a month given 1-based. Out-of-range months carry into
// the year, so month 13 is January of the following year.
func GoToMonth(year, month int) State {
	return NewState(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local))
}

// DaysInMonth is the number of days in the displayed month.
func (s State) DaysInMonth() int {
	return s.First().AddDate(0, 1, -1).Day()
}

var monthNames = [12]string{"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"}

// WeekdayNames are the column headings, Sunday first.
var WeekdayNames = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// MonthName is the Japanese month label.
func (s State) MonthName() string {
	return monthNames[s.Month]
}

// YearLabel is the year as displayed.
func (s State) YearLabel() string {
	return strconv.Itoa(s.Year)
}

// Key is the date key of day d in the displayed month.
func (s State) Key(day int) string {
	return strconv.Itoa(s.Year) + "-" + strconv.Itoa(s.Month+1) + "-" + strconv.Itoa(day)
}
