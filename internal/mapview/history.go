package mapview

import "github.com/kagai-portal/hanamachi/internal/records"

// Entry is one browser history state.
type Entry struct {
	Region   records.Region
	Fragment string
}

// History is the subset of the browser history API the modal drives.
type History interface {
	Push(Entry)
	Back()
	Current() (Entry, bool)
}

// Stack is an in-memory History.
type Stack struct {
	entries []Entry
}

func (s *Stack) Push(e Entry) { s.entries = append(s.entries, e) }

func (s *Stack) Back() {
	if len(s.entries) > 0 {
		s.entries = s.entries[:len(s.entries)-1]
	}
}

func (s *Stack) Current() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Len is the number of entries.
func (s *Stack) Len() int { return len(s.entries) }
