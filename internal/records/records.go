// Package records holds the event and place models shared by the data
// loaders, the views and the build pipeline.
package records

// EventType is the display category of an event.
type EventType string

const (
	TypePerformance EventType = "performance"
	TypeExperience  EventType = "experience"
	TypeEvent       EventType = "event"

	// Display categories carried by the built-in schedule.
	TypeCeremony    EventType = "ceremony"
	TypeDance       EventType = "dance"
	TypeBanquet     EventType = "banquet"
	TypeParade      EventType = "parade"
	TypeFestival    EventType = "festival"
	TypeHanami      EventType = "hanami"
	TypeTraditional EventType = "traditional"
	TypeModern      EventType = "modern"
)

// Styled reports whether calendar cells have a dedicated background for the type.
func (t EventType) Styled() bool {
	switch t {
	case TypeTraditional, TypeModern, TypeFestival, TypeCeremony, TypePerformance:
		return true
	}
	return false
}

// EventRecord is one scheduled happening on a single calendar date.
type EventRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Type        EventType `json:"type" yaml:"type"`
	Time        string    `json:"time" yaml:"time"`
	Location    string    `json:"location" yaml:"location"`
	Price       string    `json:"price" yaml:"price"`
	Description string    `json:"description" yaml:"description"`
	Contact     string    `json:"contact,omitempty" yaml:"contact"`
	Image       *string   `json:"image" yaml:"image"`
	Link        string    `json:"link,omitempty" yaml:"link"`
	DateKey     string    `json:"dateKey" yaml:"-"`
	DetailURL   string    `json:"detailUrl,omitempty" yaml:"-"`
}

// HasImage reports whether the record carries an image path.
func (e EventRecord) HasImage() bool {
	return e.Image != nil && *e.Image != ""
}

// ImageURL is the image path, or "" when there is none.
func (e EventRecord) ImageURL() string {
	if e.Image == nil {
		return ""
	}
	return *e.Image
}

// PlaceRecord is one geisha district.
type PlaceRecord struct {
	ID        string `json:"id"`
	Pref      string `json:"pref"`
	Name      string `json:"name"`
	Area      string `json:"area"`
	Image     string `json:"image"`
	Link      string `json:"link"`
	Desc      string `json:"desc"`
	Details   string `json:"details,omitempty"`
	RegionKey Region `json:"regionKey"`
}
