package calendar

import "strings"

// Tag is a district label shown on an event.
type Tag struct {
	Name  string
	Class string
}

var districtTags = []Tag{
	{"葭町", "tag-yoshicho"},
	{"新橋", "tag-shinbashi"},
	{"赤坂", "tag-akasaka"},
	{"神楽坂", "tag-kagurazaka"},
	{"浅草", "tag-asakusa"},
	{"向嶋", "tag-mukojima"},
	{"八王子", "tag-hachioji"},
	{"渋谷", "tag-shibuya"},
}

var fallbackTag = Tag{Name: "花街"}

// Tags returns every district named in location, in table order, or the
// generic tag when none match.
func Tags(location string) []Tag {
	var tags []Tag
	for _, t := range districtTags {
		if strings.Contains(location, t.Name) {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return []Tag{fallbackTag}
	}
	return tags
}
