package tabular

import (
	"fmt"
	"regexp"
	"strings"
)

const maxIDLength = 96

var (
	whitespaceRun = regexp.MustCompile(`[\s\x{00a0}\x{3000}]+`)
	disallowedID  = regexp.MustCompile(`[^a-z0-9\-ぁ-んァ-ン一-龯]`)
)

// EventID returns the explicit id when present, otherwise a slug of the
// date and title restricted to ASCII alphanumerics, hyphens, kana and kanji.
func EventID(explicit, title string, year, month, day int) string {
	if explicit != "" {
		return explicit
	}
	return slug(fmt.Sprintf("%d-%d-%d-%s", year, month, day, title))
}

// PlaceID returns the explicit id when present, otherwise a "pref-name" slug
// under the same rules as EventID.
func PlaceID(explicit, pref, name string) string {
	if explicit != "" {
		return explicit
	}
	return slug(pref + "-" + name)
}

func slug(s string) string {
	s = whitespaceRun.ReplaceAllString(strings.ToLower(s), "-")
	s = disallowedID.ReplaceAllString(s, "")
	if r := []rune(s); len(r) > maxIDLength {
		s = string(r[:maxIDLength])
	}
	return s
}
