// Package assetpath rewrites relative asset references so they resolve from
// both the site root and the one-level-deep subpage directory.
package assetpath

import (
	"regexp"
	"strings"
)

// DefaultSubpageMarker identifies URL paths served from the subpage directory.
const DefaultSubpageMarker = "/pages/"

var passthrough = regexp.MustCompile(`(?i)^(?:https?:|data:|mailto:|tel:|/)`)

// Resolve normalizes path for the page depth. Absolute URLs, data/mailto/tel
// URIs and root-relative paths are returned untouched.
func Resolve(path string, isSubpage bool) string {
	if path == "" {
		return ""
	}
	if passthrough.MatchString(path) {
		return path
	}
	p := strings.ReplaceAll(path, `\`, "/")

	if isSubpage {
		if strings.HasPrefix(p, "../") {
			return p
		}
		return "../" + strings.TrimPrefix(p, "./")
	}

	for {
		switch {
		case strings.HasPrefix(p, "../"):
			p = p[3:]
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		default:
			return p
		}
	}
}

// IsSubpage reports whether urlPath is served from the subpage directory.
func IsSubpage(urlPath, marker string) bool {
	if marker == "" {
		marker = DefaultSubpageMarker
	}
	return strings.Contains(urlPath, marker)
}
