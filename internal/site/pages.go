package site

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// subpageDir holds the portal's second-level pages.
const subpageDir = "pages"

// Page is one source document that becomes an HTML page.
type Page struct {
	// Rel is the slash-separated source path relative to the source dir.
	Rel string
	// Out is the slash-separated output path relative to the output dir.
	Out string
	// Markdown pages are rendered into the column shell first.
	Markdown bool
}

// collectPages lists the root HTML pages, then pages/*.html and pages/*.md.
// Paths matching any exclude glob are skipped.
func collectPages(srcDir string, exclude []string) ([]Page, error) {
	var pages []Page
	for _, dir := range []string{"", subpageDir} {
		entries, err := os.ReadDir(filepath.Join(srcDir, filepath.FromSlash(dir)))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			rel := path.Join(dir, e.Name())
			if matchesAny(rel, exclude) {
				continue
			}
			switch {
			case strings.HasSuffix(e.Name(), ".html"):
				pages = append(pages, Page{Rel: rel, Out: rel})
			case dir == subpageDir && strings.HasSuffix(e.Name(), ".md"):
				pages = append(pages, Page{Rel: rel, Out: mdPathToHTML(rel), Markdown: true})
			}
		}
	}
	return pages, nil
}

// mdPathToHTML swaps a trailing .md for .html.
func mdPathToHTML(p string) string {
	if strings.HasSuffix(p, ".md") {
		return strings.TrimSuffix(p, ".md") + ".html"
	}
	return p
}

// matchesAny checks if relPath matches any of the given glob patterns, either
// as a whole or by its file name.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	base := path.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
