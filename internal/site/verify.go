package site

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// legacyNavLabels are navigation entries dropped from the shared header.
var legacyNavLabels = []string{"News・イベント", "プレスリリース"}

const (
	legacyLogoPath = "../images/logo.png"
	legacyLoader   = "template-loader.js"
)

// PageReport lists the problems found on one built page.
type PageReport struct {
	Path   string
	Issues []string
}

// OK reports whether the page passed every check.
func (p PageReport) OK() bool { return len(p.Issues) == 0 }

// Report is the outcome of Verify.
type Report struct {
	Pages []PageReport
}

// Passed counts the pages without issues.
func (r Report) Passed() int {
	n := 0
	for _, p := range r.Pages {
		if p.OK() {
			n++
		}
	}
	return n
}

// OK reports whether every page passed.
func (r Report) OK() bool { return r.Passed() == len(r.Pages) }

// Verify checks every HTML page under dir for a single shared header and
// footer and for leftovers of the client-side template loader.
func Verify(dir string) (Report, error) {
	var report Report
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		page, err := verifyFile(p)
		if err != nil {
			return fmt.Errorf("verifying %s: %w", rel, err)
		}
		page.Path = filepath.ToSlash(rel)
		report.Pages = append(report.Pages, page)
		return nil
	})
	sort.Slice(report.Pages, func(i, j int) bool { return report.Pages[i].Path < report.Pages[j].Path })
	return report, err
}

func verifyFile(name string) (PageReport, error) {
	f, err := os.Open(name)
	if err != nil {
		return PageReport{}, err
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return PageReport{}, err
	}
	return VerifyDocument(doc), nil
}

// VerifyDocument runs the page checks on a parsed document.
func VerifyDocument(doc *goquery.Document) PageReport {
	var r PageReport

	if n := doc.Find("header.site-header").Length(); n != 1 {
		r.Issues = append(r.Issues, fmt.Sprintf("expected one site header, found %d", n))
	}
	if n := doc.Find("footer.site-footer").Length(); n != 1 {
		r.Issues = append(r.Issues, fmt.Sprintf("expected one site footer, found %d", n))
	}

	nav := doc.Find("header nav, .footer__nav").Text()
	for _, label := range legacyNavLabels {
		if strings.Contains(nav, label) {
			r.Issues = append(r.Issues, "legacy navigation label remains: "+label)
		}
	}

	legacyLogo := false
	doc.Find("img[src], link[href]").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"src", "href"} {
			if v, ok := s.Attr(attr); ok && v == legacyLogoPath {
				legacyLogo = true
			}
		}
	})
	if legacyLogo {
		r.Issues = append(r.Issues, "legacy logo path remains: "+legacyLogoPath)
	}

	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if path.Base(strings.SplitN(src, "?", 2)[0]) == legacyLoader {
			r.Issues = append(r.Issues, "client-side template loader still referenced")
		}
	})
	return r
}
