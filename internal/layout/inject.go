package layout

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// legacyLoader is the client-side script that used to insert the fragments.
const legacyLoader = "template-loader.js"

// Injector applies the shared fragments to parsed pages.
type Injector struct {
	Templates     Templates
	SubpageMarker string
}

// NewInjector returns an injector using t.
func NewInjector(t Templates) *Injector {
	return &Injector{Templates: t}
}

// Inject places exactly one header and one footer in doc, marks the active
// navigation link and writes the breadcrumb. Injecting twice yields the
// same document as injecting once.
func (in *Injector) Inject(doc *goquery.Document, urlPath string) {
	cfg := PathConfigFor(urlPath, in.SubpageMarker)
	vars := cfg.vars()

	body := doc.Find("body").First()
	replaceOrInsert(doc.Find("header.site-header"), Render(in.Templates.Header, vars), func(h string) {
		body.PrependHtml(h)
	})
	replaceOrInsert(doc.Find("footer.site-footer"), Render(in.Templates.Footer, vars), func(h string) {
		body.AppendHtml(h)
	})

	RemoveLegacyLoader(doc)
	MarkActive(doc, urlPath)
	in.breadcrumb(doc, cfg, urlPath)
}

// InjectHTML parses a full document from r, injects it and writes it to w.
func (in *Injector) InjectHTML(r io.Reader, w io.Writer, urlPath string) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return fmt.Errorf("parsing page: %w", err)
	}
	in.Inject(doc, urlPath)
	return WriteDocument(w, doc)
}

// WriteDocument serializes doc including its doctype.
func WriteDocument(w io.Writer, doc *goquery.Document) error {
	if err := html.Render(w, doc.Get(0)); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

func replaceOrInsert(existing *goquery.Selection, fragment string, insert func(string)) {
	if existing.Length() == 0 {
		insert(fragment)
		return
	}
	existing.Slice(1, existing.Length()).Remove()
	existing.First().ReplaceWithHtml(fragment)
}

// RemoveLegacyLoader drops script tags loading the client-side fragment loader.
func RemoveLegacyLoader(doc *goquery.Document) {
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if path.Base(strings.SplitN(src, "?", 2)[0]) == legacyLoader {
			s.Remove()
		}
	})
}

// MarkActive flags the navigation links that point at urlPath.
func MarkActive(doc *goquery.Document, urlPath string) {
	doc.Find(".nav-link").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		if IsCurrent(href, urlPath) {
			link.SetAttr("aria-current", "page")
			link.AddClass("active")
		} else {
			link.RemoveAttr("aria-current")
			link.RemoveClass("active")
		}
	})
}

func (in *Injector) breadcrumb(doc *goquery.Document, cfg PathConfig, urlPath string) {
	vars := cfg.vars()
	vars["pageName"] = PageName(urlPath)
	crumb := Render(breadcrumbTemplate, vars)

	if existing := doc.Find(".breadcrumb"); existing.Length() > 0 {
		existing.Slice(1, existing.Length()).Remove()
		existing.First().ReplaceWithHtml(crumb)
		return
	}
	doc.Find(".page-hero .container").First().PrependHtml(crumb)
}
