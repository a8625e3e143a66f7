package site

import (
	"encoding/xml"
	"io"
	"strings"
	"time"

	"github.com/kagai-portal/hanamachi/internal/config"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap lists every built page under siteURL and basePath. index.html
// pages are listed by their directory URL.
func writeSitemap(w io.Writer, siteURL, basePath string, pages []string, modified time.Time) error {
	set := urlset{XMLNS: sitemapNS}
	origin := strings.TrimRight(siteURL, "/")
	lastmod := ""
	if !modified.IsZero() {
		lastmod = modified.Format("2006-01-02")
	}
	for _, p := range pages {
		target := p
		if p == "index.html" || strings.HasSuffix(p, "/index.html") {
			target = strings.TrimSuffix(p, "index.html")
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     origin + config.JoinWithBase(basePath, target),
			LastMod: lastmod,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
