// Package layout injects the shared header, footer and breadcrumb into
// pages and marks the current navigation entry.
package layout

import (
	"path"
	"strings"

	"github.com/kagai-portal/hanamachi/internal/assetpath"
)

// PathConfig holds the page-relative links used by the shared fragments.
type PathConfig struct {
	HomeURL string
	LogoURL string
}

// PathConfigFor derives the links for a page from its URL path.
func PathConfigFor(urlPath, marker string) PathConfig {
	if assetpath.IsSubpage(urlPath, marker) {
		return PathConfig{HomeURL: "../", LogoURL: "../assets/logo.png"}
	}
	return PathConfig{HomeURL: "./", LogoURL: "./assets/logo.png"}
}

func (c PathConfig) vars() map[string]string {
	return map[string]string{"homeUrl": c.HomeURL, "logoUrl": c.LogoURL}
}

var pageNames = map[string]string{
	"index.html":        "ホーム",
	"events.html":       "イベント",
	"about.html":        "このサイトについて",
	"contact.html":      "お問い合わせ",
	"culture.html":      "花街文化",
	"manners.html":      "基本マナー",
	"columns.html":      "コラム",
	"glossary.html":     "用語集",
	"updates.html":      "更新情報",
	"overseas.html":     "海外向け情報",
	"press.html":        "プレスリリース",
	"guide.html":        "花街ガイド",
	"privacy.html":      "プライバシーポリシー",
	"sns-links.html":    "SNSリンク",
	"event-detail.html": "イベント詳細",
	"kagai-detail.html": "花街詳細",
}

const defaultPageName = "ページ"

// PageName returns the breadcrumb label for the page at urlPath.
func PageName(urlPath string) string {
	if name, ok := pageNames[pageFile(urlPath)]; ok {
		return name
	}
	return defaultPageName
}

func pageFile(urlPath string) string {
	if urlPath == "" || strings.HasSuffix(urlPath, "/") {
		return "index.html"
	}
	return path.Base(urlPath)
}

func normalizeHref(href string) string {
	if strings.HasPrefix(href, "../") {
		return href[3:]
	}
	return strings.TrimPrefix(href, "./")
}

func normalizePath(urlPath string) string {
	return strings.TrimRight(strings.TrimLeft(urlPath, "/"), "/")
}

// IsCurrent reports whether a navigation href points at the page at urlPath.
func IsCurrent(href, urlPath string) bool {
	h := normalizeHref(href)
	p := normalizePath(urlPath)
	if h == "" {
		return false
	}
	return p == h || strings.HasSuffix(p, h) || (h == "index.html" && (p == "" || p == "index.html"))
}
