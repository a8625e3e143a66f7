package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// headerTemplate is the shared site header. ${homeUrl} and ${logoUrl} are
// filled per page.
const headerTemplate = `<header class="site-header" id="siteHeader">
  <div class="container header__inner">
    <a class="brand" href="${homeUrl}index.html">
      <img class="brand__mark" src="${logoUrl}" alt="花街ロゴ" />
      <span class="brand__type">全国花街ポータル</span>
    </a>

    <div class="header-tools">
      <button class="nav-toggle" id="navToggle" aria-label="メニューを開く" aria-expanded="false">
        <span></span><span></span><span></span>
      </button>
    </div>

    <nav class="global-nav" id="globalNav" aria-label="グローバルナビ">
      <ul class="nav-list">
        <li class="nav-item"><a href="${homeUrl}pages/events.html" class="nav-link">イベント</a></li>
        <li class="nav-item"><a href="${homeUrl}pages/guide.html" class="nav-link">花街ガイド</a></li>
        <li class="nav-item"><a href="${homeUrl}pages/columns.html" class="nav-link">コラム・読み物</a></li>
        <li class="nav-item"><a href="${homeUrl}pages/sns-links.html" class="nav-link">SNS・リンク</a></li>
        <li class="nav-item"><a href="${homeUrl}pages/updates.html" class="nav-link">更新情報</a></li>
      </ul>
    </nav>
  </div>
</header>`

const footerTemplate = `<footer class="site-footer" id="footer">
  <div class="container">
    <div class="footer__inner">
      <div class="footer__brand">
        <a class="footer__logo" href="${homeUrl}index.html">
          <img src="${logoUrl}" alt="全国花街ポータル ロゴ" />
          <span class="footer__brand-text">全国花街ポータル</span>
        </a>
        <p class="footer__desc">日本の伝統文化である花街・芸者文化の正しい理解と継承を支えるポータルです。</p>
      </div>
      <div class="footer__nav">
        <div class="footer__col">
          <h4 class="footer__title">メインコンテンツ</h4>
          <ul class="footer__links">
            <li><a href="${homeUrl}pages/events.html">イベント</a></li>
            <li><a href="${homeUrl}pages/guide.html">花街ガイド</a></li>
            <li><a href="${homeUrl}pages/columns.html">コラム・読み物</a></li>
            <li><a href="${homeUrl}pages/sns-links.html">SNS・リンク</a></li>
            <li><a href="${homeUrl}pages/updates.html">更新情報</a></li>
          </ul>
        </div>
        <div class="footer__col">
          <h4 class="footer__title">サイト情報</h4>
          <ul class="footer__links">
            <li><a href="${homeUrl}pages/about.html">サイト概要</a></li>
            <li><a href="${homeUrl}pages/contact.html">お問い合わせ</a></li>
            <li><a href="${homeUrl}pages/privacy.html">利用規約・プライバシーポリシー</a></li>
          </ul>
        </div>
      </div>
    </div>
    <div class="footer__bottom">
      <p class="footer__copyright">© 2025 全国花街ポータル. All rights reserved.</p>
    </div>
  </div>
</footer>`

const breadcrumbTemplate = `<div class="breadcrumb"><a href="${homeUrl}index.html">ホーム</a><span>/</span><span>${pageName}</span></div>`

// Templates holds the shared fragments.
type Templates struct {
	Header string
	Footer string
}

// DefaultTemplates returns the built-in header and footer.
func DefaultTemplates() Templates {
	return Templates{Header: headerTemplate, Footer: footerTemplate}
}

// LoadTemplates reads header.html and footer.html from dir, keeping the
// built-in fragment for any file that does not exist.
func LoadTemplates(dir string) (Templates, error) {
	t := DefaultTemplates()
	if dir == "" {
		return t, nil
	}
	for name, dst := range map[string]*string{"header.html": &t.Header, "footer.html": &t.Footer} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return t, fmt.Errorf("reading template %s: %w", name, err)
		}
		*dst = strings.TrimSpace(string(data))
	}
	return t, nil
}

var placeholder = regexp.MustCompile(`\$\{(\w+)\}|\{\{\s*(\w+)\s*\}\}`)

// Render substitutes ${name} and {{name}} placeholders. Unknown names render
// as the empty string; values are HTML-escaped.
func Render(tmpl string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		sub := placeholder.FindStringSubmatch(m)
		key := sub[1]
		if key == "" {
			key = sub[2]
		}
		return html.EscapeString(vars[key])
	})
}
