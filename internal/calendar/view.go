package calendar

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/kagai-portal/hanamachi/internal/records"
)

// Modal is the per-day event list.
type Modal struct {
	Title   string
	Date    string
	DateKey string
	Events  []records.EventRecord
}

// NewModal builds the modal for a day. It reports false when there is
// nothing to show.
func NewModal(events []records.EventRecord, dateKey string) (Modal, bool) {
	if len(events) == 0 {
		return Modal{}, false
	}
	title := "イベント詳細"
	if len(events) > 1 {
		title = fmt.Sprintf("%d件のイベント", len(events))
	}
	return Modal{Title: title, Date: FormatDate(dateKey), DateKey: dateKey, Events: events}, true
}

// FormatDate renders a date key as YYYY年M月D日.
func FormatDate(dateKey string) string {
	parts := strings.SplitN(dateKey, "-", 3)
	if len(parts) != 3 {
		return dateKey
	}
	return parts[0] + "年" + parts[1] + "月" + parts[2] + "日"
}

// Renderer writes calendar markup. Free text from spreadsheets is passed
// through the sanitizer before it reaches the page.
type Renderer struct {
	policy *bluemonday.Policy
	tmpl   *template.Template
}

// NewRenderer returns a renderer using the UGC sanitizer policy.
func NewRenderer() *Renderer {
	r := &Renderer{policy: bluemonday.UGCPolicy()}
	r.tmpl = template.Must(template.New("calendar").Funcs(template.FuncMap{
		"tags":     Tags,
		"sanitize": r.sanitize,
		"safeURL":  SafeURL,
	}).Parse(calendarTemplates))
	return r
}

func (r *Renderer) sanitize(s string) template.HTML {
	return template.HTML(r.policy.Sanitize(s))
}

// SafeURL passes http(s), mailto and tel links and relative paths through
// unescaped; anything else becomes "#".
func SafeURL(raw string) template.URL {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return template.URL(u.String())
	}
	return "#"
}

// RenderDays writes the 42 day cells.
func (r *Renderer) RenderDays(w io.Writer, g Grid) error {
	return r.tmpl.ExecuteTemplate(w, "days", g.Cells)
}

// RenderModal writes the inner markup of one day's modal.
func (r *Renderer) RenderModal(w io.Writer, m Modal) error {
	return r.tmpl.ExecuteTemplate(w, "modal", m)
}

// RenderModalTemplates writes one <template> per event day that opens a
// modal, so the page script can show it without refetching.
func (r *Renderer) RenderModalTemplates(w io.Writer, g Grid) error {
	for _, c := range g.Cells {
		if c.Activate().Kind != ActionOpenModal {
			continue
		}
		m, _ := NewModal(c.Events, c.DateKey)
		if _, err := fmt.Fprintf(w, `<template id="modal-%s">`, template.HTMLEscapeString(c.DateKey)); err != nil {
			return err
		}
		if err := r.RenderModal(w, m); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</template>\n"); err != nil {
			return err
		}
	}
	return nil
}

const calendarTemplates = `
{{- define "days" -}}
{{- range . -}}
<div class="{{.Classes}}"{{if .HasEvents}} data-date="{{.DateKey}}"{{with .Activate.URL}} data-detail-url="{{.}}"{{end}}{{end}}>
<div class="day-number">{{.Day}}</div>
{{- if .HasEvents}}
<div class="event-title" title="{{.Tooltip}}">{{.Label}}</div>
{{- end}}
</div>
{{end -}}
{{- end -}}

{{- define "modal" -}}
<h3 id="modal-title">{{.Title}}</h3>
<p id="modal-date">{{.Date}}</p>
<div id="modal-events-list">
{{- range .Events}}
<div class="modal-event-item">
  <div class="modal-event-header">
    <div class="modal-event-tags">
      {{- range tags .Location}}<div class="modal-event-tag {{.Class}}">{{.Name}}</div>{{end -}}
    </div>
    <h4 class="modal-event-title">{{.Title}}</h4>
  </div>
  <div class="modal-event-content">
    {{- if .HasImage}}
    <div class="modal-event-image"><img src="{{.ImageURL}}" alt="{{.Title}}" loading="lazy"></div>
    {{- else}}
    <div class="modal-event-image placeholder-gray"><div class="placeholder-text">画像準備中</div></div>
    {{- end}}
    <div class="modal-event-details">
      <div class="modal-detail-item"><div class="modal-detail-icon">🕐</div><div class="modal-detail-content"><div class="modal-detail-label">開催時間</div><div class="modal-detail-value">{{.Time}}</div></div></div>
      <div class="modal-detail-item"><div class="modal-detail-icon">📍</div><div class="modal-detail-content"><div class="modal-detail-label">開催場所</div><div class="modal-detail-value">{{.Location}}</div></div></div>
      {{- with .Price}}
      <div class="modal-detail-item"><div class="modal-detail-icon">💴</div><div class="modal-detail-content"><div class="modal-detail-label">参加費用</div><div class="modal-detail-value">{{.}}</div></div></div>
      {{- end}}
      {{- with .Description}}
      <div class="modal-detail-item"><div class="modal-detail-icon">📝</div><div class="modal-detail-content"><div class="modal-detail-label">詳細</div><div class="modal-detail-value">{{sanitize .}}</div></div></div>
      {{- end}}
      {{- with .Contact}}
      <div class="modal-detail-item"><div class="modal-detail-icon">📞</div><div class="modal-detail-content"><div class="modal-detail-label">お問い合わせ</div><div class="modal-detail-value">{{.}}</div></div></div>
      {{- end}}
      {{- with .Link}}
      <div class="modal-detail-item"><div class="modal-detail-icon">🔗</div><div class="modal-detail-content"><div class="modal-detail-label">詳細情報</div><div class="modal-detail-value"><a href="{{safeURL .}}" target="_blank" rel="noopener noreferrer">公式サイトで詳細を見る</a></div></div></div>
      {{- end}}
    </div>
  </div>
</div>
{{- end}}
</div>
{{- end -}}
`
