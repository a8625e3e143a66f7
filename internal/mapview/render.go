package mapview

import (
	"html/template"
	"io"
)

var tmpl = template.Must(template.New("map").Funcs(template.FuncMap{
	"loading": func(s Status) bool { return s == StatusLoading },
	"ready":   func(s Status) bool { return s == StatusReady },
	"empty":   func(s Status) bool { return s == StatusEmpty },
	"failed":  func(s Status) bool { return s == StatusError },
}).Parse(mapTemplates))

// RenderHotspots writes the region marker buttons.
func RenderHotspots(w io.Writer) error {
	return tmpl.ExecuteTemplate(w, "hotspots", Hotspots)
}

// RenderModal writes the closed modal shell.
func RenderModal(w io.Writer) error {
	return tmpl.ExecuteTemplate(w, "modal", nil)
}

// RenderView writes the modal body for v.
func RenderView(w io.Writer, v View) error {
	return tmpl.ExecuteTemplate(w, "view", v)
}

const mapTemplates = `
{{- define "hotspots" -}}
{{- range . -}}
<button class="map-spot" style="left: {{.X}}%; top: {{.Y}}%;" data-key="{{.Key}}" data-label="{{.Label}}" aria-label="{{.Label}}"></button>
{{end -}}
{{- end -}}

{{- define "modal" -}}
<div id="mapModal" class="map-modal" role="dialog" aria-modal="true" aria-labelledby="mapModalTitle" hidden>
  <div class="map-modal__dialog">
    <div class="map-modal__header">
      <h3 class="map-modal__title" id="mapModalTitle">地域</h3>
      <button class="map-modal__close" aria-label="閉じる">×</button>
    </div>
    <div class="map-modal__body">
      <div class="hanamachi-grid" id="hanamachiGrid"></div>
    </div>
  </div>
</div>
{{- end -}}

{{- define "view" -}}
{{- if loading .Status -}}
<div class="map-modal__loading"><div class="loading-spinner"></div><p>{{.Message}}</p></div>
{{- else if empty .Status -}}
<p class="map-modal__empty">{{.Message}}</p>
{{- else if failed .Status -}}
<p class="map-modal__error">{{.Message}}</p>
{{- else if ready .Status -}}
{{- range .Cards}}
<a class="hanamachi-card" href="{{.URL}}">
  <div class="hanamachi-card__media">{{if .Image}}<img src="{{.Image}}" alt="{{.Name}}">{{end}}</div>
  <div class="hanamachi-card__body">
    <h4 class="hanamachi-card__title">{{.Name}}</h4>
    <p class="hanamachi-card__meta">{{.Area}}</p>
    <span class="hanamachi-card__link">詳細を見る</span>
  </div>
</a>
{{- end}}
{{- end -}}
{{- end -}}
`
