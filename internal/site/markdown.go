package site

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// columnData holds the data passed to the column shell.
type columnData struct {
	Title     string
	SiteTitle string
	Content   template.HTML
}

var columnTemplate = template.Must(template.New("column").Parse(columnShell))

// renderMarkdown converts a Markdown column into a full page. The shared
// header and footer are injected afterwards like for any other page.
func renderMarkdown(md goldmark.Markdown, content []byte, relPath, siteTitle string) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert(content, &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	var out bytes.Buffer
	err := columnTemplate.Execute(&out, columnData{
		Title:     extractTitle(string(content), relPath),
		SiteTitle: siteTitle,
		Content:   template.HTML(rewriteMDLinks(body.String())),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering column shell: %w", err)
	}
	return out.Bytes(), nil
}

// extractTitle pulls the first # heading from markdown content, or falls back to the filename.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return strings.TrimSuffix(path.Base(relPath), ".md")
}

// rewriteMDLinks changes .md links in HTML content to .html links.
func rewriteMDLinks(content string) string {
	result := strings.ReplaceAll(content, `.md"`, `.html"`)
	return strings.ReplaceAll(result, `.md#`, `.html#`)
}

const columnShell = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} | {{.SiteTitle}}</title>
<link rel="stylesheet" href="../css/style.css">
</head>
<body>
<main>
<section class="page-hero">
<div class="container">
<h1 class="page-title">{{.Title}}</h1>
</div>
</section>
<article class="column-article container">
{{.Content}}
</article>
</main>
<script src="../js/script.js"></script>
</body>
</html>
`
