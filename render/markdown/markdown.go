// Package markdown converts a reporter's Markdown document into a
// standalone HTML file wrapped in a fixed template with an embedded
// stylesheet (spec §4.4.a), using goldmark for the Markdown→HTML step, as
// the teacher's plotpage package wraps its chart fragments in a template
// with embedded CSS.
package markdown

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

//go:embed templates/style.css
var styleCSS string

var converter = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

type pageData struct {
	Title string
	Style template.CSS
	Body  template.HTML
}

// ToHTML converts markdownSource to a complete HTML document titled title.
func ToHTML(title, markdownSource string) (string, error) {
	var bodyBuf bytes.Buffer

	if err := converter.Convert([]byte(markdownSource), &bodyBuf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	tmpl, err := template.New("report.html.tmpl").ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return "", fmt.Errorf("parse report template: %w", err)
	}

	var out bytes.Buffer

	data := pageData{
		Title: title,
		Style: template.CSS(styleCSS),
		Body:  template.HTML(bodyBuf.String()),
	}

	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}

	return out.String(), nil
}
