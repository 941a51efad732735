// Package views holds the server-rendered page templates
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"nyayasetu-web/models"
)

//go:embed templates/*.html
var files embed.FS

var (
	md = goldmark.New(goldmark.WithExtensions(extension.GFM))
	// agent and document answers are untrusted; links keep rel=nofollow
	policy = bluemonday.UGCPolicy()
)

var courtLabels = map[string]string{
	models.CourtSupreme:        "Supreme Court",
	models.CourtHigh:           "High Courts",
	models.CourtTribunals:      "Tribunals",
	models.CourtServiceMatters: "SC Service Matters",
}

// Courts lists the court filter options in display order
var Courts = []string{
	models.CourtSupreme,
	models.CourtHigh,
	models.CourtTribunals,
	models.CourtServiceMatters,
}

// Templates parses every page template with the view helpers installed
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}

// Funcs returns the helpers available inside templates
func Funcs() template.FuncMap {
	return template.FuncMap{
		"markdown":   Markdown,
		"courtLabel": CourtLabel,
		"progress":   progress,
		"hasDate":    func(d string) bool { return d != "" && d != models.NoDate },
	}
}

// Markdown renders markdown to sanitized HTML. Rendering failures fall
// back to the escaped source text
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}

// CourtLabel returns the display name of a court filter value
func CourtLabel(court string) string {
	if l, ok := courtLabels[court]; ok {
		return l
	}
	return strings.TrimSpace(court)
}

func progress(job *models.UploadJob) string {
	done, total := job.Progress()
	return fmt.Sprintf("%d / %d", done, total)
}
