package main

import (
	"fmt"
	"strings"

	"nyayasetu-web/models"
	"nyayasetu-web/service"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const wrapWidth = 80

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1A73E8"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EA4335"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#34A853"))

	statuteBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A73E8")).
			Background(lipgloss.Color("#E8F0FE")).
			Padding(0, 1)
	topBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1F2937")).
			Background(lipgloss.Color("#FBBC04")).
			Padding(0, 1)
)

// renderer prints results either styled or as plain text
type renderer struct {
	plain bool
	md    *glamour.TermRenderer
}

func (a *app) renderer() *renderer {
	r := &renderer{plain: a.plain}
	if !a.plain {
		// plain markdown is still readable if the renderer cannot start
		r.md, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrapWidth),
		)
	}
	return r
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func (r *renderer) markdown(src string) string {
	if r.md == nil {
		return strings.TrimSpace(src) + "\n"
	}
	out, err := r.md.Render(src)
	if err != nil {
		return strings.TrimSpace(src) + "\n"
	}
	return out
}

func (r *renderer) heading(text string) string {
	return r.style(titleStyle, text) + "\n"
}

func (r *renderer) exchange(ex models.Exchange) string {
	var b strings.Builder
	b.WriteString(r.heading("Summary"))
	b.WriteString(r.markdown(ex.Response.LegalAnswer))

	if len(ex.Response.Statutes) > 0 {
		b.WriteString("\n" + r.heading("Relevant Laws"))
		for _, s := range ex.Response.Statutes {
			b.WriteString("  " + r.style(statuteBadge, s) + "\n")
		}
	}

	if len(ex.Response.Precedents) > 0 {
		b.WriteString("\n" + r.heading("Precedents"))
		for _, p := range ex.Response.Precedents {
			line := "  " + p.Title
			if p.Date != models.NoDate {
				line += " " + r.style(mutedStyle, "("+p.Date+")")
			}
			b.WriteString(line + "\n")
			if p.Link != "" {
				b.WriteString("    " + r.style(mutedStyle, p.Link) + "\n")
			}
		}
	}

	for _, w := range ex.Warnings {
		b.WriteString(r.style(errorStyle, "warning: ") + w + "\n")
	}
	return b.String()
}

func (r *renderer) cases(res *service.SearchResult) string {
	if len(res.Cards) == 0 {
		return "No cases found. Try a different search query.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d results for %q\n\n", len(res.Cards), res.Query)
	for _, c := range res.Cards {
		title := c.PlainTitle
		if c.TopResult {
			title = r.style(topBadge, "Top Result") + " " + title
		}
		b.WriteString(r.style(titleStyle, title) + "\n")
		b.WriteString("  " + r.style(mutedStyle, fmt.Sprintf("%s · %s · cited by %d", c.Court, c.Date, c.CiteCount)) + "\n")
		if c.Link != "" {
			b.WriteString("  " + c.Link + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (r *renderer) comparison(c *models.Comparison) string {
	var b strings.Builder
	b.WriteString(r.heading(c.Primary.ID))
	b.WriteString(c.Primary.TextClean + "\n")

	b.WriteString("\n" + r.heading("Corresponding sections"))
	if len(c.Related) == 0 {
		b.WriteString("  none\n")
	}
	for _, n := range c.Related {
		label := r.style(statuteBadge, n.ID)
		if n.Heading != "" {
			label += " " + n.Heading
		}
		b.WriteString("  " + label + "\n  " + n.TextClean + "\n")
	}

	if c.Analysis.Summary != "" || len(c.Analysis.Changes) > 0 {
		b.WriteString("\n" + r.heading("Analysis"))
		b.WriteString(r.markdown(c.Analysis.Summary))
		for _, ch := range c.Analysis.Changes {
			b.WriteString("  - " + ch + "\n")
		}
	}
	return b.String()
}

func (r *renderer) uploadStep(n, total int, step models.UploadStep) string {
	prefix := fmt.Sprintf("[%d/%d] %s ", n, total, step.File.Filename)
	if step.Status == models.UploadFailed {
		return prefix + r.style(errorStyle, "failed: "+step.Error)
	}
	msg := "ok"
	if step.Chunks > 0 {
		msg = fmt.Sprintf("ok (%d chunks)", step.Chunks)
	}
	return prefix + r.style(okStyle, msg)
}
