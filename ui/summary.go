package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"dataviz/domain/core"
	"dataviz/domain/dataset"
	"dataviz/internal/schema"
)

// summaryMarkdown describes a cached dataset and its column profiles
func summaryMarkdown(ds *dataset.Dataset, profiles []schema.ColumnProfile) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(ds.Name))
	fmt.Fprintf(&b, "- **Rows:** %d\n", ds.RecordCount)
	fmt.Fprintf(&b, "- **Columns:** %d\n", ds.FieldCount)
	fmt.Fprintf(&b, "- **Loaded:** %s\n", ds.LoadedAt.UTC().Format(time.RFC3339))
	if !ds.ContentHash.IsEmpty() {
		fmt.Fprintf(&b, "- **Content hash:** `%s`\n", core.Hash(ds.ContentHash).Short())
	}
	b.WriteString("\n## Columns\n\n")

	if len(profiles) == 0 {
		b.WriteString("_No columns._\n")
		return []byte(b.String())
	}

	b.WriteString("| Column | Type | Missing | Unique | Min | Mean | Max |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
	for _, p := range profiles {
		lo, mean, hi := "", "", ""
		if p.Numeric != nil && p.Numeric.Count > 0 {
			lo = formatStat(p.Numeric.Min)
			mean = formatStat(p.Numeric.Mean)
			hi = formatStat(p.Numeric.Max)
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %s | %s | %s |\n",
			escapeMarkdown(p.Name), p.Type, p.Missing, p.Unique, lo, mean, hi)
	}
	return []byte(b.String())
}

// renderMarkdown converts md to HTML. Raw HTML in the source is dropped.
func renderMarkdown(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML,
	})
	return markdown.ToHTML(md, p, renderer)
}

// renderSummaryPage wraps the rendered summary in the page template
func (s *Server) renderSummaryPage(ds *dataset.Dataset, profiles []schema.ColumnProfile) ([]byte, error) {
	var buf bytes.Buffer
	err := s.templates.ExecuteTemplate(&buf, "summary.html", struct {
		Name string
		Body template.HTML
	}{
		Name: ds.Name,
		Body: template.HTML(renderMarkdown(summaryMarkdown(ds, profiles))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render summary: %w", err)
	}
	return buf.Bytes(), nil
}

func formatStat(x float64) string {
	return fmt.Sprintf("%.4g", x)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`, "<", "&lt;", ">", "&gt;",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
