package render

import (
	"bytes"
	"strings"

	"godescribe/domain/stats/describe"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown renders the report as a GitHub table with one row per statistic
func Markdown(report *describe.Report) []byte {
	var buf bytes.Buffer
	records := report.Records()
	if len(records) == 0 {
		buf.WriteString("_No numeric columns._\n")
		return buf.Bytes()
	}

	buf.WriteString("| |")
	for _, rec := range records {
		buf.WriteString(" " + escapeCell(rec.Name()) + " |")
	}
	buf.WriteString("\n|---|")
	for range records {
		buf.WriteString("---:|")
	}
	buf.WriteString("\n")

	for i, key := range describe.Keys() {
		buf.WriteString("| " + escapeCell(string(key)) + " |")
		for _, rec := range records {
			buf.WriteString(" " + FormatValue(rec.Stats()[i]) + " |")
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// HTML renders the Markdown table to an HTML fragment
func HTML(report *describe.Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse(Markdown(report))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
