package blog

import (
	"html"
	"regexp"
	"strings"
)

var boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// RenderHTML applies the minimal, deliberately lossy inline transformer
// used on post detail pages: headings (levels 1-3), bold and line breaks.
// Everything else in the markdown-like source is passed through as
// escaped text.
func RenderHTML(content string) string {
	var b strings.Builder
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "### "):
			b.WriteString("<h3>" + renderInline(strings.TrimPrefix(line, "### ")) + "</h3>")
		case strings.HasPrefix(line, "## "):
			b.WriteString("<h2>" + renderInline(strings.TrimPrefix(line, "## ")) + "</h2>")
		case strings.HasPrefix(line, "# "):
			b.WriteString("<h1>" + renderInline(strings.TrimPrefix(line, "# ")) + "</h1>")
		default:
			b.WriteString(renderInline(line))
			if i < len(lines)-1 {
				b.WriteString("<br>")
			}
		}
	}
	return b.String()
}

func renderInline(s string) string {
	escaped := html.EscapeString(s)
	return boldPattern.ReplaceAllString(escaped, "<strong>$1</strong>")
}
