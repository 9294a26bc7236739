package richtext

import (
	"html"
	"html/template"
	"strings"
)

const highlightClass = "font-bold text-black py-0.5 px-1 rounded-sm"

// HTML renders the document with every piece of text escaped. Lines are
// joined with "\n" so a pre-wrap container keeps the line breaks.
func HTML(doc Document) template.HTML {
	lines := make([]string, len(doc.Lines))
	for i, line := range doc.Lines {
		var sb strings.Builder
		for _, r := range line.Runs {
			writeRun(&sb, r)
		}
		lines[i] = sb.String()
	}
	return template.HTML(strings.Join(lines, "\n"))
}

func writeRun(sb *strings.Builder, r Run) {
	text := html.EscapeString(r.Text)
	switch r.Kind {
	case Span:
		sb.WriteString("<span>")
		sb.WriteString(text)
		sb.WriteString("</span>")
	case Highlight:
		sb.WriteString("<a")
		if r.URL != "" && safeURL(r.URL) {
			sb.WriteString(` href="`)
			sb.WriteString(html.EscapeString(r.URL))
			sb.WriteString(`" target="_blank" rel="noopener noreferrer"`)
		}
		sb.WriteString(` style="background-color: `)
		sb.WriteString(html.EscapeString(r.Color))
		sb.WriteString(`" class="`)
		sb.WriteString(highlightClass)
		sb.WriteString(`">`)
		sb.WriteString(text)
		sb.WriteString("</a>")
	default:
		sb.WriteString(text)
	}
}

func safeURL(u string) bool {
	lower := strings.ToLower(strings.TrimSpace(u))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
