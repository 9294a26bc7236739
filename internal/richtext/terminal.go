package richtext

import "strings"

const (
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// Terminal renders highlights in bold. With color off the markers are
// dropped and only the text remains.
func Terminal(doc Document, color bool) string {
	if !color {
		return doc.PlainText()
	}

	lines := make([]string, len(doc.Lines))
	for i, line := range doc.Lines {
		var sb strings.Builder
		for _, r := range line.Runs {
			if r.Kind == Highlight {
				sb.WriteString(ansiBold)
				sb.WriteString(r.Text)
				sb.WriteString(ansiReset)
				continue
			}
			sb.WriteString(r.Text)
		}
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}
