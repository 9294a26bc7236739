// Package richtext turns model output with **bold** markers into a small
// document tree that the web and terminal front ends render.
package richtext

import (
	"regexp"
	"strings"
)

type RunKind int

const (
	// Raw text is emitted as is (escaped by the HTML renderer).
	Raw RunKind = iota
	// Span is plain text that shares a line with at least one highlight.
	Span
	// Highlight is a bold segment drawn on a colored background.
	Highlight
)

func (k RunKind) String() string {
	switch k {
	case Raw:
		return "raw"
	case Span:
		return "span"
	case Highlight:
		return "highlight"
	default:
		return "unknown"
	}
}

type Run struct {
	Kind  RunKind
	Text  string
	Color string
	URL   string
}

type Line struct {
	Runs []Run
}

// HasHighlight reports whether any run on the line is a highlight.
func (l Line) HasHighlight() bool {
	for _, r := range l.Runs {
		if r.Kind == Highlight {
			return true
		}
	}
	return false
}

type Document struct {
	Lines []Line
}

// Highlights returns every highlight run in document order.
func (d Document) Highlights() []Run {
	var out []Run
	for _, line := range d.Lines {
		for _, r := range line.Runs {
			if r.Kind == Highlight {
				out = append(out, r)
			}
		}
	}
	return out
}

// PlainText drops all markup and joins lines with "\n".
func (d Document) PlainText() string {
	lines := make([]string, len(d.Lines))
	for i, line := range d.Lines {
		var sb strings.Builder
		for _, r := range line.Runs {
			sb.WriteString(r.Text)
		}
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}

var boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// Format splits text into non-blank lines and marks each **bold** segment
// as a highlight with the given color. An empty url means no link.
func Format(text, color, url string) Document {
	var doc Document
	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		doc.Lines = append(doc.Lines, formatLine(raw, color, url))
	}
	return doc
}

func formatLine(line, color, url string) Line {
	matches := boldPattern.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return Line{Runs: []Run{{Kind: Raw, Text: line}}}
	}

	var runs []Run
	plain := func(s string) {
		if s == "" {
			return
		}
		kind := Span
		if strings.TrimSpace(s) == "" {
			kind = Raw
		}
		runs = append(runs, Run{Kind: kind, Text: s})
	}

	pos := 0
	for _, m := range matches {
		plain(line[pos:m[0]])
		runs = append(runs, Run{Kind: Highlight, Text: line[m[2]:m[3]], Color: color, URL: url})
		pos = m[1]
	}
	plain(line[pos:])

	return Line{Runs: runs}
}
