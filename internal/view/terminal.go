package view

import (
	"fmt"
	"io"
	"strings"

	"flightdeck/internal/orchestrator"
	"flightdeck/internal/richtext"
)

// WriteText prints the state the way the page lays it out, for the CLI.
// With color on, highlighted phrases are bold.
func WriteText(w io.Writer, s orchestrator.State, color bool) error {
	var b strings.Builder

	if s.Error != "" {
		fmt.Fprintf(&b, "error: %s\n\n", s.Error)
	}

	if len(s.Results) > 0 {
		fmt.Fprintf(&b, "%s\n", ResultsHeading)
		for i, card := range BuildCards(s.Results) {
			fmt.Fprintf(&b, "  %d. %s (%s)", i+1, card.Title, card.Percent)
			if card.URL != "" {
				fmt.Fprintf(&b, " %s", card.URL)
			}
			b.WriteString("\n")
			for _, prize := range card.Prizes {
				fmt.Fprintf(&b, "     prize: %s\n", prize)
			}
		}
		b.WriteString("\n")
	}

	if winner, ok := s.WinningSuggestion(); ok {
		fmt.Fprintf(&b, "%s\n\n%s\n", WinnerHeading, strings.TrimSpace(winner))
		_, err := io.WriteString(w, b.String())
		return err
	}

	writeSection(&b, WhatTheyDidHeading, s.WhatTheyDid, WhatTheyDidColor, color)
	writeSection(&b, HowTheyWonHeading, s.HowTheyWon, HowTheyWonColor, color)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, heading string, entries []string, hl string, color bool) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n", heading)
	for _, text := range entries {
		doc := richtext.Format(text, hl, "")
		if len(doc.Lines) == 0 {
			continue
		}
		for _, line := range strings.Split(richtext.Terminal(doc, color), "\n") {
			fmt.Fprintf(b, "  %s\n", line)
		}
	}
	b.WriteString("\n")
}

// WriteProgress prints one progress line per step.
func WriteProgress(w io.Writer, s orchestrator.State) error {
	for _, item := range BuildProgress(s) {
		marker := " "
		switch item.Status {
		case StepCurrent:
			marker = ">"
		case StepCompleted:
			marker = "x"
		}
		if _, err := fmt.Fprintf(w, "[%s] %s\n", marker, item.Message); err != nil {
			return err
		}
	}
	return nil
}
