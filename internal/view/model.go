// Package view turns controller state into what the page and the terminal
// show. Everything here is a pure function of orchestrator.State.
package view

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"

	"flightdeck/internal/models"
	"flightdeck/internal/orchestrator"
	"flightdeck/internal/richtext"
)

const (
	WhatTheyDidColor = "#FFDEB3"
	HowTheyWonColor  = "#EFD4FF"

	SkeletonCount = 3

	WhatTheyDidHeading = "Let me first assess what they did.."
	HowTheyWonHeading  = "Let me assess why they won..."
	ArenaButtonLabel   = "Start the Arena"
	WinnerHeading      = "The winning writeup out of 10 ideas is..."
	ResultsHeading     = "Related Winners"
)

var cardColors = []string{"bg-pink-200", "bg-blue-200", "bg-purple-200"}

// CardColor cycles pink, blue, purple by result position.
func CardColor(index int) string {
	return cardColors[index%len(cardColors)]
}

type Card struct {
	Title     string
	Tagline   string
	URL       string
	Thumbnail string
	Percent   string
	Color     string
	Prizes    []string
	Likes     int
	Comments  int
}

type Section struct {
	Heading string
	Loading bool
	Entries []richtext.Document
}

type ProgressItem struct {
	Message string
	Status  string
}

const (
	StepCurrent   = "current"
	StepCompleted = "completed"
	StepPending   = "pending"
)

// Page is the view model for one render of the session page.
type Page struct {
	SessionID string
	Input     string
	Submitted bool
	Error     string
	Refresh   bool

	ShowResults bool
	Skeletons   int
	Cards       []Card
	DimCards    bool

	WhatTheyDid Section
	HowTheyWon  Section

	ShowArenaButton bool
	ArenaLoading    bool
	Progress        []ProgressItem

	HasWinner bool
	Winner    template.HTML
}

// Build derives the page from state.
func Build(sessionID string, s orchestrator.State) Page {
	p := Page{
		SessionID:   sessionID,
		Input:       s.Input,
		Submitted:   s.Submitted,
		Error:       s.Error,
		Refresh:     s.Loading.Any(),
		ShowResults: len(s.Results) > 0 || s.Loading.Similar,
		DimCards:    s.Loading.WhatTheyDid,
	}

	if s.Loading.Similar {
		p.Skeletons = SkeletonCount
	} else {
		p.Cards = BuildCards(s.Results)
	}

	p.WhatTheyDid = Section{Heading: WhatTheyDidHeading, Loading: s.Loading.WhatTheyDid}
	for i, text := range s.WhatTheyDid {
		p.WhatTheyDid.Entries = append(p.WhatTheyDid.Entries, richtext.Format(text, WhatTheyDidColor, projectURL(s.Results, i)))
	}

	p.HowTheyWon = Section{Heading: HowTheyWonHeading, Loading: s.Loading.HowTheyWon}
	for _, text := range s.HowTheyWon {
		p.HowTheyWon.Entries = append(p.HowTheyWon.Entries, richtext.Format(text, HowTheyWonColor, ""))
	}

	p.ShowArenaButton = s.ArenaReady()
	p.ArenaLoading = s.Loading.Arena
	if s.Loading.Arena {
		p.Progress = BuildProgress(s)
	}

	if winner, ok := s.WinningSuggestion(); ok {
		p.HasWinner = true
		p.Winner = Markdown(winner)
	}

	return p
}

func BuildCards(results []models.SimilarityResult) []Card {
	cards := make([]Card, 0, len(results))
	for i, r := range results {
		cards = append(cards, Card{
			Title:     r.Project.Title,
			Tagline:   r.Project.Tagline,
			URL:       r.Project.ProjectURL,
			Thumbnail: r.Project.FullThumbnailURL(),
			Percent:   r.PercentLabel(),
			Color:     CardColor(i),
			Prizes:    r.Project.PrizeLabels(),
			Likes:     r.Project.Likes,
			Comments:  r.Project.Comments,
		})
	}
	return cards
}

// BuildProgress marks the current step, then completed ones, then the rest.
func BuildProgress(s orchestrator.State) []ProgressItem {
	items := make([]ProgressItem, len(s.Progress.Steps))
	for i, step := range s.Progress.Steps {
		status := StepPending
		switch {
		case s.Progress.Current == i:
			status = StepCurrent
		case i < len(s.Progress.Completed) && s.Progress.Completed[i]:
			status = StepCompleted
		}
		items[i] = ProgressItem{Message: step.Message, Status: status}
	}
	return items
}

func projectURL(results []models.SimilarityResult, i int) string {
	if i < len(results) {
		return results[i].Project.ProjectURL
	}
	return ""
}

// goldmark drops raw HTML unless html.WithUnsafe is set.
var md = goldmark.New()

// Markdown renders a suggestion. Raw HTML in the source is omitted.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
