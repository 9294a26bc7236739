// internal/models/project.go
package models

import "strings"

// prizeLabelMaxLen caps the award label shown on a result card.
const prizeLabelMaxLen = 55

type TeamMember struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Submission struct {
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Awards []string `json:"awards"`
}

type ParsedContent struct {
	URL                 string       `json:"url"`
	DescriptionMarkdown string       `json:"description_markdown"`
	BuiltWith           []string     `json:"built_with"`
	Links               []Link       `json:"links"`
	Submissions         []Submission `json:"submissions"`
	ScrapedAt           string       `json:"scraped_at"`
}

// Project is a scraped hackathon project as returned by the similarity API.
type Project struct {
	Title         string        `json:"title"`
	Tagline       string        `json:"tagline"`
	ProjectURL    string        `json:"project_url"`
	ThumbnailURL  string        `json:"thumbnail_url"`
	Likes         int           `json:"likes"`
	Comments      int           `json:"comments"`
	TeamMembers   []TeamMember  `json:"team_members"`
	IsWinner      bool          `json:"is_winner"`
	ParsedContent ParsedContent `json:"parsed_content"`
}

// PrizeSummary joins every award of every submission with ", ".
func (p Project) PrizeSummary() string {
	perSubmission := make([]string, 0, len(p.ParsedContent.Submissions))
	for _, s := range p.ParsedContent.Submissions {
		perSubmission = append(perSubmission, strings.Join(s.Awards, ", "))
	}
	return strings.Join(perSubmission, ", ")
}

// PrizeLabels returns one short label per submission, derived from its first award.
// Submissions without awards yield no label.
func (p Project) PrizeLabels() []string {
	labels := make([]string, 0, len(p.ParsedContent.Submissions))
	for _, s := range p.ParsedContent.Submissions {
		if len(s.Awards) == 0 {
			continue
		}
		labels = append(labels, shortPrizeLabel(s.Awards[0]))
	}
	return labels
}

func shortPrizeLabel(award string) string {
	label, _, _ := strings.Cut(award, "sponsored by")
	label, _, _ = strings.Cut(label, " &")
	runes := []rune(label)
	if len(runes) > prizeLabelMaxLen {
		runes = runes[:prizeLabelMaxLen]
	}
	return string(runes)
}

// FullThumbnailURL swaps the medium thumbnail for the original-size image.
func (p Project) FullThumbnailURL() string {
	return strings.Replace(p.ThumbnailURL, "medium.jpeg", "original.jpeg", 1)
}
