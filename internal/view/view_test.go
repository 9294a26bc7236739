package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdeck/internal/animator"
	"flightdeck/internal/models"
	"flightdeck/internal/orchestrator"
)

func results() []models.SimilarityResult {
	mk := func(score float64, title, url string) models.SimilarityResult {
		return models.SimilarityResult{Score: score, Project: models.Project{
			Title:        title,
			ProjectURL:   url,
			ThumbnailURL: "https://img.example/" + title + "/medium.jpeg",
			ParsedContent: models.ParsedContent{
				Submissions: []models.Submission{{Awards: []string{"Best Hardware Hack sponsored by Acme"}}},
			},
		}}
	}
	return []models.SimilarityResult{
		mk(0.92, "P1", "https://devpost.com/software/p1"),
		mk(0.81, "P2", "https://devpost.com/software/p2"),
		mk(0.5, "P3", "https://devpost.com/software/p3"),
		mk(0.1, "P4", "https://devpost.com/software/p4"),
	}
}

func TestBuild_SkeletonsWhileSimilarLoads(t *testing.T) {
	p := Build("id", orchestrator.State{Submitted: true, Loading: orchestrator.Loading{Similar: true}})

	assert.True(t, p.ShowResults)
	assert.Equal(t, 3, p.Skeletons)
	assert.Empty(t, p.Cards)
	assert.True(t, p.Refresh)
}

func TestBuild_Cards(t *testing.T) {
	p := Build("id", orchestrator.State{
		Submitted: true,
		Results:   results(),
		Loading:   orchestrator.Loading{WhatTheyDid: true},
	})

	require.Len(t, p.Cards, 4)
	assert.Zero(t, p.Skeletons)
	assert.True(t, p.DimCards)

	assert.Equal(t, []string{"92.0%", "81.0%", "50.0%", "10.0%"}, []string{p.Cards[0].Percent, p.Cards[1].Percent, p.Cards[2].Percent, p.Cards[3].Percent})
	assert.Equal(t, []string{"bg-pink-200", "bg-blue-200", "bg-purple-200", "bg-pink-200"}, []string{p.Cards[0].Color, p.Cards[1].Color, p.Cards[2].Color, p.Cards[3].Color})
	assert.Equal(t, "https://img.example/P1/original.jpeg", p.Cards[0].Thumbnail)
	assert.Equal(t, []string{"Best Hardware Hack "}, p.Cards[0].Prizes)
}

func TestBuild_NothingBeforeSubmit(t *testing.T) {
	p := Build("", orchestrator.State{})

	assert.False(t, p.Submitted)
	assert.False(t, p.ShowResults)
	assert.False(t, p.ShowArenaButton)
	assert.False(t, p.Refresh)
}

func TestBuild_SectionsUseColorsAndLinks(t *testing.T) {
	p := Build("id", orchestrator.State{
		Submitted:   true,
		Results:     results()[:2],
		WhatTheyDid: []string{"Built **a tracker**", "Made **a bot**", "extra **entry**"},
		HowTheyWon:  []string{"Won by **polish**"},
	})

	require.Len(t, p.WhatTheyDid.Entries, 3)
	first := p.WhatTheyDid.Entries[0].Highlights()
	require.Len(t, first, 1)
	assert.Equal(t, "#FFDEB3", first[0].Color)
	assert.Equal(t, "https://devpost.com/software/p1", first[0].URL)
	assert.Equal(t, "https://devpost.com/software/p2", p.WhatTheyDid.Entries[1].Highlights()[0].URL)
	assert.Empty(t, p.WhatTheyDid.Entries[2].Highlights()[0].URL, "entries past the result list get no link")

	how := p.HowTheyWon.Entries[0].Highlights()
	require.Len(t, how, 1)
	assert.Equal(t, "#EFD4FF", how[0].Color)
	assert.Empty(t, how[0].URL)

	assert.True(t, p.ShowArenaButton)
}

func TestBuild_ArenaButtonOnlyWithHowTheyWon(t *testing.T) {
	p := Build("id", orchestrator.State{Submitted: true, Results: results(), WhatTheyDid: []string{"w"}})
	assert.False(t, p.ShowArenaButton)
}

func TestBuild_Progress(t *testing.T) {
	steps := []animator.Step{{Message: "a", Duration: time.Second}, {Message: "b"}, {Message: "c"}}
	s := orchestrator.State{
		Submitted:  true,
		HowTheyWon: []string{"h"},
		Loading:    orchestrator.Loading{Arena: true},
		Progress:   animator.Snapshot{Current: 1, Completed: []bool{true, false, false}, Steps: steps},
	}

	p := Build("id", s)
	require.Len(t, p.Progress, 3)
	assert.Equal(t, StepCompleted, p.Progress[0].Status)
	assert.Equal(t, StepCurrent, p.Progress[1].Status)
	assert.Equal(t, StepPending, p.Progress[2].Status)
	assert.True(t, p.ArenaLoading)

	var buf bytes.Buffer
	require.NoError(t, WriteProgress(&buf, s))
	assert.Equal(t, "[x] a\n[>] b\n[ ] c\n", buf.String())
}

func TestBuild_Winner(t *testing.T) {
	p := Build("id", orchestrator.State{
		Submitted:   true,
		Results:     results(),
		HowTheyWon:  []string{"h"},
		Suggestions: []string{"# Solar\n\nA <script>x</script> tracker", "runner up"},
	})

	require.True(t, p.HasWinner)
	html := string(p.Winner)
	assert.Contains(t, html, "<h1>Solar</h1>")
	assert.NotContains(t, html, "<script>")
}

func TestMarkdown(t *testing.T) {
	assert.Equal(t, "<p><strong>bold</strong> text</p>\n", string(Markdown("**bold** text")))
}

func TestRender_Page(t *testing.T) {
	tests := []struct {
		name     string
		state    orchestrator.State
		contains []string
		excludes []string
	}{
		{
			name:     "landing",
			state:    orchestrator.State{},
			contains: []string{`<form class="start" method="post" action="/submit">`, "Flightdeck"},
			excludes: []string{"Related Winners", `http-equiv="refresh"`},
		},
		{
			name:     "loading",
			state:    orchestrator.State{Submitted: true, Input: "x", Loading: orchestrator.Loading{Similar: true}},
			contains: []string{"Related Winners", "card skeleton", `http-equiv="refresh"`},
			excludes: []string{"Start the Arena", `class="start"`},
		},
		{
			name: "results with error",
			state: orchestrator.State{
				Submitted:   true,
				Results:     results(),
				WhatTheyDid: []string{"Built <b>**a tracker**</b>"},
				HowTheyWon:  []string{"h"},
				Error:       "Failed to fetch suggestions",
			},
			contains: []string{
				"92.0%",
				`<div class="error">Failed to fetch suggestions</div>`,
				"Let me first assess what they did..",
				"Let me assess why they won...",
				"Start the Arena",
				`action="/s/abc/arena"`,
				"&lt;b&gt;",
			},
			excludes: []string{"winning writeup"},
		},
		{
			name: "winner",
			state: orchestrator.State{
				Submitted:   true,
				Results:     results(),
				HowTheyWon:  []string{"h"},
				Suggestions: []string{"**best**"},
			},
			contains: []string{"The winning writeup out of <b>10 ideas</b> is...", "<strong>best</strong>"},
			excludes: []string{"Let me first assess", "Start the Arena"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, Build("abc", tt.state)))
			out := buf.String()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestWriteText(t *testing.T) {
	s := orchestrator.State{
		Results:     results()[:1],
		WhatTheyDid: []string{"Built **a tracker**\n\nfor sun"},
		HowTheyWon:  []string{"  "},
		Error:       "Failed to fetch how they won",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s, false))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "error: Failed to fetch how they won\n"))
	assert.Contains(t, out, "1. P1 (92.0%) https://devpost.com/software/p1")
	assert.Contains(t, out, "prize: Best Hardware Hack ")
	assert.Contains(t, out, "  Built a tracker\n  for sun\n")

	buf.Reset()
	require.NoError(t, WriteText(&buf, s, true))
	assert.Contains(t, buf.String(), "Built \x1b[1ma tracker\x1b[0m")

	buf.Reset()
	s.Suggestions = []string{"# Winner\n"}
	require.NoError(t, WriteText(&buf, s, false))
	assert.Contains(t, buf.String(), "The winning writeup out of 10 ideas is...\n\n# Winner\n")
	assert.NotContains(t, buf.String(), WhatTheyDidHeading)
}

func TestCardColor(t *testing.T) {
	assert.Equal(t, "bg-pink-200", CardColor(0))
	assert.Equal(t, "bg-purple-200", CardColor(5))
}
