package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const similarPayload = `[
  [0.92, {"title": "Sun Tracker", "project_url": "https://devpost.com/software/sun-tracker",
          "thumbnail_url": "https://cdn/medium.jpeg",
          "parsed_content": {"description_markdown": "Tracks the sun",
             "submissions": [{"name": "TreeHacks", "url": "https://treehacks.devpost.com",
                              "awards": ["Best Hardware Hack sponsored by Acme", "Grand Prize & Swag"]}]}}],
  [0.81, {"title": "Heartbeat", "parsed_content": {"description_markdown": "Listens"}}],
  [0.5,  {"title": "Computer", "parsed_content": {"description_markdown": "Computes"}}]
]`

func TestSimilarityResult_UnmarshalTuple(t *testing.T) {
	var results []SimilarityResult
	require.NoError(t, json.Unmarshal([]byte(similarPayload), &results))
	require.Len(t, results, 3)

	assert.Equal(t, 0.92, results[0].Score)
	assert.Equal(t, "Sun Tracker", results[0].Project.Title)
	assert.Equal(t, "Tracks the sun", results[0].Project.ParsedContent.DescriptionMarkdown)
	assert.Equal(t, []string{"Tracks the sun", "Listens", "Computes"}, Descriptions(results))
	assert.Equal(t, []string{"Sun Tracker", "Heartbeat", "Computer"}, Titles(results))
}

func TestSimilarityResult_UnmarshalRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "object instead of tuple", payload: `{"score": 1}`},
		{name: "single element", payload: `[0.4]`},
		{name: "score not a number", payload: `["high", {}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r SimilarityResult
			assert.Error(t, json.Unmarshal([]byte(tt.payload), &r))
		})
	}
}

func TestSimilarityResult_MarshalKeepsTupleForm(t *testing.T) {
	data, err := json.Marshal(SimilarityResult{Score: 0.5, Project: Project{Title: "P"}})
	require.NoError(t, err)

	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 2)
	assert.Equal(t, "0.5", string(raw[0]))
}

func TestSimilarityResult_PercentLabel(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{0.92, "92.0%"},
		{0.81, "81.0%"},
		{0.5, "50.0%"},
		{1, "100.0%"},
		{0.1234, "12.3%"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, SimilarityResult{Score: tt.score}.PercentLabel())
		})
	}
}

func TestProject_PrizeHelpers(t *testing.T) {
	var results []SimilarityResult
	require.NoError(t, json.Unmarshal([]byte(similarPayload), &results))
	p := results[0].Project

	assert.Equal(t, "Best Hardware Hack sponsored by Acme, Grand Prize & Swag", p.PrizeSummary())
	assert.Equal(t, []string{"Best Hardware Hack "}, p.PrizeLabels())
	assert.Equal(t, "https://cdn/original.jpeg", p.FullThumbnailURL())
	assert.Equal(t, []string{"Best Hardware Hack sponsored by Acme, Grand Prize & Swag", "", ""}, PrizeSummaries(results))
}

func TestProject_PrizeLabelsTruncateAndCut(t *testing.T) {
	long := "An Extremely Long Award Name That Keeps Going And Going Past The Limit"
	p := Project{ParsedContent: ParsedContent{Submissions: []Submission{
		{Awards: []string{long}},
		{Awards: []string{"Runner Up & Honorable Mention"}},
		{Awards: nil},
	}}}

	labels := p.PrizeLabels()
	require.Len(t, labels, 2)
	assert.Equal(t, long[:55], labels[0])
	assert.Equal(t, "Runner Up", labels[1])
}
