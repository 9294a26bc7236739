// internal/models/similarity.go
package models

import (
	"encoding/json"
	"fmt"
)

// SimilarityResult pairs a project with its similarity score in [0,1].
// On the wire it is the two-element array [score, project].
type SimilarityResult struct {
	Score   float64
	Project Project
}

func (r *SimilarityResult) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("similarity result: %w", err)
	}
	if len(tuple) != 2 {
		return fmt.Errorf("similarity result: expected [score, project], got %d elements", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &r.Score); err != nil {
		return fmt.Errorf("similarity score: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &r.Project); err != nil {
		return fmt.Errorf("similarity project: %w", err)
	}
	return nil
}

func (r SimilarityResult) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{r.Score, r.Project})
}

// PercentLabel formats the score as a percentage with one decimal, e.g. "92.0%".
func (r SimilarityResult) PercentLabel() string {
	return fmt.Sprintf("%.1f%%", r.Score*100)
}

// Descriptions returns the description markdown of every result, in order.
func Descriptions(results []SimilarityResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Project.ParsedContent.DescriptionMarkdown
	}
	return out
}

// Titles returns the project title of every result, in order.
func Titles(results []SimilarityResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Project.Title
	}
	return out
}

// PrizeSummaries returns the joined award labels of every result, in order.
func PrizeSummaries(results []SimilarityResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Project.PrizeSummary()
	}
	return out
}
