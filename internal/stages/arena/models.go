package arena

import "encoding/json"

type Input struct {
	ProjectDoc string `json:"projectDoc"`
}

type Output struct {
	Suggestions []string `json:"suggestions"`
}

type request struct {
	ProjectDoc string `json:"project_doc"`
}

// response echoes the projects the arena compared against; only the
// suggestions are kept, so the echo is left undecoded.
type response struct {
	SimilarProjects   []json.RawMessage `json:"similar_projects"`
	SortedSuggestions []string          `json:"sorted_suggestions"`
}
