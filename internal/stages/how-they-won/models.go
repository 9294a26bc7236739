package howtheywon

// Input holds three slices aligned by index with the similarity results.
type Input struct {
	Documents []string `json:"documents"`
	Prizes    []string `json:"prizes"`
	Names     []string `json:"names"`
}

type Output struct {
	Rationales []string `json:"rationales"`
}

type request struct {
	Documents []string `json:"documents"`
	Prizes    []string `json:"prizes"`
	Names     []string `json:"names"`
}
