package whattheydid

type Input struct {
	Documents []string `json:"documents"`
}

type Output struct {
	Summaries []string `json:"summaries"`
}

type request struct {
	Documents []string `json:"documents"`
}
