package similar

import "flightdeck/internal/models"

type Input struct {
	DocumentOrLink string `json:"documentOrLink"`
}

type Output struct {
	Results []models.SimilarityResult `json:"results"`
}

type request struct {
	DocumentOrLink string  `json:"document_or_link"`
	K              int     `json:"k"`
	Filter         *Filter `json:"filter,omitempty"`
}

type Filter struct {
	Award string `json:"award"`
}
