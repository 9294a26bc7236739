package orchestrator

import (
	"time"

	apperrors "flightdeck/internal/common/errors"
	"flightdeck/internal/animator"
	"flightdeck/internal/models"
)

// Loading holds one in-flight flag per stage.
type Loading struct {
	Similar     bool `json:"similar"`
	WhatTheyDid bool `json:"whatTheyDid"`
	HowTheyWon  bool `json:"howTheyWon"`
	Arena       bool `json:"arena"`
}

// Any reports whether some stage is still running.
func (l Loading) Any() bool {
	return l.Similar || l.WhatTheyDid || l.HowTheyWon || l.Arena
}

// StageError is one recorded stage failure.
type StageError struct {
	Stage   string              `json:"stage"`
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	At      time.Time           `json:"at"`
}

// State is everything the page shows. WhatTheyDid and HowTheyWon are
// aligned by index with Results.
type State struct {
	Input            string                    `json:"input"`
	Submitted        bool                      `json:"submitted"`
	Generation       uint64                    `json:"generation"`
	Results          []models.SimilarityResult `json:"results"`
	WhatTheyDid      []string                  `json:"whatTheyDid"`
	HowTheyWon       []string                  `json:"howTheyWon"`
	Suggestions      []string                  `json:"suggestions"`
	ActiveSuggestion int                       `json:"activeSuggestion"`
	Error            string                    `json:"error"`
	StageErrors      []StageError              `json:"stageErrors"`
	Loading          Loading                   `json:"loading"`
	Progress         animator.Snapshot         `json:"progress"`
}

// ArenaReady reports whether the arena may be started.
func (s State) ArenaReady() bool {
	return len(s.HowTheyWon) > 0
}

// WinningSuggestion returns the selected suggestion, if any.
func (s State) WinningSuggestion() (string, bool) {
	if s.ActiveSuggestion < 0 || s.ActiveSuggestion >= len(s.Suggestions) {
		return "", false
	}
	return s.Suggestions[s.ActiveSuggestion], true
}

func (s State) clone() State {
	out := s
	out.Results = append([]models.SimilarityResult(nil), s.Results...)
	out.WhatTheyDid = append([]string(nil), s.WhatTheyDid...)
	out.HowTheyWon = append([]string(nil), s.HowTheyWon...)
	out.Suggestions = append([]string(nil), s.Suggestions...)
	out.StageErrors = append([]StageError(nil), s.StageErrors...)
	out.Progress.Completed = append([]bool(nil), s.Progress.Completed...)
	out.Progress.Steps = append([]animator.Step(nil), s.Progress.Steps...)
	return out
}
