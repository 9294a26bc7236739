// internal/stages/arena/handler.go
package arena

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "flightdeck/internal/common/errors"
	"flightdeck/internal/common/logger"
	"flightdeck/internal/common/validation"
	"flightdeck/internal/stages"
)

const (
	TaskType    = "arena"
	UserMessage = "Failed to fetch suggestions"
)

var ErrArenaFailed = errors.New("ARENA_FETCH_FAILED")

type Handler struct {
	config *Config
	client stages.Poster
	logger logger.Logger
}

func NewHandler(config *Config, client stages.Poster, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute runs the ranking arena for the user's project and returns the
// generated write-ups best first.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	data, err := stages.Post(ctx, h.client, TaskType, h.config.Path, request{ProjectDoc: input.ProjectDoc}, validation.ArenaResponse)
	if err != nil {
		return nil, h.fail(err)
	}

	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		stages.RecordFailure(TaskType, stages.FailureDecode)
		return nil, h.fail(fmt.Errorf("decode response: %w", err))
	}
	stages.RecordSuccess(TaskType)

	h.logger.Info("arena finished", map[string]interface{}{
		"suggestions":     len(resp.SortedSuggestions),
		"similarProjects": len(resp.SimilarProjects),
	})

	return &Output{Suggestions: resp.SortedSuggestions}, nil
}

func (h *Handler) fail(err error) error {
	return apperrors.NewStageFetchFailedError(
		apperrors.ErrCodeArenaFetchFailed,
		UserMessage,
		fmt.Errorf("%w: %w", ErrArenaFailed, err),
	)
}
