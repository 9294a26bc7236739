// internal/stages/what-they-did/handler.go
package whattheydid

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
	TaskType    = "what-they-did"
	UserMessage = "Failed to fetch what they did"
)

var ErrWhatTheyDidFailed = errors.New("WHAT_THEY_DID_FETCH_FAILED")

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

// Execute summarizes each document; the n-th summary belongs to the n-th document.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	data, err := stages.Post(ctx, h.client, TaskType, h.config.Path, request{Documents: input.Documents}, validation.StringListResponse)
	if err != nil {
		return nil, h.fail(err)
	}

	var summaries []string
	if err := json.Unmarshal(data, &summaries); err != nil {
		stages.RecordFailure(TaskType, stages.FailureDecode)
		return nil, h.fail(fmt.Errorf("decode response: %w", err))
	}
	if err := stages.CheckAligned(TaskType, h.config.Path, len(input.Documents), len(summaries)); err != nil {
		h.logger.Warn("summary count differs from document count", map[string]interface{}{
			"documents": len(input.Documents),
			"summaries": len(summaries),
		})
		return nil, h.fail(err)
	}
	stages.RecordSuccess(TaskType)

	return &Output{Summaries: summaries}, nil
}

func (h *Handler) fail(err error) error {
	return apperrors.NewStageFetchFailedError(
		apperrors.ErrCodeWhatTheyDidFetchFailed,
		UserMessage,
		fmt.Errorf("%w: %w", ErrWhatTheyDidFailed, err),
	)
}
