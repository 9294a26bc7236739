// internal/stages/how-they-won/handler.go
package howtheywon

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
	TaskType    = "how-they-won"
	UserMessage = "Failed to fetch how they won"
)

var ErrHowTheyWonFailed = errors.New("HOW_THEY_WON_FETCH_FAILED")

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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	req := request{
		Documents: input.Documents,
		Prizes:    input.Prizes,
		Names:     input.Names,
	}

	data, err := stages.Post(ctx, h.client, TaskType, h.config.Path, req, validation.StringListResponse)
	if err != nil {
		return nil, h.fail(err)
	}

	var rationales []string
	if err := json.Unmarshal(data, &rationales); err != nil {
		stages.RecordFailure(TaskType, stages.FailureDecode)
		return nil, h.fail(fmt.Errorf("decode response: %w", err))
	}
	if err := stages.CheckAligned(TaskType, h.config.Path, len(input.Documents), len(rationales)); err != nil {
		return nil, h.fail(err)
	}
	stages.RecordSuccess(TaskType)

	h.logger.Debug("rationales fetched", map[string]interface{}{
		"names": input.Names,
		"count": len(rationales),
	})

	return &Output{Rationales: rationales}, nil
}

func (h *Handler) fail(err error) error {
	return apperrors.NewStageFetchFailedError(
		apperrors.ErrCodeHowTheyWonFetchFailed,
		UserMessage,
		fmt.Errorf("%w: %w", ErrHowTheyWonFailed, err),
	)
}
