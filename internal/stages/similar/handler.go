// internal/stages/similar/handler.go
package similar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "flightdeck/internal/common/errors"
	"flightdeck/internal/common/logger"
	"flightdeck/internal/common/validation"
	"flightdeck/internal/models"
	"flightdeck/internal/stages"
)

const (
	TaskType = "similar"

	// UserMessage is shown in the error banner when this stage fails.
	UserMessage = "Failed to fetch similar projects"
)

var ErrSimilarFailed = errors.New("SIMILAR_FETCH_FAILED")

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

// Execute asks the search service for the projects closest to the input.
// The result order is the service's ranking and is kept as is.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	req := request{
		DocumentOrLink: input.DocumentOrLink,
		K:              h.config.K,
	}
	if h.config.AwardFilter != "" {
		req.Filter = &Filter{Award: h.config.AwardFilter}
	}

	data, err := stages.Post(ctx, h.client, TaskType, h.config.Path, req, validation.SimilarResponse)
	if err != nil {
		return nil, h.fail(err)
	}

	var results []models.SimilarityResult
	if err := json.Unmarshal(data, &results); err != nil {
		stages.RecordFailure(TaskType, stages.FailureDecode)
		return nil, h.fail(fmt.Errorf("decode response: %w", err))
	}
	stages.RecordSuccess(TaskType)

	h.logger.Info("similar projects fetched", map[string]interface{}{
		"k":           h.config.K,
		"resultCount": len(results),
	})

	return &Output{Results: results}, nil
}

func (h *Handler) fail(err error) error {
	return apperrors.NewStageFetchFailedError(
		apperrors.ErrCodeSimilarFetchFailed,
		UserMessage,
		fmt.Errorf("%w: %w", ErrSimilarFailed, err),
	)
}
