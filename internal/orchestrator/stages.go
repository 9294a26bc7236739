package orchestrator

import (
	"context"

	"flightdeck/internal/common/config"
	"flightdeck/internal/common/logger"
	"flightdeck/internal/stages"
	"flightdeck/internal/stages/arena"
	howtheywon "flightdeck/internal/stages/how-they-won"
	"flightdeck/internal/stages/similar"
	whattheydid "flightdeck/internal/stages/what-they-did"
)

type SimilarStage interface {
	Execute(ctx context.Context, input *similar.Input) (*similar.Output, error)
}

type WhatTheyDidStage interface {
	Execute(ctx context.Context, input *whattheydid.Input) (*whattheydid.Output, error)
}

type HowTheyWonStage interface {
	Execute(ctx context.Context, input *howtheywon.Input) (*howtheywon.Output, error)
}

type ArenaStage interface {
	Execute(ctx context.Context, input *arena.Input) (*arena.Output, error)
}

// Stages is the set of remote calls a controller drives.
type Stages struct {
	Similar     SimilarStage
	WhatTheyDid WhatTheyDidStage
	HowTheyWon  HowTheyWonStage
	Arena       ArenaStage
}

// NewStages builds the four stage handlers over one transport.
func NewStages(cfg config.APIConfig, client stages.Poster, log logger.Logger) Stages {
	similarCfg := similar.LoadConfig()
	if cfg.K > 0 {
		similarCfg.K = cfg.K
	}
	similarCfg.AwardFilter = cfg.AwardFilter

	return Stages{
		Similar:     similar.NewHandler(similarCfg, client, log),
		WhatTheyDid: whattheydid.NewHandler(whattheydid.LoadConfig(), client, log),
		HowTheyWon:  howtheywon.NewHandler(howtheywon.LoadConfig(), client, log),
		Arena:       arena.NewHandler(arena.LoadConfig(), client, log),
	}
}
