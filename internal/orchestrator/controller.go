// Package orchestrator drives the call chain behind one page: the
// similarity search, the two summaries that depend on it, and the arena.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "flightdeck/internal/common/errors"
	"flightdeck/internal/common/logger"
	"flightdeck/internal/common/observability"
	"flightdeck/internal/animator"
	"flightdeck/internal/models"
	"flightdeck/internal/stages/arena"
	howtheywon "flightdeck/internal/stages/how-they-won"
	"flightdeck/internal/stages/similar"
	whattheydid "flightdeck/internal/stages/what-they-did"
)

var ErrClosed = errors.New("controller closed")

const (
	runKindSubmit = "submit"
	runKindArena  = "arena"

	statusOK        = "ok"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

// Controller owns the State of one session. All mutation goes through its
// methods; listeners see a copy after every transition.
type Controller struct {
	stages     Stages
	animator   *animator.Animator
	errHandler *apperrors.ErrorHandler
	obs        *observability.Observability
	logger     logger.Logger

	mu          sync.Mutex
	state       State
	gen         uint64
	cancel      context.CancelFunc
	arenaGen    uint64
	arenaCancel context.CancelFunc
	closed      bool

	publishMu sync.Mutex
	listeners []func(State)
}

func NewController(st Stages, steps []animator.Step, obs *observability.Observability, log logger.Logger) *Controller {
	c := &Controller{
		stages:     st,
		errHandler: apperrors.NewErrorHandler(log),
		obs:        obs,
		logger:     log,
	}
	c.state.Progress = animator.Idle(steps)
	c.animator = animator.New(steps, c.setProgress)
	return c
}

// Restore seeds the controller with a previously saved state. In-flight
// flags are dropped since nothing is running any more.
func (c *Controller) Restore(s State) {
	c.mu.Lock()
	s = s.clone()
	s.Loading = Loading{}
	s.Progress = animator.Idle(s.Progress.Steps)
	c.state = s
	c.gen = s.Generation
	c.mu.Unlock()
}

// Subscribe registers fn to receive a snapshot after every transition.
// fn must not call back into mutating controller methods.
func (c *Controller) Subscribe(fn func(State)) {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Submit runs stage 1 and then stages 2 and 3 for input, returning once
// the chain has finished. Stage failures are recorded in the state, not
// returned. Blank input is refused before any call is made, and a newer
// Submit cancels this one.
func (c *Controller) Submit(ctx context.Context, input string) error {
	done, err := c.SubmitAsync(ctx, input)
	if err != nil {
		return err
	}
	<-done
	return nil
}

// SubmitAsync marks the state submitted and runs the chain in the
// background. done is closed when the chain has finished.
func (c *Controller) SubmitAsync(ctx context.Context, input string) (<-chan struct{}, error) {
	if strings.TrimSpace(input) == "" {
		return nil, apperrors.NewEmptyInputError()
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.state.Input = input
	c.state.Submitted = true
	c.state.Generation = gen
	c.state.Error = ""
	c.state.StageErrors = nil
	c.state.Loading.Similar = true
	c.state.Loading.WhatTheyDid = false
	c.state.Loading.HowTheyWon = false

	// An arena still ranking the previous input must not land here.
	arenaRunning := c.state.Loading.Arena
	if c.arenaCancel != nil {
		c.arenaCancel()
		c.arenaCancel = nil
	}
	c.arenaGen++
	c.state.Loading.Arena = false
	c.mu.Unlock()

	if arenaRunning {
		c.animator.Reset()
	}
	c.publish()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		start := time.Now()
		status := c.runChain(runCtx, gen, input)
		c.obs.RecordRun(ctx, runKindSubmit, status, time.Since(start))

		c.logger.Info("submission finished", map[string]interface{}{
			"generation": gen,
			"status":     status,
			"durationMs": time.Since(start).Milliseconds(),
		})
	}()
	return done, nil
}

func (c *Controller) runChain(ctx context.Context, gen uint64, input string) string {
	out, err := c.stages.Similar.Execute(ctx, &similar.Input{DocumentOrLink: input})

	if !c.update(gen, func(s *State) {
		s.Loading.Similar = false
		if err != nil {
			c.recordError(s, similar.TaskType, err)
			return
		}
		s.Results = out.Results
		s.WhatTheyDid = nil
		s.HowTheyWon = nil
		s.Suggestions = nil
		s.ActiveSuggestion = 0
		s.Loading.WhatTheyDid = true
		s.Loading.HowTheyWon = true
	}) {
		return statusCancelled
	}
	if err != nil {
		return statusFailed
	}

	documents := models.Descriptions(out.Results)
	failed := false
	var failedMu sync.Mutex
	markFailed := func() {
		failedMu.Lock()
		failed = true
		failedMu.Unlock()
	}

	// Stage 2 and 3 failures are independent; neither goroutine returns an
	// error so one cannot cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		res, err := c.stages.WhatTheyDid.Execute(ctx, &whattheydid.Input{Documents: documents})
		c.update(gen, func(s *State) {
			s.Loading.WhatTheyDid = false
			if err != nil {
				c.recordError(s, whattheydid.TaskType, err)
				return
			}
			s.WhatTheyDid = res.Summaries
		})
		if err != nil {
			markFailed()
		}
		return nil
	})
	g.Go(func() error {
		res, err := c.stages.HowTheyWon.Execute(ctx, &howtheywon.Input{
			Documents: documents,
			Prizes:    models.PrizeSummaries(out.Results),
			Names:     models.Titles(out.Results),
		})
		c.update(gen, func(s *State) {
			s.Loading.HowTheyWon = false
			if err != nil {
				c.recordError(s, howtheywon.TaskType, err)
				return
			}
			s.HowTheyWon = res.Rationales
		})
		if err != nil {
			markFailed()
		}
		return nil
	})
	_ = g.Wait()

	if c.superseded(gen) {
		return statusCancelled
	}
	if failed {
		return statusFailed
	}
	return statusOK
}

// StartArena ranks generated write-ups for input and returns when the
// call is done. It refuses to run until stage 3 has produced its output.
// A blank input falls back to the last submitted one.
func (c *Controller) StartArena(ctx context.Context, input string) error {
	done, err := c.StartArenaAsync(ctx, input)
	if err != nil {
		return err
	}
	<-done
	return nil
}

// StartArenaAsync flags the arena as loading and runs it in the background.
func (c *Controller) StartArenaAsync(ctx context.Context, input string) (<-chan struct{}, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if !c.state.ArenaReady() {
		c.mu.Unlock()
		return nil, apperrors.NewArenaNotReadyError()
	}
	if strings.TrimSpace(input) == "" {
		input = c.state.Input
	}
	if c.arenaCancel != nil {
		c.arenaCancel()
	}
	c.arenaGen++
	gen := c.arenaGen
	runCtx, cancel := context.WithCancel(ctx)
	c.arenaCancel = cancel
	c.state.Loading.Arena = true
	c.mu.Unlock()
	c.publish()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		c.runArena(ctx, runCtx, gen, input)
	}()
	return done, nil
}

func (c *Controller) runArena(ctx, runCtx context.Context, gen uint64, input string) {
	start := time.Now()
	c.animator.Start(runCtx)
	out, err := c.stages.Arena.Execute(runCtx, &arena.Input{ProjectDoc: input})

	status := statusOK
	resetProgress := true
	c.mu.Lock()
	if gen != c.arenaGen || c.closed {
		status = statusCancelled
		// A newer arena owns the animator while it is loading.
		resetProgress = !c.state.Loading.Arena
	} else {
		c.state.Loading.Arena = false
		if err != nil {
			status = statusFailed
			c.recordError(&c.state, arena.TaskType, err)
		} else {
			c.state.Suggestions = out.Suggestions
			c.state.ActiveSuggestion = 0
		}
	}
	c.mu.Unlock()

	if resetProgress {
		c.animator.Reset()
	}
	if status != statusCancelled {
		c.publish()
	}

	c.obs.RecordRun(ctx, runKindArena, status, time.Since(start))
	c.logger.Info("arena finished", map[string]interface{}{
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
	})
}

// Close cancels every in-flight call and timer. Later calls return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	if c.arenaCancel != nil {
		c.arenaCancel()
	}
	c.mu.Unlock()

	c.animator.Reset()
}

// update applies fn if gen is still current and publishes the result.
func (c *Controller) update(gen uint64, fn func(*State)) bool {
	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		return false
	}
	fn(&c.state)
	c.mu.Unlock()
	c.publish()
	return true
}

func (c *Controller) superseded(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen != c.gen || c.closed
}

// recordError must be called with c.mu held.
func (c *Controller) recordError(s *State, stage string, err error) {
	stdErr := c.errHandler.HandleStageError(stage, err)
	c.obs.RecordStageError(context.Background(), stage, string(stdErr.Code))
	s.Error = stdErr.Message
	s.StageErrors = append(s.StageErrors, StageError{
		Stage:   stage,
		Code:    stdErr.Code,
		Message: stdErr.Message,
		At:      stdErr.Timestamp,
	})
}

func (c *Controller) setProgress(snap animator.Snapshot) {
	c.mu.Lock()
	c.state.Progress = snap
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) publish() {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	if len(c.listeners) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, fn := range c.listeners {
		fn(snap)
	}
}
