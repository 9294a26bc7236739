// Package animator steps through the progress messages shown while the
// arena call is in flight. The sequence is cosmetic: it does not track the
// real call and is reset once that call returns.
package animator

import (
	"context"
	"sync"
	"time"

	"flightdeck/internal/common/config"
)

type Step struct {
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// StepsFromConfig converts configured steps (durations in milliseconds).
func StepsFromConfig(steps []config.AnimatorStep) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = Step{Message: s.Message, Duration: config.GetDuration(s.Duration)}
	}
	return out
}

// Snapshot is the visible progress state. Current is -1 when idle.
type Snapshot struct {
	Current   int    `json:"current"`
	Completed []bool `json:"completed"`
	Steps     []Step `json:"steps"`
}

// Running reports whether a sequence has been started and not reset.
func (s Snapshot) Running() bool {
	return s.Current >= 0
}

// CompletedCount is the number of steps marked done.
func (s Snapshot) CompletedCount() int {
	n := 0
	for _, done := range s.Completed {
		if done {
			n++
		}
	}
	return n
}

// Idle returns the snapshot of an animator that has never started.
func Idle(steps []Step) Snapshot {
	return Snapshot{
		Current:   -1,
		Completed: make([]bool, len(steps)),
		Steps:     append([]Step(nil), steps...),
	}
}

type Animator struct {
	steps    []Step
	onChange func(Snapshot)

	mu        sync.Mutex
	current   int
	completed []bool
	gen       uint64
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New builds an idle animator. onChange, if set, receives a snapshot after
// every transition and is called without any lock held.
func New(steps []Step, onChange func(Snapshot)) *Animator {
	return &Animator{
		steps:     append([]Step(nil), steps...),
		onChange:  onChange,
		current:   -1,
		completed: make([]bool, len(steps)),
	}
}

// Start restarts the sequence from the first step. Cancelling ctx stops
// the pending timers without resetting what is shown.
func (a *Animator) Start(ctx context.Context) {
	a.stop()

	a.mu.Lock()
	a.gen++
	gen := a.gen
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.completed = make([]bool, len(a.steps))
	if len(a.steps) > 0 {
		a.current = 0
	} else {
		a.current = -1
	}
	snap := a.snapshotLocked()
	a.wg.Add(1)
	a.mu.Unlock()

	a.emit(snap)
	go a.run(runCtx, gen)
}

func (a *Animator) run(ctx context.Context, gen uint64) {
	defer a.wg.Done()

	for i, step := range a.steps {
		timer := time.NewTimer(step.Duration)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		a.mu.Lock()
		if a.gen != gen {
			a.mu.Unlock()
			return
		}
		a.completed[i] = true
		if i+1 < len(a.steps) {
			a.current = i + 1
		}
		snap := a.snapshotLocked()
		a.mu.Unlock()

		a.emit(snap)
	}
}

// Reset stops the sequence, waits for in-flight updates to drain and
// returns to idle.
func (a *Animator) Reset() {
	a.stop()

	a.mu.Lock()
	a.gen++
	a.current = -1
	a.completed = make([]bool, len(a.steps))
	snap := a.snapshotLocked()
	a.mu.Unlock()

	a.emit(snap)
}

// Wait blocks until the running sequence finishes or is cancelled.
func (a *Animator) Wait() {
	a.wg.Wait()
}

func (a *Animator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Animator) stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
}

func (a *Animator) snapshotLocked() Snapshot {
	return Snapshot{
		Current:   a.current,
		Completed: append([]bool(nil), a.completed...),
		Steps:     append([]Step(nil), a.steps...),
	}
}

func (a *Animator) emit(s Snapshot) {
	if a.onChange != nil {
		a.onChange(s)
	}
}
