package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "flightdeck/internal/common/errors"
	"flightdeck/internal/common/logger"
	"flightdeck/internal/common/metrics"
	"flightdeck/internal/orchestrator"
)

// ControllerFactory builds a fresh controller for a session.
type ControllerFactory func() *orchestrator.Controller

type entry struct {
	session    *Session
	controller *orchestrator.Controller
	lastUsed   time.Time
}

// Manager maps session ids to live controllers. Every state transition is
// written to the Store, so a session whose controller was evicted (or that
// was created by another process sharing Redis) is rebuilt from its last
// snapshot.
type Manager struct {
	store   Store
	factory ControllerFactory
	ttl     time.Duration
	logger  logger.Logger

	mu   sync.Mutex
	live map[string]*entry
}

func NewManager(store Store, factory ControllerFactory, ttl time.Duration, log logger.Logger) *Manager {
	return &Manager{
		store:   store,
		factory: factory,
		ttl:     ttl,
		logger:  log,
		live:    make(map[string]*entry),
	}
}

// Create starts a new session with an empty state.
func (m *Manager) Create(ctx context.Context) (string, *orchestrator.Controller, error) {
	id := uuid.NewString()
	sess := New(id, m.ttl)
	ctrl := m.factory()
	sess.State = ctrl.Snapshot()

	if err := m.store.Save(ctx, sess); err != nil {
		ctrl.Close()
		return "", nil, err
	}

	m.attach(sess, ctrl)
	m.logger.Debug("session created", map[string]interface{}{"sessionId": id})
	return id, ctrl, nil
}

// Get returns the live controller for id, restoring it from the store if
// needed.
func (m *Manager) Get(ctx context.Context, id string) (*orchestrator.Controller, error) {
	m.mu.Lock()
	if e, ok := m.live[id]; ok {
		e.lastUsed = time.Now()
		m.mu.Unlock()
		return e.controller, nil
	}
	m.mu.Unlock()

	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewSessionNotFoundError(id)
	}

	sess, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	ctrl := m.factory()
	ctrl.Restore(sess.State)

	m.mu.Lock()
	if e, ok := m.live[id]; ok {
		m.mu.Unlock()
		ctrl.Close()
		return e.controller, nil
	}
	m.mu.Unlock()

	m.attach(sess, ctrl)
	m.logger.Debug("session restored", map[string]interface{}{"sessionId": id})
	return ctrl, nil
}

func (m *Manager) attach(sess *Session, ctrl *orchestrator.Controller) {
	ctrl.Subscribe(func(s orchestrator.State) {
		m.mu.Lock()
		e, ok := m.live[sess.ID]
		if ok {
			e.session.State = s
		}
		var cp Session
		if ok {
			cp = *e.session
		}
		m.mu.Unlock()
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := m.store.Save(ctx, &cp); err != nil {
			m.logger.Warn("failed to save session", map[string]interface{}{
				"sessionId": sess.ID,
				"error":     err.Error(),
			})
		}
	})

	m.mu.Lock()
	m.live[sess.ID] = &entry{session: sess, controller: ctrl, lastUsed: time.Now()}
	metrics.SessionsActive.Set(float64(len(m.live)))
	m.mu.Unlock()
}

// Discard closes the controller of id and removes its snapshot, for a
// session that never got going.
func (m *Manager) Discard(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.live[id]
	delete(m.live, id)
	metrics.SessionsActive.Set(float64(len(m.live)))
	m.mu.Unlock()

	if ok {
		e.controller.Close()
	}
	return m.store.Delete(ctx, id)
}

// Sweep closes controllers idle for longer than the TTL. Their snapshots
// stay in the store until it expires them.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var idle []*entry
	for id, e := range m.live {
		if e.lastUsed.Before(cutoff) {
			idle = append(idle, e)
			delete(m.live, id)
		}
	}
	metrics.SessionsActive.Set(float64(len(m.live)))
	m.mu.Unlock()

	for _, e := range idle {
		e.controller.Close()
	}
	return len(idle)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("evicted idle sessions", map[string]interface{}{"count": n})
			}
		}
	}
}

// Live is the number of sessions with a controller in memory.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Stored is the number of unexpired snapshots in the store, live or not.
func (m *Manager) Stored(ctx context.Context) (int, error) {
	return m.store.Count(ctx)
}

// Ping checks the backing store.
func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

// Close shuts down every live controller.
func (m *Manager) Close() {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.live))
	for id, e := range m.live {
		entries = append(entries, e)
		delete(m.live, id)
	}
	metrics.SessionsActive.Set(0)
	m.mu.Unlock()

	for _, e := range entries {
		e.controller.Close()
	}
}
