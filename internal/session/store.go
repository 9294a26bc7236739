package session

import (
	"context"
	"sync"
	"time"

	apperrors "flightdeck/internal/common/errors"
)

// Store persists session snapshots with a TTL.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// MemoryStore keeps sessions in process. Expired entries are dropped on
// access and by Count.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	cp := *s
	cp.Touch(m.ttl)

	m.mu.Lock()
	m.sessions[s.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	if s.IsExpired() {
		delete(m.sessions, id)
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
		}
	}
	return len(m.sessions), nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
