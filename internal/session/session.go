// Package session keeps the page state of every browser session between
// requests.
package session

import (
	"time"

	"flightdeck/internal/orchestrator"
)

// Session is one browser session and its latest state snapshot.
type Session struct {
	ID           string             `json:"id"`
	CreatedAt    time.Time          `json:"createdAt"`
	ExpiresAt    time.Time          `json:"expiresAt"`
	LastActivity time.Time          `json:"lastActivity"`
	State        orchestrator.State `json:"state"`
}

func New(id string, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		LastActivity: now,
	}
}

// IsExpired checks if session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch records activity and pushes the expiry out by ttl.
func (s *Session) Touch(ttl time.Duration) {
	s.LastActivity = time.Now().UTC()
	s.ExpiresAt = s.LastActivity.Add(ttl)
}
