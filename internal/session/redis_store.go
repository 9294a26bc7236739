package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "flightdeck/internal/common/errors"
	"flightdeck/internal/common/database"
)

// RedisStore keeps each session as a JSON document under prefix+id with
// the session TTL as key expiry.
type RedisStore struct {
	client *database.RedisClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *database.RedisClient, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	cp := *s
	cp.Touch(r.ttl)

	data, err := json.Marshal(&cp)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, r.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id))
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id))
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	return r.client.CountKeys(ctx, r.prefix+"*")
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
