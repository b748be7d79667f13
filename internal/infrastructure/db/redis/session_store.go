package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/csemotors/dealership/internal/core/domain"
)

const sessionTTL = time.Hour

// SessionStore keeps server-side session records in Redis.
// Key format: session:<sid>. Records expire after sessionTTL; every Save
// slides the window.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Get loads a session record. A missing or expired record returns (nil, nil)
// so callers can start a fresh session without treating it as a failure.
func (s *SessionStore) Get(ctx context.Context, sid string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.key(sid)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &session, nil
}

// Save writes the record and resets its TTL.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session save: missing id")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	return s.client.Set(ctx, s.key(session.ID), data, sessionTTL).Err()
}

// Delete removes the record, typically on logout or token verify failure.
func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, s.key(sid)).Err()
}

func (s *SessionStore) key(sid string) string {
	return "session:" + sid
}
