package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Session struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new session store with the given Redis client
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// StoreSession stores the user's session in Redis
func (s *SessionStore) StoreSession(ctx context.Context, userID string, session *Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := fmt.Sprintf("session:%s", userID)
	if err := s.client.Set(ctx, key, sessionJSON, time.Until(session.ExpiresAt)).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// GetSession retrieves the user's session from Redis
func (s *SessionStore) GetSession(ctx context.Context, userID string) (*Session, error) {
	key := fmt.Sprintf("session:%s", userID)
	sessionJSON, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(sessionJSON, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// DeleteSession removes the user's session from Redis
func (s *SessionStore) DeleteSession(ctx context.Context, userID string) error {
	key := fmt.Sprintf("session:%s", userID)
	return s.client.Del(ctx, key).Err()
}
