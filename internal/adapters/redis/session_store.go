// Package redis provides Redis-backed adapters for the agristock system.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

// SessionStore is a Redis-based app-session store for production use.
// It handles TTL semantics automatically based on session ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
	}
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

// Save stores the app session keyed by its ID, expiring with the session.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.AppSession) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

// Get retrieves an app session by ID. Missing or expired sessions return
// ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.AppSession, error) {
	if id == "" {
		return domainauth.AppSession{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.AppSession{}, ErrNotFound
		}
		return domainauth.AppSession{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.AppSession
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.AppSession{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Redis TTL should have evicted this already; check anyway so clock skew
	// between writers never resurrects a stale session.
	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.AppSession{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.AppSession{}, ErrNotFound
	}

	return sess, nil
}

// Delete removes a stored session. Deleting a missing session is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	return s.client.Del(ctx, s.prefix+id).Err()
}

// ErrNotFound is returned when a session is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
