// Package session implements opaque server-side sessions backed by Redis.
//
// A session token is a random 256-bit value with no embedded claims; the
// authoritative state lives under the Redis key and can be revoked at any
// time by deleting it. The plan stored in a session is a display hint only:
// entitlement checks always re-read the user row.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// ErrUnavailable is returned when no Redis client is configured; sessions
// cannot function without their backing store.
var ErrUnavailable = errors.New("session store unavailable")

// Session is the server-side state associated with a token.
type Session struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Plan   string `json:"plan"`
}

// Store creates, resolves and revokes sessions.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns a Store writing sessions with the given TTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create mints a new token for the given session state.
func (s *Store) Create(ctx context.Context, sess Session) (string, error) {
	if s.client == nil {
		return "", ErrUnavailable
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}

	// SetNX guards against the astronomically unlikely token collision.
	for range 3 {
		token, err := newToken()
		if err != nil {
			return "", err
		}
		ok, err := s.client.SetNX(ctx, keyPrefix+token, payload, s.ttl).Result()
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
	}
	return "", errors.New("session token collision")
}

// Get resolves a token. Returns (nil, nil) for unknown or expired tokens.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}
	raw, err := s.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("corrupt session payload: %w", err)
	}
	return &sess, nil
}

// Update rewrites the state for an existing token, keeping its key.
// Used to refresh the cached plan hint after an upgrade.
func (s *Store) Update(ctx context.Context, token string, sess Session) error {
	if s.client == nil {
		return ErrUnavailable
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+token, payload, redis.KeepTTL).Err()
}

// Destroy invalidates a token. Destroying an unknown token is a no-op.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if s.client == nil {
		return ErrUnavailable
	}
	return s.client.Del(ctx, keyPrefix+token).Err()
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
