// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

// Package auth implements Ning's account and session layer: opaque bearer
// tokens persisted in the key-value store, bcrypt password hashing, and the
// HTTP middleware that turns an Authorization header into an AuthSubject.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ning/internal/kvstore"
	"github.com/tomtom215/ning/internal/models"
)

// DefaultSessionTTL is the fixed lifetime of a login session.
const DefaultSessionTTL = 7 * 24 * time.Hour

var (
	// ErrSessionNotFound is returned for unknown or revoked tokens.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned for tokens past their expiry.
	ErrSessionExpired = errors.New("session expired")
)

// Session maps an opaque token to a user.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is past its expiry at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func sessionKey(token string) string { return "session:" + token }

func userSessionsKey(userID string) string { return "user:sessions:" + userID }

// SessionStore issues and resolves bearer tokens. Entries carry a store TTL
// equal to the session lifetime, so the store expires them; nothing sweeps.
type SessionStore struct {
	kv  kvstore.Store
	ttl time.Duration
	now func() time.Time
}

// NewSessionStore returns a store issuing sessions that live for ttl
// (DefaultSessionTTL when ttl <= 0).
func NewSessionStore(kv kvstore.Store, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{kv: kv, ttl: ttl, now: time.Now}
}

// TTL returns the configured session lifetime.
func (s *SessionStore) TTL() time.Duration { return s.ttl }

// generateToken returns 32 random bytes, URL-safe base64 encoded.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Create issues a new token for userID.
func (s *SessionStore) Create(ctx context.Context, userID string) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess := &Session{Token: token, UserID: userID, CreatedAt: now, ExpiresAt: now.Add(s.ttl)}

	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKey(token), string(raw), s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	if _, err := s.kv.SAdd(ctx, userSessionsKey(userID), token); err != nil {
		return nil, fmt.Errorf("index session: %w", err)
	}
	return sess, nil
}

// Get loads the session for token. Errors wrap models.ErrUnauthenticated
// together with ErrSessionNotFound or ErrSessionExpired.
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: %w", models.ErrUnauthenticated, ErrSessionNotFound)
	}
	raw, err := s.kv.Get(ctx, sessionKey(token))
	if errors.Is(err, kvstore.ErrNil) {
		return nil, fmt.Errorf("%w: %w", models.ErrUnauthenticated, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.Token = token
	if sess.IsExpired(s.now()) {
		return nil, fmt.Errorf("%w: %w", models.ErrUnauthenticated, ErrSessionExpired)
	}
	return &sess, nil
}

// Resolve returns the user id bound to token.
func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return "", err
	}
	return sess.UserID, nil
}

// Revoke deletes the session. Revoking an unknown token succeeds.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	raw, err := s.kv.Get(ctx, sessionKey(token))
	if errors.Is(err, kvstore.ErrNil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if _, err := s.kv.Del(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	var sess Session
	if json.Unmarshal([]byte(raw), &sess) == nil && sess.UserID != "" {
		if _, err := s.kv.SRem(ctx, userSessionsKey(sess.UserID), token); err != nil {
			return fmt.Errorf("unindex session: %w", err)
		}
	}
	return nil
}

// RevokeAll deletes every session of userID and returns how many were live.
func (s *SessionStore) RevokeAll(ctx context.Context, userID string) (int, error) {
	tokens, err := s.kv.SMembers(ctx, userSessionsKey(userID))
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	if len(tokens) == 0 {
		return 0, nil
	}
	keys := make([]string, 0, len(tokens))
	for _, t := range tokens {
		keys = append(keys, sessionKey(t))
	}
	n, err := s.kv.Del(ctx, keys...)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	if _, err := s.kv.Del(ctx, userSessionsKey(userID)); err != nil {
		return 0, fmt.Errorf("delete session index: %w", err)
	}
	return int(n), nil
}

// ActiveTokens lists userID's tokens that still resolve, pruning index
// entries whose sessions the store has expired.
func (s *SessionStore) ActiveTokens(ctx context.Context, userID string) ([]string, error) {
	tokens, err := s.kv.SMembers(ctx, userSessionsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	live := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, err := s.kv.Get(ctx, sessionKey(t)); err == nil {
			live = append(live, t)
			continue
		} else if !errors.Is(err, kvstore.ErrNil) {
			return nil, fmt.Errorf("load session: %w", err)
		}
		if _, err := s.kv.SRem(ctx, userSessionsKey(userID), t); err != nil {
			return nil, fmt.Errorf("prune session index: %w", err)
		}
	}
	return live, nil
}

// SetClock replaces the wall clock used for timestamps and expiry checks.
func (s *SessionStore) SetClock(now func() time.Time) { s.now = now }
