// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/ning/internal/kvstore"
	"github.com/tomtom215/ning/internal/logging"
	"github.com/tomtom215/ning/internal/metrics"
	"github.com/tomtom215/ning/internal/models"
)

const (
	keyUserSeq = "users:seq"

	msgUsernameTaken      = "Username already exists"
	msgInvalidCredentials = "Invalid credentials"
)

func userKey(id string) string { return "user:" + id }

func userByNameKey(username string) string { return "user:byname:" + username }

// Identity registers accounts and exchanges credentials for sessions.
type Identity struct {
	kv         kvstore.Store
	sessions   *SessionStore
	bcryptCost int
	now        func() time.Time
}

// NewIdentity wires the identity service to its store and session store.
func NewIdentity(kv kvstore.Store, sessions *SessionStore, bcryptCost int) *Identity {
	return &Identity{kv: kv, sessions: sessions, bcryptCost: bcryptCost, now: time.Now}
}

// Sessions exposes the underlying session store.
func (s *Identity) Sessions() *SessionStore { return s.sessions }

// Register creates an account. The username is trimmed; a taken name
// wraps models.ErrConflict.
func (s *Identity) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", models.ErrValidation)
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	seq, err := s.kv.Incr(ctx, keyUserSeq)
	if err != nil {
		return nil, fmt.Errorf("allocate user id: %w", err)
	}
	id := strconv.FormatInt(seq, 10)

	claimed, err := s.kv.SetNX(ctx, userByNameKey(username), id, 0)
	if err != nil {
		return nil, fmt.Errorf("claim username: %w", err)
	}
	if !claimed {
		metrics.RecordAuthEvent("register", false)
		return nil, fmt.Errorf("%w: %s", models.ErrConflict, msgUsernameTaken)
	}

	err = s.kv.HSet(ctx, userKey(id), map[string]string{
		"id":            id,
		"username":      username,
		"password_hash": hash,
		"created_at":    s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		// release the name so the user can retry
		if _, delErr := s.kv.Del(ctx, userByNameKey(username)); delErr != nil {
			logging.Ctx(ctx).Warn().Err(delErr).Str("username", username).Msg("Failed to release username after failed registration")
		}
		return nil, fmt.Errorf("store user: %w", err)
	}

	metrics.RecordAuthEvent("register", true)
	logging.Ctx(ctx).Info().Str("user_id", id).Str("username", username).Msg("User registered")
	return &models.User{ID: id, Username: username}, nil
}

// Login verifies credentials and issues a session token. Unknown users and
// wrong passwords fail identically.
func (s *Identity) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	username = strings.TrimSpace(username)
	invalid := fmt.Errorf("%w: %s", models.ErrUnauthenticated, msgInvalidCredentials)

	id, err := s.kv.Get(ctx, userByNameKey(username))
	if errors.Is(err, kvstore.ErrNil) {
		metrics.RecordAuthEvent("login", false)
		return nil, invalid
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	fields, err := s.kv.HGetAll(ctx, userKey(id))
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	ok, err := VerifyPassword(fields["password_hash"], password)
	if err != nil || !ok {
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", id).Msg("Stored password hash is unusable")
		}
		metrics.RecordAuthEvent("login", false)
		return nil, invalid
	}

	sess, err := s.sessions.Create(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.RecordAuthEvent("login", true)
	logging.Ctx(ctx).Info().Str("user_id", id).Msg("User logged in")
	return &models.LoginResult{Token: sess.Token}, nil
}

// UserByID loads a user, wrapping models.ErrNotFound when absent.
func (s *Identity) UserByID(ctx context.Context, id string) (*models.User, error) {
	fields, err := s.kv.HGetAll(ctx, userKey(id))
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: user %s not found", models.ErrNotFound, id)
	}
	return &models.User{ID: fields["id"], Username: fields["username"]}, nil
}

// CurrentUser resolves token to its user. A token whose user has vanished
// is treated as unauthenticated.
func (s *Identity) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	id, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.UserByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", models.ErrUnauthenticated, ErrSessionNotFound)
	}
	return u, err
}

// Logout revokes token. It is idempotent.
func (s *Identity) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return err
	}
	metrics.RecordAuthEvent("logout", true)
	return nil
}
