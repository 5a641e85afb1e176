// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/ning/internal/logging"
	"github.com/tomtom215/ning/internal/models"
)

// ErrorHandler writes an error response for a failed authentication.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Middleware authenticates requests against the identity service.
type Middleware struct {
	identity *Identity
	onError  ErrorHandler
}

// NewMiddleware returns a middleware that reports failures through onError.
func NewMiddleware(identity *Identity, onError ErrorHandler) *Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		}
	}
	return &Middleware{identity: identity, onError: onError}
}

// RequireAuth rejects requests without a valid bearer token and attaches
// the AuthSubject to the context of those that pass.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			m.onError(w, r, fmt.Errorf("%w: missing bearer token", models.ErrUnauthenticated))
			return
		}

		user, err := m.identity.CurrentUser(r.Context(), token)
		if err != nil {
			m.onError(w, r, err)
			return
		}

		ctx := ContextWithSubject(r.Context(), &AuthSubject{
			UserID:   user.ID,
			Username: user.Username,
			Token:    token,
		})
		ctx = logging.ContextWithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
