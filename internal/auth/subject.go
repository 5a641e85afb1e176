// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package auth

import (
	"context"

	"github.com/tomtom215/ning/internal/models"
)

// AuthSubject is the authenticated principal attached to a request.
type AuthSubject struct {
	UserID   string
	Username string
	Token    string
}

type subjectContextKey struct{}

// ContextWithSubject returns ctx carrying subject.
func ContextWithSubject(ctx context.Context, subject *AuthSubject) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, subject)
}

// SubjectFromContext returns the request's subject, or nil.
func SubjectFromContext(ctx context.Context) *AuthSubject {
	s, _ := ctx.Value(subjectContextKey{}).(*AuthSubject)
	return s
}

// User returns the subject as a public user record.
func (s *AuthSubject) User() *models.User {
	return &models.User{ID: s.UserID, Username: s.Username}
}
