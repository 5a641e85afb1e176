// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ning/internal/models"
	"github.com/tomtom215/ning/internal/validation"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=40"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PostCreateRequest is the body of POST /forum/posts.
type PostCreateRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required,min=1"`
}

// PostUpdateRequest is the body of PUT /forum/posts/{id}. Omitted fields
// are left unchanged.
type PostUpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// CommentCreateRequest is the body of POST /forum/posts/{id}/comment.
type CommentCreateRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// MistakeCreateRequest is the body of POST /study/mistakes.
type MistakeCreateRequest struct {
	TitleSlug  string   `json:"titleSlug" validate:"required,slug,max=200"`
	Title      string   `json:"title" validate:"required,min=1,max=200"`
	Difficulty *string  `json:"difficulty" validate:"omitempty,max=32"`
	Tags       []string `json:"tags" validate:"max=32,dive,max=64"`
	Note       *string  `json:"note" validate:"omitempty,max=4000"`
}

// SessionCreateRequest is the optional body of POST /agent/session.
type SessionCreateRequest struct {
	Role  *string `json:"role" validate:"omitempty,max=100"`
	Focus *string `json:"focus" validate:"omitempty,max=100"`
}

// ChatRequest is the body of POST /agent/chat.
type ChatRequest struct {
	SessionID string `json:"session_id" validate:"required,notblank"`
	Message   string `json:"message" validate:"required,notblank,min=1,max=4000"`
}

// decodeBody reads a JSON body into dst and validates it. An empty body is
// an error unless optional is set.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case errors.Is(err, io.EOF):
		if !optional {
			return fmt.Errorf("%w: request body is required", models.ErrValidation)
		}
	case err != nil:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body is too large", models.ErrValidation)
		}
		return fmt.Errorf("%w: invalid JSON body", models.ErrValidation)
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}

// intQuery parses an optional integer query parameter.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", models.ErrValidation, name)
	}
	return n, nil
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
