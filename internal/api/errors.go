// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/ning/internal/logging"
	"github.com/tomtom215/ning/internal/models"
	"github.com/tomtom215/ning/internal/validation"
)

// errorKind ties a models sentinel to its HTTP status and error code.
type errorKind struct {
	sentinel error
	status   int
	code     string
}

var errorKinds = []errorKind{
	{models.ErrUnauthenticated, http.StatusUnauthorized, ErrCodeUnauthorized},
	{models.ErrConflict, http.StatusConflict, ErrCodeConflict},
	{models.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{models.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{models.ErrValidation, http.StatusUnprocessableEntity, ErrCodeValidationFailed},
}

// clientMessage strips the leading "<kind>: " that services add when
// wrapping a sentinel.
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok && rest != "" {
		return rest
	}
	return msg
}

// respondServiceError maps a service error to its status. Unknown errors
// are logged and reported as 500 without leaking their text.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusUnprocessableEntity, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	for _, k := range errorKinds {
		if errors.Is(err, k.sentinel) {
			respondError(w, r, k.status, k.code, clientMessage(err, k.sentinel), nil)
			return
		}
	}

	logging.Ctx(r.Context()).Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request failed")
	respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", nil)
}

// unauthorized is the auth middleware's error hook.
func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrUnauthenticated) {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized", nil)
		return
	}
	respondServiceError(w, r, err)
}
