// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ning/internal/logging"
)

// ErrorResponse is the envelope written for every failed request.
type ErrorResponse struct {
	Success bool `json:"success"`

	// Detail repeats Error.Message for clients that read a flat field.
	Detail string    `json:"detail"`
	Error  *APIError `json:"error"`
	Meta   *APIMeta  `json:"meta,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains additional error details (optional)
	Details interface{} `json:"details,omitempty"`

	// RequestID is the request ID for tracing
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Error codes for API responses
const (
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
)

// ItemsResponse wraps list payloads as {"items": [...]}.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// OKResponse is the {"ok": true} acknowledgement.
type OKResponse struct {
	OK bool `json:"ok"`
}

// items never encodes a nil slice as null.
func items[T any](list []T) ItemsResponse[T] {
	if list == nil {
		list = []T{}
	}
	return ItemsResponse[T]{Items: list}
}

// writeJSON writes data as the whole response body.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// respondOK writes a 200 with data.
func respondOK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// respondError writes the error envelope.
func respondError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string, details interface{}) {
	requestID := logging.RequestIDFromContext(r.Context())
	writeJSON(w, statusCode, ErrorResponse{
		Success: false,
		Detail:  message,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
		Meta: &APIMeta{RequestID: requestID, Timestamp: time.Now().UTC()},
	})
}
