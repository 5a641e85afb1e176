// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

// Package models holds the public data shapes returned by Ning's services and
// the error kinds they fail with.
//
// Services wrap a kind with context, and callers classify with errors.Is:
//
//	return nil, fmt.Errorf("post %d: %w", id, models.ErrNotFound)
package models

import "errors"

// Error kinds. The API layer maps each to a fixed HTTP status.
var (
	// ErrUnauthenticated: missing, invalid or expired credentials (401).
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrConflict: the resource already exists, e.g. a taken username (409).
	ErrConflict = errors.New("conflict")

	// ErrNotFound: the addressed resource does not exist or is deleted (404).
	ErrNotFound = errors.New("not found")

	// ErrForbidden: authenticated, but not the resource owner (403).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation: the input is malformed (422).
	ErrValidation = errors.New("validation failed")
)
