// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package models

// User is the public view of an account. The password hash never leaves the
// auth package.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResult carries the bearer token issued by a successful login.
type LoginResult struct {
	Token string `json:"token"`
}
