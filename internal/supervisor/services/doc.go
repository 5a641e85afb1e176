// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

// Package services adapts Ning's long-running components to suture's
// Serve(ctx) error model.
//
// HTTPServerService runs the API server and shuts it down gracefully when
// the supervisor cancels its context. StoreGCService periodically reclaims
// space in an on-disk Badger store.
package services
