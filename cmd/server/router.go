// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package main

import (
	"net/http"

	"github.com/tomtom215/ning/internal/agent"
	"github.com/tomtom215/ning/internal/api"
	"github.com/tomtom215/ning/internal/auth"
	"github.com/tomtom215/ning/internal/config"
	"github.com/tomtom215/ning/internal/forum"
	"github.com/tomtom215/ning/internal/kvstore"
	"github.com/tomtom215/ning/internal/study"
)

// newRouter wires the domain services over store and returns the chi
// handler serving every route.
func newRouter(cfg *config.Config, store kvstore.Store) http.Handler {
	sessions := auth.NewSessionStore(store, cfg.Security.SessionTTL())
	identity := auth.NewIdentity(store, sessions, cfg.Security.BcryptCost)

	handler := api.NewHandler(
		store,
		identity,
		forum.NewService(store, forum.WithPageSizes(cfg.API.DefaultPageSize, cfg.API.MaxPageSize)),
		study.NewService(store),
		agent.NewService(store),
	)

	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.AuthRateLimitRequests = cfg.Security.AuthRateLimitReqs
	mw.AuthRateLimitWindow = cfg.Security.AuthRateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled

	return api.NewRouter(handler, identity, mw).SetupChi()
}
