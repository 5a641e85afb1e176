// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package api

import (
	"net/http"

	"github.com/tomtom215/ning/internal/agent"
	"github.com/tomtom215/ning/internal/auth"
	"github.com/tomtom215/ning/internal/forum"
	"github.com/tomtom215/ning/internal/kvstore"
	"github.com/tomtom215/ning/internal/models"
	"github.com/tomtom215/ning/internal/study"
)

// Handler holds the services behind the HTTP routes.
type Handler struct {
	store    kvstore.Store
	identity *auth.Identity
	forum    *forum.Service
	study    *study.Service
	agent    *agent.Service
}

// NewHandler wires the handlers to their services.
func NewHandler(store kvstore.Store, identity *auth.Identity, forumSvc *forum.Service, studySvc *study.Service, agentSvc *agent.Service) *Handler {
	return &Handler{
		store:    store,
		identity: identity,
		forum:    forumSvc,
		study:    studySvc,
		agent:    agentSvc,
	}
}

// currentUser returns the authenticated user. Routes that call it sit
// behind RequireAuth, so a missing subject is a wiring bug.
func currentUser(r *http.Request) *models.User {
	s := auth.SubjectFromContext(r.Context())
	if s == nil {
		panic("api: handler requires an authenticated route")
	}
	return s.User()
}
