// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SessionCreatedResponse is returned by POST /agent/session.
type SessionCreatedResponse struct {
	SessionID string `json:"session_id"`
}

// StartSession handles POST /agent/session. The body is optional.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		respondServiceError(w, r, err)
		return
	}
	sid, err := h.agent.StartSession(r.Context(), currentUser(r), stringValue(req.Role), stringValue(req.Focus))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, SessionCreatedResponse{SessionID: sid})
}

// ListSessions handles GET /agent/sessions.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := h.agent.ListSessions(r.Context(), currentUser(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, items(list))
}

// Chat handles POST /agent/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	reply, err := h.agent.Chat(r.Context(), currentUser(r), req.SessionID, req.Message)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, reply)
}

// GetSession handles GET /agent/session/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.agent.GetSession(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, sess)
}
