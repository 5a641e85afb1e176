// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package api

import (
	"context"
	"net/http"
	"time"
)

// healthPingTimeout bounds the store ping in /healthz.
const healthPingTimeout = 2 * time.Second

// StoreStatus reports key-value store connectivity.
type StoreStatus struct {
	Backend   string `json:"backend"`
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// HealthResponse is the /healthz payload. OK reports process liveness and
// stays true while the store is unreachable.
type HealthResponse struct {
	OK    bool        `json:"ok"`
	Redis StoreStatus `json:"redis"`
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	status := StoreStatus{Backend: h.store.Backend(), Connected: true}
	if err := h.store.Ping(ctx); err != nil {
		status.Connected = false
		status.Error = err.Error()
	}
	respondOK(w, HealthResponse{OK: true, Redis: status})
}
