// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/ning/internal/study"
)

// AddMistake handles POST /study/mistakes.
func (h *Handler) AddMistake(w http.ResponseWriter, r *http.Request) {
	var req MistakeCreateRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	m, err := h.study.AddMistake(r.Context(), currentUser(r), study.NewMistake{
		TitleSlug:  req.TitleSlug,
		Title:      req.Title,
		Difficulty: req.Difficulty,
		Tags:       req.Tags,
		Note:       req.Note,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, m)
}

// ListMistakes handles GET /study/mistakes.
func (h *Handler) ListMistakes(w http.ResponseWriter, r *http.Request) {
	list, err := h.study.ListMistakes(r.Context(), currentUser(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, items(list))
}

// DeleteMistake handles DELETE /study/mistakes/{id}.
func (h *Handler) DeleteMistake(w http.ResponseWriter, r *http.Request) {
	if err := h.study.DeleteMistake(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, OKResponse{OK: true})
}

// Stats handles GET /study/stats?days.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", study.DefaultStatsDays)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	stats, err := h.study.Stats(r.Context(), currentUser(r), days)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, stats)
}

// Recommendations handles GET /study/recommendations?limit.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", study.DefaultRecommendations)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	recs, err := h.study.Recommendations(r.Context(), currentUser(r), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, items(recs))
}
