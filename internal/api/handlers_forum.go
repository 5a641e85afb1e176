// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/ning/internal/models"
)

// ListPosts handles GET /forum/posts?offset&limit.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	posts, err := h.forum.ListPosts(r.Context(), offset, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, items(posts))
}

// CreatePost handles POST /forum/posts.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostCreateRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	post, err := h.forum.CreatePost(r.Context(), currentUser(r), req.Title, req.Content)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, post)
}

// GetPost handles GET /forum/posts/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.forum.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, post)
}

// UpdatePost handles PUT /forum/posts/{id}.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req PostUpdateRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	post, err := h.forum.UpdatePost(r.Context(), currentUser(r), chi.URLParam(r, "id"), req.Title, req.Content)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, post)
}

// DeletePost handles DELETE /forum/posts/{id}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.forum.DeletePost(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, OKResponse{OK: true})
}

// ToggleLike handles POST /forum/posts/{id}/like.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	state, err := h.forum.ToggleLike(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, state)
}

// ListComments handles GET /forum/posts/{id}/comments.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.forum.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, items(comments))
}

// AddComment handles POST /forum/posts/{id}/comment.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req CommentCreateRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		respondServiceError(w, r, err)
		return
	}
	comment, err := h.forum.AddComment(r.Context(), currentUser(r), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, comment)
}

// DeleteComment handles DELETE /forum/comments/{id}?post_id=.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	postID := strings.TrimSpace(r.URL.Query().Get("post_id"))
	if postID == "" {
		respondServiceError(w, r, fmt.Errorf("%w: post_id is required", models.ErrValidation))
		return
	}
	if err := h.forum.DeleteComment(r.Context(), currentUser(r), postID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, OKResponse{OK: true})
}
