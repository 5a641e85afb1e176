// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package models

// Post is a forum post with its denormalized author name and live counters.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
	CreatedAt string `json:"createdAt"`
}

// Comment is a comment on a post.
type Comment struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

// LikeState is the result of toggling a like.
type LikeState struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}
