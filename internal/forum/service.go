// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

// Package forum implements posts, likes and comments on top of the
// key-value store. Posts and comments are soft-deleted; counters are kept
// in separate keys and adjusted with atomic store operations.
package forum

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/ning/internal/kvstore"
	"github.com/tomtom215/ning/internal/logging"
	"github.com/tomtom215/ning/internal/metrics"
	"github.com/tomtom215/ning/internal/models"
)

const (
	// AnonymousAuthor is shown for posts whose author has no username.
	AnonymousAuthor = "匿名宁友"

	DefaultPageSize = 20
	MaxPageSize     = 100

	keyPostSeq   = "forum:post_seq"
	keyPostIndex = "forum:posts"

	flagDeleted = "1"
	flagLive    = "0"
)

func postKey(id string) string           { return "forum:post:" + id }
func likesKey(id string) string          { return "forum:post:" + id + ":likes" }
func commentCountKey(id string) string   { return "forum:post:" + id + ":comments_cnt" }
func commentSeqKey(id string) string     { return "forum:post:" + id + ":comment_seq" }
func commentIndexKey(id string) string   { return "forum:post:" + id + ":comments" }
func liveCommentsKey(id string) string   { return "forum:post:" + id + ":comment_ids" }
func commentKey(post, cid string) string { return "forum:comment:" + post + ":" + cid }

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for created_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPageSizes overrides the default and maximum ListPosts page sizes.
func WithPageSizes(def, maxSize int) Option {
	return func(s *Service) {
		if def > 0 {
			s.defaultLimit = def
		}
		if maxSize > 0 {
			s.maxLimit = maxSize
		}
	}
}

// Service is the forum domain service.
type Service struct {
	kv           kvstore.Store
	now          func() time.Time
	defaultLimit int
	maxLimit     int
}

// NewService returns a forum service backed by kv.
func NewService(kv kvstore.Store, opts ...Option) *Service {
	s := &Service{kv: kv, now: time.Now, defaultLimit: DefaultPageSize, maxLimit: MaxPageSize}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}
	return s
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// clampPage normalizes offset and limit. A non-positive limit selects the
// default page size.
func (s *Service) clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	switch {
	case limit <= 0:
		limit = s.defaultLimit
	case limit > s.maxLimit:
		limit = s.maxLimit
	}
	return offset, limit
}

func authorName(user *models.User) string {
	if user.Username == "" {
		return AnonymousAuthor
	}
	return user.Username
}

// loadPost returns the raw hash of a live post, or ErrNotFound.
func (s *Service) loadPost(ctx context.Context, id string) (map[string]string, error) {
	fields, err := s.kv.HGetAll(ctx, postKey(id))
	if err != nil {
		return nil, fmt.Errorf("load post %s: %w", id, err)
	}
	if len(fields) == 0 || fields["deleted"] == flagDeleted {
		return nil, fmt.Errorf("%w: post %s not found", models.ErrNotFound, id)
	}
	return fields, nil
}

// counter reads an integer key, treating a missing key as zero.
func (s *Service) counter(ctx context.Context, key string) (int64, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter %s: %w", key, kvstore.ErrNotInteger)
	}
	return n, nil
}

func (s *Service) toPublic(ctx context.Context, fields map[string]string) (*models.Post, error) {
	id := fields["id"]
	likes, err := s.kv.SCard(ctx, likesKey(id))
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	comments, err := s.counter(ctx, commentCountKey(id))
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	author := fields["author"]
	if author == "" {
		author = AnonymousAuthor
	}
	return &models.Post{
		ID:        id,
		Title:     fields["title"],
		Content:   fields["content"],
		Author:    author,
		Likes:     likes,
		Comments:  comments,
		CreatedAt: fields["created_at"],
	}, nil
}

// ListPosts returns live posts newest first. Offset and limit apply to the
// visible posts only.
func (s *Service) ListPosts(ctx context.Context, offset, limit int) ([]models.Post, error) {
	offset, limit = s.clampPage(offset, limit)

	ids, err := s.kv.LRange(ctx, keyPostIndex, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	items := make([]models.Post, 0, min(limit, len(ids)))
	skipped := 0
	for i := len(ids) - 1; i >= 0 && len(items) < limit; i-- {
		fields, err := s.loadPost(ctx, ids[i])
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if skipped < offset {
			skipped++
			continue
		}
		p, err := s.toPublic(ctx, fields)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, nil
}

// CreatePost stores a new post authored by user.
func (s *Service) CreatePost(ctx context.Context, user *models.User, title, content string) (*models.Post, error) {
	seq, err := s.kv.Incr(ctx, keyPostSeq)
	if err != nil {
		return nil, fmt.Errorf("allocate post id: %w", err)
	}
	id := strconv.FormatInt(seq, 10)

	fields := map[string]string{
		"id":         id,
		"title":      title,
		"content":    content,
		"author":     authorName(user),
		"author_id":  user.ID,
		"created_at": s.timestamp(),
		"deleted":    flagLive,
	}
	if err := s.kv.HSet(ctx, postKey(id), fields); err != nil {
		return nil, fmt.Errorf("store post: %w", err)
	}
	if _, err := s.kv.RPush(ctx, keyPostIndex, id); err != nil {
		return nil, fmt.Errorf("index post: %w", err)
	}

	metrics.RecordForumAction("post_created")
	logging.Ctx(ctx).Info().Str("post_id", id).Str("author_id", user.ID).Msg("Post created")
	return &models.Post{
		ID:        id,
		Title:     title,
		Content:   content,
		Author:    fields["author"],
		CreatedAt: fields["created_at"],
	}, nil
}

// GetPost returns a live post.
func (s *Service) GetPost(ctx context.Context, id string) (*models.Post, error) {
	fields, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toPublic(ctx, fields)
}

// loadOwnedPost returns the post hash if user authored it.
func (s *Service) loadOwnedPost(ctx context.Context, user *models.User, id string) (map[string]string, error) {
	fields, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if fields["author_id"] != user.ID {
		return nil, fmt.Errorf("%w: post %s belongs to another user", models.ErrForbidden, id)
	}
	return fields, nil
}

// UpdatePost changes the supplied fields of a post owned by user.
func (s *Service) UpdatePost(ctx context.Context, user *models.User, id string, title, content *string) (*models.Post, error) {
	fields, err := s.loadOwnedPost(ctx, user, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]string{}
	if title != nil {
		changes["title"] = *title
	}
	if content != nil {
		changes["content"] = *content
	}
	if len(changes) > 0 {
		if err := s.kv.HSet(ctx, postKey(id), changes); err != nil {
			return nil, fmt.Errorf("update post: %w", err)
		}
		for k, v := range changes {
			fields[k] = v
		}
		metrics.RecordForumAction("post_updated")
	}
	return s.toPublic(ctx, fields)
}

// DeletePost soft-deletes a post owned by user. Its comments stay stored.
func (s *Service) DeletePost(ctx context.Context, user *models.User, id string) error {
	if _, err := s.loadOwnedPost(ctx, user, id); err != nil {
		return err
	}
	if err := s.kv.HSet(ctx, postKey(id), map[string]string{"deleted": flagDeleted}); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	metrics.RecordForumAction("post_deleted")
	logging.Ctx(ctx).Info().Str("post_id", id).Str("author_id", user.ID).Msg("Post deleted")
	return nil
}

// ToggleLike flips user's like on a post. The like count is the size of
// the like set after the flip, so concurrent toggles never double count.
func (s *Service) ToggleLike(ctx context.Context, user *models.User, id string) (*models.LikeState, error) {
	if _, err := s.loadPost(ctx, id); err != nil {
		return nil, err
	}
	liked, likes, err := s.kv.ToggleMember(ctx, likesKey(id), user.ID)
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	if liked {
		metrics.RecordForumAction("like")
	} else {
		metrics.RecordForumAction("unlike")
	}
	return &models.LikeState{Liked: liked, Likes: likes}, nil
}
