// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package forum

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tomtom215/ning/internal/logging"
	"github.com/tomtom215/ning/internal/metrics"
	"github.com/tomtom215/ning/internal/models"
)

func commentFromHash(fields map[string]string) models.Comment {
	author := fields["author"]
	if author == "" {
		author = AnonymousAuthor
	}
	return models.Comment{
		ID:        fields["id"],
		Content:   fields["content"],
		Author:    author,
		CreatedAt: fields["created_at"],
	}
}

// ListComments returns the live comments of a post in creation order.
func (s *Service) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}
	ids, err := s.kv.LRange(ctx, commentIndexKey(postID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	items := make([]models.Comment, 0, len(ids))
	for _, cid := range ids {
		fields, err := s.kv.HGetAll(ctx, commentKey(postID, cid))
		if err != nil {
			return nil, fmt.Errorf("load comment %s: %w", cid, err)
		}
		if len(fields) == 0 || fields["deleted"] == flagDeleted {
			continue
		}
		items = append(items, commentFromHash(fields))
	}
	return items, nil
}

// AddComment appends a comment to a live post and bumps its comment count.
func (s *Service) AddComment(ctx context.Context, user *models.User, postID, content string) (*models.Comment, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}

	seq, err := s.kv.Incr(ctx, commentSeqKey(postID))
	if err != nil {
		return nil, fmt.Errorf("allocate comment id: %w", err)
	}
	cid := strconv.FormatInt(seq, 10)

	fields := map[string]string{
		"id":         cid,
		"post_id":    postID,
		"content":    content,
		"author":     authorName(user),
		"author_id":  user.ID,
		"created_at": s.timestamp(),
		"deleted":    flagLive,
	}
	if err := s.kv.HSet(ctx, commentKey(postID, cid), fields); err != nil {
		return nil, fmt.Errorf("store comment: %w", err)
	}
	if _, err := s.kv.RPush(ctx, commentIndexKey(postID), cid); err != nil {
		return nil, fmt.Errorf("index comment: %w", err)
	}
	if _, err := s.kv.SAdd(ctx, liveCommentsKey(postID), cid); err != nil {
		return nil, fmt.Errorf("index comment: %w", err)
	}
	if _, err := s.kv.IncrBy(ctx, commentCountKey(postID), 1); err != nil {
		return nil, fmt.Errorf("count comment: %w", err)
	}

	metrics.RecordForumAction("comment_added")
	logging.Ctx(ctx).Debug().Str("post_id", postID).Str("comment_id", cid).Msg("Comment added")
	c := commentFromHash(fields)
	return &c, nil
}

// DeleteComment soft-deletes a comment owned by user. Only the request that
// removes the comment from the live set decrements the count.
func (s *Service) DeleteComment(ctx context.Context, user *models.User, postID, commentID string) error {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return err
	}
	fields, err := s.kv.HGetAll(ctx, commentKey(postID, commentID))
	if err != nil {
		return fmt.Errorf("load comment %s: %w", commentID, err)
	}
	if len(fields) == 0 || fields["deleted"] == flagDeleted {
		return fmt.Errorf("%w: comment %s not found", models.ErrNotFound, commentID)
	}
	if fields["author_id"] != user.ID {
		return fmt.Errorf("%w: comment %s belongs to another user", models.ErrForbidden, commentID)
	}

	if err := s.kv.HSet(ctx, commentKey(postID, commentID), map[string]string{"deleted": flagDeleted}); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	removed, err := s.kv.SRem(ctx, liveCommentsKey(postID), commentID)
	if err != nil {
		return fmt.Errorf("unindex comment: %w", err)
	}
	if removed == 0 {
		return nil
	}
	if _, err := s.kv.IncrBy(ctx, commentCountKey(postID), -1); err != nil {
		return fmt.Errorf("count comment: %w", err)
	}
	metrics.RecordForumAction("comment_deleted")
	return nil
}
