// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

// Package study records practice-problem mistakes and derives statistics
// and revisit recommendations from them.
package study

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ning/internal/kvstore"
	"github.com/tomtom215/ning/internal/logging"
	"github.com/tomtom215/ning/internal/metrics"
	"github.com/tomtom215/ning/internal/models"
)

const keyMistakeSeq = "study:mistake_seq"

func mistakeKey(id string) string        { return "study:mistake:" + id }
func ownerIndexKey(userID string) string { return "study:" + userID + ":mistakes" }

// NewMistake is the input to AddMistake.
type NewMistake struct {
	TitleSlug  string
	Title      string
	Difficulty *string
	Tags       []string
	Note       *string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for timestamps and stats windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service is the study domain service. Every operation is scoped to the
// acting user.
type Service struct {
	kv  kvstore.Store
	now func() time.Time
}

// NewService returns a study service backed by kv.
func NewService(kv kvstore.Store, opts ...Option) *Service {
	s := &Service{kv: kv, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// normalizeTags trims tags, drops empties and removes duplicates while
// keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// AddMistake records a mistake owned by user.
func (s *Service) AddMistake(ctx context.Context, user *models.User, in NewMistake) (*models.Mistake, error) {
	tags := normalizeTags(in.Tags)
	rawTags, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	seq, err := s.kv.Incr(ctx, keyMistakeSeq)
	if err != nil {
		return nil, fmt.Errorf("allocate mistake id: %w", err)
	}
	id := strconv.FormatInt(seq, 10)
	createdAt := s.now().UTC().Format(time.RFC3339)

	fields := map[string]string{
		"id":         id,
		"owner_id":   user.ID,
		"title_slug": in.TitleSlug,
		"title":      in.Title,
		"tags":       string(rawTags),
		"created_at": createdAt,
	}
	if in.Difficulty != nil {
		fields["difficulty"] = *in.Difficulty
	}
	if in.Note != nil {
		fields["note"] = *in.Note
	}
	if err := s.kv.HSet(ctx, mistakeKey(id), fields); err != nil {
		return nil, fmt.Errorf("store mistake: %w", err)
	}
	if _, err := s.kv.SAdd(ctx, ownerIndexKey(user.ID), id); err != nil {
		return nil, fmt.Errorf("index mistake: %w", err)
	}

	difficulty := ""
	if in.Difficulty != nil {
		difficulty = *in.Difficulty
	}
	metrics.RecordMistake(difficulty)
	logging.Ctx(ctx).Debug().Str("mistake_id", id).Str("title_slug", in.TitleSlug).Msg("Mistake recorded")

	return &models.Mistake{
		ID:         id,
		TitleSlug:  in.TitleSlug,
		Title:      in.Title,
		Difficulty: in.Difficulty,
		Tags:       tags,
		Note:       in.Note,
		CreatedAt:  createdAt,
	}, nil
}

func mistakeFromHash(fields map[string]string) (models.Mistake, error) {
	m := models.Mistake{
		ID:        fields["id"],
		TitleSlug: fields["title_slug"],
		Title:     fields["title"],
		Tags:      []string{},
		CreatedAt: fields["created_at"],
	}
	if d, ok := fields["difficulty"]; ok {
		m.Difficulty = &d
	}
	if n, ok := fields["note"]; ok {
		m.Note = &n
	}
	if raw := fields["tags"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &m.Tags); err != nil {
			return m, fmt.Errorf("decode tags of mistake %s: %w", m.ID, err)
		}
	}
	return m, nil
}

// ListMistakes returns user's mistakes in ascending id order.
func (s *Service) ListMistakes(ctx context.Context, user *models.User) ([]models.Mistake, error) {
	ids, err := s.kv.SMembers(ctx, ownerIndexKey(user.ID))
	if err != nil {
		return nil, fmt.Errorf("list mistakes: %w", err)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.ParseInt(ids[i], 10, 64)
		b, _ := strconv.ParseInt(ids[j], 10, 64)
		return a < b
	})

	items := make([]models.Mistake, 0, len(ids))
	for _, id := range ids {
		fields, err := s.kv.HGetAll(ctx, mistakeKey(id))
		if err != nil {
			return nil, fmt.Errorf("load mistake %s: %w", id, err)
		}
		if len(fields) == 0 {
			continue
		}
		m, err := mistakeFromHash(fields)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

// DeleteMistake removes a mistake owned by user.
func (s *Service) DeleteMistake(ctx context.Context, user *models.User, id string) error {
	fields, err := s.kv.HGetAll(ctx, mistakeKey(id))
	if err != nil {
		return fmt.Errorf("load mistake %s: %w", id, err)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: mistake %s not found", models.ErrNotFound, id)
	}
	if fields["owner_id"] != user.ID {
		return fmt.Errorf("%w: mistake %s belongs to another user", models.ErrForbidden, id)
	}
	if _, err := s.kv.Del(ctx, mistakeKey(id)); err != nil {
		return fmt.Errorf("delete mistake: %w", err)
	}
	if _, err := s.kv.SRem(ctx, ownerIndexKey(user.ID), id); err != nil {
		return fmt.Errorf("unindex mistake: %w", err)
	}
	return nil
}
