// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package forum

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/ning/internal/kvstore"
	"github.com/tomtom215/ning/internal/models"
)

var (
	alice = &models.User{ID: "1", Username: "alice"}
	bob   = &models.User{ID: "2", Username: "bob"}
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	kv := kvstore.NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })
	clock := func() time.Time { return time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC) }
	return NewService(kv, append([]Option{WithClock(clock)}, opts...)...)
}

func mustCreate(t *testing.T, s *Service, user *models.User, title string) *models.Post {
	t.Helper()
	p, err := s.CreatePost(context.Background(), user, title, "body of "+title)
	if err != nil {
		t.Fatalf("CreatePost(%q): %v", title, err)
	}
	return p
}

func TestCreateAndGetPost(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	p := mustCreate(t, s, alice, "T")
	if p.ID != "1" || p.Author != "alice" || p.Likes != 0 || p.Comments != 0 {
		t.Errorf("CreatePost = %+v", p)
	}
	if p.CreatedAt != "2026-05-04T08:30:00Z" {
		t.Errorf("CreatedAt = %q", p.CreatedAt)
	}

	got, err := s.GetPost(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if *got != *p {
		t.Errorf("GetPost = %+v, want %+v", got, p)
	}

	if _, err := s.GetPost(ctx, "999"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetPost(999) err = %v, want not found", err)
	}
}

func TestCreatePost_AnonymousAuthor(t *testing.T) {
	s := newTestService(t)
	p := mustCreate(t, s, &models.User{ID: "5"}, "nameless")
	if p.Author != AnonymousAuthor {
		t.Errorf("Author = %q, want %q", p.Author, AnonymousAuthor)
	}
}

func TestListPosts_OrderAndPaging(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		mustCreate(t, s, alice, "post "+strconv.Itoa(i))
	}
	if err := s.DeletePost(ctx, alice, "4"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	tests := []struct {
		name          string
		offset, limit int
		want          []string
	}{
		{"default", 0, 0, []string{"5", "3", "2", "1"}},
		{"first page", 0, 2, []string{"5", "3"}},
		{"second page", 2, 2, []string{"2", "1"}},
		{"past end", 10, 2, []string{}},
		{"negative offset", -3, 1, []string{"5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := s.ListPosts(ctx, tt.offset, tt.limit)
			if err != nil {
				t.Fatalf("ListPosts: %v", err)
			}
			got := make([]string, 0, len(items))
			for _, p := range items {
				got = append(got, p.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestListPosts_LimitClamped(t *testing.T) {
	s := newTestService(t, WithPageSizes(2, 3))
	for i := 0; i < 5; i++ {
		mustCreate(t, s, alice, "p")
	}
	ctx := context.Background()

	items, err := s.ListPosts(ctx, 0, 0)
	if err != nil || len(items) != 2 {
		t.Errorf("default page = %d items, %v; want 2", len(items), err)
	}
	items, err = s.ListPosts(ctx, 0, 50)
	if err != nil || len(items) != 3 {
		t.Errorf("clamped page = %d items, %v; want 3", len(items), err)
	}
}

func TestUpdatePost(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, alice, "old")

	title := "new"
	got, err := s.UpdatePost(ctx, alice, p.ID, &title, nil)
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if got.Title != "new" || got.Content != p.Content {
		t.Errorf("UpdatePost = %+v", got)
	}

	content := "changed"
	if _, err := s.UpdatePost(ctx, bob, p.ID, nil, &content); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("UpdatePost by non-owner err = %v, want forbidden", err)
	}
	if _, err := s.UpdatePost(ctx, alice, "77", &title, nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdatePost unknown err = %v, want not found", err)
	}

	reloaded, err := s.GetPost(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if reloaded.Content != p.Content {
		t.Errorf("content changed by rejected update: %q", reloaded.Content)
	}
}

func TestDeletePost_Ownership(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, alice, "mine")

	if err := s.DeletePost(ctx, bob, p.ID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("DeletePost by bob err = %v, want forbidden", err)
	}
	if err := s.DeletePost(ctx, alice, p.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	notFound := map[string]func() error{
		"get":            func() error { _, err := s.GetPost(ctx, p.ID); return err },
		"delete again":   func() error { return s.DeletePost(ctx, alice, p.ID) },
		"like":           func() error { _, err := s.ToggleLike(ctx, bob, p.ID); return err },
		"list comments":  func() error { _, err := s.ListComments(ctx, p.ID); return err },
		"add comment":    func() error { _, err := s.AddComment(ctx, bob, p.ID, "x"); return err },
		"delete comment": func() error { return s.DeleteComment(ctx, bob, p.ID, "1") },
	}
	for name, fn := range notFound {
		if err := fn(); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("%s on deleted post err = %v, want not found", name, err)
		}
	}

	items, err := s.ListPosts(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("ListPosts = %v, want empty", items)
	}
}

func TestToggleLike_Twice(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, alice, "T")

	first, err := s.ToggleLike(ctx, alice, p.ID)
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !first.Liked || first.Likes != 1 {
		t.Errorf("first toggle = %+v", first)
	}
	if _, err := s.ToggleLike(ctx, bob, p.ID); err != nil {
		t.Fatalf("ToggleLike bob: %v", err)
	}
	second, err := s.ToggleLike(ctx, alice, p.ID)
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if second.Liked || second.Likes != 1 {
		t.Errorf("second toggle = %+v, want unliked with bob's like", second)
	}

	got, err := s.GetPost(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Likes != 1 {
		t.Errorf("Likes = %d, want 1", got.Likes)
	}
}

func TestToggleLike_Concurrent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, alice, "hot")

	const users = 20
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := &models.User{ID: strconv.Itoa(100 + i), Username: "u"}
			if _, err := s.ToggleLike(ctx, u, p.ID); err != nil {
				t.Errorf("ToggleLike: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.GetPost(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Likes != users {
		t.Errorf("Likes = %d, want %d", got.Likes, users)
	}
}

func TestComments(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, alice, "discuss")

	c1, err := s.AddComment(ctx, bob, p.ID, "first")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	c2, err := s.AddComment(ctx, alice, p.ID, "second")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if c1.ID != "1" || c2.ID != "2" || c1.Author != "bob" {
		t.Errorf("comments = %+v, %+v", c1, c2)
	}

	list, err := s.ListComments(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(list) != 2 || list[0].Content != "first" || list[1].Content != "second" {
		t.Errorf("ListComments = %+v", list)
	}
	post, _ := s.GetPost(ctx, p.ID)
	if post.Comments != 2 {
		t.Errorf("Comments = %d, want 2", post.Comments)
	}

	if err := s.DeleteComment(ctx, alice, p.ID, c1.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("DeleteComment by non-author err = %v, want forbidden", err)
	}
	if err := s.DeleteComment(ctx, bob, p.ID, "42"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("DeleteComment unknown err = %v, want not found", err)
	}
	if err := s.DeleteComment(ctx, bob, p.ID, c1.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if err := s.DeleteComment(ctx, bob, p.ID, c1.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second DeleteComment err = %v, want not found", err)
	}

	list, err = s.ListComments(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(list) != 1 || list[0].ID != c2.ID {
		t.Errorf("ListComments after delete = %+v", list)
	}
	post, _ = s.GetPost(ctx, p.ID)
	if post.Comments != 1 {
		t.Errorf("Comments = %d, want 1", post.Comments)
	}
}

func TestDeleteComment_ConcurrentDecrementsOnce(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, alice, "race")
	c, err := s.AddComment(ctx, bob, p.ID, "x")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.DeleteComment(ctx, bob, p.ID, c.ID)
		}()
	}
	wg.Wait()

	post, err := s.GetPost(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if post.Comments != 0 {
		t.Errorf("Comments = %d, want 0", post.Comments)
	}
}
