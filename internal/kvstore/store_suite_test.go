// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

// runStoreSuite checks the behaviour every backend must share.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("Strings", func(t *testing.T) { testStrings(t, newStore(t)) })
	t.Run("Counters", func(t *testing.T) { testCounters(t, newStore(t)) })
	t.Run("Hashes", func(t *testing.T) { testHashes(t, newStore(t)) })
	t.Run("Sets", func(t *testing.T) { testSets(t, newStore(t)) })
	t.Run("Lists", func(t *testing.T) { testLists(t, newStore(t)) })
	t.Run("WrongType", func(t *testing.T) { testWrongType(t, newStore(t)) })
	t.Run("Toggle", func(t *testing.T) { testToggle(t, newStore(t)) })
	t.Run("ConcurrentToggle", func(t *testing.T) { testConcurrentToggle(t, newStore(t)) })
	t.Run("ConcurrentIncr", func(t *testing.T) { testConcurrentIncr(t, newStore(t)) })
	t.Run("TTLReported", func(t *testing.T) { testTTLReported(t, newStore(t)) })
}

func testStrings(t *testing.T, s Store) {
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNil) {
		t.Fatalf("Get(missing) error = %v, want ErrNil", err)
	}
	if err := s.Set(ctx, "k", "v1", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, err := s.Get(ctx, "k"); err != nil || got != "v1" {
		t.Fatalf("Get() = %q, %v; want v1", got, err)
	}

	ok, err := s.SetNX(ctx, "k", "v2", 0)
	if err != nil || ok {
		t.Fatalf("SetNX(existing) = %v, %v; want false", ok, err)
	}
	ok, err = s.SetNX(ctx, "fresh", "x", 0)
	if err != nil || !ok {
		t.Fatalf("SetNX(fresh) = %v, %v; want true", ok, err)
	}

	n, err := s.Del(ctx, "k", "fresh", "never")
	if err != nil || n != 2 {
		t.Fatalf("Del() = %d, %v; want 2", n, err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNil) {
		t.Errorf("Get after Del error = %v, want ErrNil", err)
	}
}

func testCounters(t *testing.T, s Store) {
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.Incr(ctx, "seq")
		if err != nil || got != want {
			t.Fatalf("Incr() = %d, %v; want %d", got, err, want)
		}
	}
	if got, err := s.IncrBy(ctx, "seq", -5); err != nil || got != -2 {
		t.Fatalf("IncrBy(-5) = %d, %v; want -2", got, err)
	}
	if got, err := s.Get(ctx, "seq"); err != nil || got != "-2" {
		t.Errorf("Get(seq) = %q, %v; want -2", got, err)
	}

	if err := s.Set(ctx, "word", "abc", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := s.Incr(ctx, "word"); !errors.Is(err, ErrNotInteger) {
		t.Errorf("Incr(non-integer) error = %v, want ErrNotInteger", err)
	}
}

func testHashes(t *testing.T, s Store) {
	ctx := context.Background()

	empty, err := s.HGetAll(ctx, "h")
	if err != nil || len(empty) != 0 {
		t.Fatalf("HGetAll(missing) = %v, %v; want empty", empty, err)
	}
	if err := s.HSet(ctx, "h", map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}
	if err := s.HSet(ctx, "h", map[string]string{"b": "3", "c": "4"}); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}
	got, err := s.HGetAll(ctx, "h")
	if err != nil {
		t.Fatalf("HGetAll() error = %v", err)
	}
	want := map[string]string{"a": "1", "b": "3", "c": "4"}
	if len(got) != len(want) {
		t.Fatalf("HGetAll() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("HGetAll()[%q] = %q, want %q", k, got[k], v)
		}
	}

	got["a"] = "mutated"
	again, _ := s.HGetAll(ctx, "h")
	if again["a"] != "1" {
		t.Error("HGetAll result must not alias stored data")
	}
}

func testSets(t *testing.T, s Store) {
	ctx := context.Background()

	if n, err := s.SAdd(ctx, "s", "x", "y", "x"); err != nil || n != 2 {
		t.Fatalf("SAdd() = %d, %v; want 2", n, err)
	}
	if n, err := s.SAdd(ctx, "s", "y", "z"); err != nil || n != 1 {
		t.Fatalf("SAdd() = %d, %v; want 1", n, err)
	}
	if ok, err := s.SIsMember(ctx, "s", "z"); err != nil || !ok {
		t.Errorf("SIsMember(z) = %v, %v; want true", ok, err)
	}
	if n, err := s.SCard(ctx, "s"); err != nil || n != 3 {
		t.Errorf("SCard() = %d, %v; want 3", n, err)
	}
	members, err := s.SMembers(ctx, "s")
	if err != nil {
		t.Fatalf("SMembers() error = %v", err)
	}
	sort.Strings(members)
	if strings.Join(members, ",") != "x,y,z" {
		t.Errorf("SMembers() = %v", members)
	}

	if n, err := s.SRem(ctx, "s", "x", "y", "z", "nope"); err != nil || n != 3 {
		t.Fatalf("SRem() = %d, %v; want 3", n, err)
	}
	if n, err := s.SCard(ctx, "s"); err != nil || n != 0 {
		t.Errorf("SCard(emptied) = %d, %v; want 0", n, err)
	}
	if n, err := s.Del(ctx, "s"); err != nil || n != 0 {
		t.Errorf("emptied set should no longer exist, Del() = %d, %v", n, err)
	}
	if members, err := s.SMembers(ctx, "none"); err != nil || len(members) != 0 {
		t.Errorf("SMembers(missing) = %v, %v", members, err)
	}
}

func testLists(t *testing.T, s Store) {
	ctx := context.Background()

	if n, err := s.RPush(ctx, "l", "a", "b"); err != nil || n != 2 {
		t.Fatalf("RPush() = %d, %v; want 2", n, err)
	}
	if n, err := s.RPush(ctx, "l", "c", "d", "e"); err != nil || n != 5 {
		t.Fatalf("RPush() = %d, %v; want 5", n, err)
	}
	if n, err := s.LLen(ctx, "l"); err != nil || n != 5 {
		t.Errorf("LLen() = %d, %v; want 5", n, err)
	}

	tests := []struct {
		start, stop int64
		want        string
	}{
		{0, -1, "a,b,c,d,e"},
		{1, 2, "b,c"},
		{-2, -1, "d,e"},
		{3, 100, "d,e"},
		{4, 2, ""},
		{10, 20, ""},
		{-100, 0, "a"},
	}
	for _, tt := range tests {
		got, err := s.LRange(ctx, "l", tt.start, tt.stop)
		if err != nil {
			t.Fatalf("LRange(%d,%d) error = %v", tt.start, tt.stop, err)
		}
		if strings.Join(got, ",") != tt.want {
			t.Errorf("LRange(%d,%d) = %v, want %q", tt.start, tt.stop, got, tt.want)
		}
	}

	if got, err := s.LRange(ctx, "missing", 0, -1); err != nil || len(got) != 0 {
		t.Errorf("LRange(missing) = %v, %v", got, err)
	}
}

func testWrongType(t *testing.T, s Store) {
	ctx := context.Background()

	if err := s.HSet(ctx, "hash", map[string]string{"f": "v"}); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}
	if _, err := s.Get(ctx, "hash"); !errors.Is(err, ErrWrongType) {
		t.Errorf("Get(hash) error = %v, want ErrWrongType", err)
	}
	if _, err := s.SAdd(ctx, "hash", "m"); !errors.Is(err, ErrWrongType) {
		t.Errorf("SAdd(hash) error = %v, want ErrWrongType", err)
	}
	if _, err := s.RPush(ctx, "hash", "m"); !errors.Is(err, ErrWrongType) {
		t.Errorf("RPush(hash) error = %v, want ErrWrongType", err)
	}
	if err := s.Set(ctx, "hash", "now a string", 0); err != nil {
		t.Errorf("Set() must overwrite any type, got %v", err)
	}
}

func testToggle(t *testing.T, s Store) {
	ctx := context.Background()

	added, size, err := s.ToggleMember(ctx, "likes", "u1")
	if err != nil || !added || size != 1 {
		t.Fatalf("ToggleMember() = %v, %d, %v; want true, 1", added, size, err)
	}
	added, size, err = s.ToggleMember(ctx, "likes", "u2")
	if err != nil || !added || size != 2 {
		t.Fatalf("ToggleMember(u2) = %v, %d, %v; want true, 2", added, size, err)
	}
	added, size, err = s.ToggleMember(ctx, "likes", "u1")
	if err != nil || added || size != 1 {
		t.Fatalf("ToggleMember(u1 again) = %v, %d, %v; want false, 1", added, size, err)
	}
	if ok, _ := s.SIsMember(ctx, "likes", "u1"); ok {
		t.Error("u1 should no longer be a member")
	}
}

func testConcurrentToggle(t *testing.T, s Store) {
	ctx := context.Background()
	const users = 20

	var wg sync.WaitGroup
	errs := make(chan error, users*2)
	for i := 0; i < users; i++ {
		member := fmt.Sprintf("user-%d", i)
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, _, err := s.ToggleMember(ctx, "post:likes", member); err != nil {
					errs <- err
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("ToggleMember() error = %v", err)
	}

	// Every member toggled exactly twice: all likes cancel out.
	if n, err := s.SCard(ctx, "post:likes"); err != nil || n != 0 {
		t.Errorf("SCard() = %d, %v; want 0", n, err)
	}
}

func testConcurrentIncr(t *testing.T, s Store) {
	ctx := context.Background()
	const workers = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Incr(ctx, "counter"); err != nil {
				t.Errorf("Incr() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got, err := s.Get(ctx, "counter"); err != nil || got != fmt.Sprint(workers) {
		t.Errorf("counter = %q, %v; want %d", got, err, workers)
	}
}

func testTTLReported(t *testing.T, s Store) {
	ctx := context.Background()

	if _, err := s.TTL(ctx, "absent"); !errors.Is(err, ErrNil) {
		t.Errorf("TTL(absent) error = %v, want ErrNil", err)
	}
	if err := s.Set(ctx, "forever", "x", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if d, err := s.TTL(ctx, "forever"); err != nil || d != NoExpiry {
		t.Errorf("TTL(forever) = %v, %v; want NoExpiry", d, err)
	}
	if err := s.Set(ctx, "temp", "x", time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	d, err := s.TTL(ctx, "temp")
	if err != nil || d <= 59*time.Minute || d > time.Hour {
		t.Errorf("TTL(temp) = %v, %v; want about 1h", d, err)
	}

	// Mutations other than Set keep the existing expiry.
	if err := s.Set(ctx, "ctr", "1", time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := s.Incr(ctx, "ctr"); err != nil {
		t.Fatalf("Incr() error = %v", err)
	}
	if d, err := s.TTL(ctx, "ctr"); err != nil || d <= 0 {
		t.Errorf("TTL after Incr = %v, %v; want positive", d, err)
	}
}
