// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package kvstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithClock(clock.Now))

	if err := s.Set(ctx, "session:abc", "42", 7*24*time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if ok, _ := s.SetNX(ctx, "lock", "1", time.Minute); !ok {
		t.Fatal("SetNX() should succeed on a fresh key")
	}

	clock.Advance(7*24*time.Hour - time.Second)
	if got, err := s.Get(ctx, "session:abc"); err != nil || got != "42" {
		t.Fatalf("Get() before expiry = %q, %v", got, err)
	}
	if d, _ := s.TTL(ctx, "session:abc"); d != time.Second {
		t.Errorf("TTL() = %v, want 1s", d)
	}

	clock.Advance(time.Second)
	if _, err := s.Get(ctx, "session:abc"); !errors.Is(err, ErrNil) {
		t.Errorf("Get() after expiry error = %v, want ErrNil", err)
	}
	if ok, _ := s.SetNX(ctx, "lock", "2", 0); !ok {
		t.Error("SetNX() should succeed once the previous key expired")
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Ping(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Ping() after Close error = %v, want ErrClosed", err)
	}
	if _, err := s.Incr(context.Background(), "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("Incr() after Close error = %v, want ErrClosed", err)
	}
}
