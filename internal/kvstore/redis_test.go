// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package kvstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newMiniredisStore(t *testing.T, bo BreakerOptions) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore("redis://"+mr.Addr()+"/0", time.Second, bo)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s, _ := newMiniredisStore(t, BreakerOptions{})
		return s
	})
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniredisStore(t, BreakerOptions{})

	if err := s.Set(ctx, "session:tok", "7", 7*24*time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	mr.FastForward(7*24*time.Hour - time.Second)
	if got, err := s.Get(ctx, "session:tok"); err != nil || got != "7" {
		t.Fatalf("Get() before expiry = %q, %v", got, err)
	}
	mr.FastForward(time.Second)
	if _, err := s.Get(ctx, "session:tok"); !errors.Is(err, ErrNil) {
		t.Errorf("Get() after expiry error = %v, want ErrNil", err)
	}
}

func TestRedisStore_MissDoesNotTripBreaker(t *testing.T) {
	ctx := context.Background()
	s, _ := newMiniredisStore(t, BreakerOptions{MaxFailures: 1})

	for i := 0; i < 5; i++ {
		if _, err := s.Get(ctx, "nothing"); !errors.Is(err, ErrNil) {
			t.Fatalf("Get() error = %v, want ErrNil", err)
		}
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v; misses must not open the circuit", err)
	}
}

func TestRedisStore_BreakerOpensWhenServerDown(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniredisStore(t, BreakerOptions{Name: "redis-test", MaxFailures: 2, Timeout: time.Minute})

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	mr.Close()

	for i := 0; i < 2; i++ {
		err := s.Ping(ctx)
		if err == nil || errors.Is(err, ErrUnavailable) {
			t.Fatalf("Ping() #%d error = %v, want connection error", i+1, err)
		}
	}
	if err := s.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ping() with open circuit error = %v, want ErrUnavailable", err)
	}
}
