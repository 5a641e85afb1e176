// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package kvstore

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	val       *value
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-process Store. Expired keys are dropped lazily when
// next touched, which is indistinguishable from Redis expiry to callers.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string]memEntry
	now    func() time.Time
	closed bool
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the clock used for TTL bookkeeping.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{data: make(map[string]memEntry), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Backend() string { return "memory" }

// load returns the live value for key, evicting it if expired. mu must be held.
func (s *MemoryStore) load(key string) (memEntry, *value) {
	e, ok := s.data[key]
	if !ok {
		return memEntry{}, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.data, key)
		return memEntry{}, nil
	}
	return e, e.val
}

// store writes v keeping the entry's existing expiry. A nil v deletes key.
func (s *MemoryStore) store(key string, prev memEntry, v *value) {
	if v == nil {
		delete(s.data, key)
		return
	}
	s.data[key] = memEntry{val: v, expiresAt: prev.expiresAt}
}

func (s *MemoryStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}

// with runs fn under the lock after checking the store is open.
func (s *MemoryStore) with(op string, fn func() error) (err error) {
	start := time.Now()
	defer func() { observe("memory", op, start, err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return fn()
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return s.with("ping", func() error { return nil })
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	var out string
	err := s.with("get", func() error {
		_, v := s.load(key)
		if v == nil {
			return ErrNil
		}
		if err := expect(v, kindString); err != nil {
			return err
		}
		out = v.Str
		return nil
	})
	return out, wrapOp("get", err)
}

func (s *MemoryStore) Set(_ context.Context, key, val string, ttl time.Duration) error {
	return wrapOp("set", s.with("set", func() error {
		s.data[key] = memEntry{val: stringValue(val), expiresAt: s.expiry(ttl)}
		return nil
	}))
}

func (s *MemoryStore) SetNX(_ context.Context, key, val string, ttl time.Duration) (bool, error) {
	var ok bool
	err := s.with("setnx", func() error {
		if _, v := s.load(key); v != nil {
			return nil
		}
		s.data[key] = memEntry{val: stringValue(val), expiresAt: s.expiry(ttl)}
		ok = true
		return nil
	})
	return ok, wrapOp("setnx", err)
}

func (s *MemoryStore) Del(_ context.Context, keys ...string) (int64, error) {
	var n int64
	err := s.with("del", func() error {
		for _, k := range keys {
			if _, v := s.load(k); v != nil {
				delete(s.data, k)
				n++
			}
		}
		return nil
	})
	return n, wrapOp("del", err)
}

func (s *MemoryStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.IncrBy(ctx, key, 1)
}

func (s *MemoryStore) IncrBy(_ context.Context, key string, n int64) (int64, error) {
	var out int64
	err := s.with("incrby", func() error {
		prev, v := s.load(key)
		nv, cur, err := incrValue(v, n)
		if err != nil {
			return err
		}
		s.store(key, prev, nv)
		out = cur
		return nil
	})
	return out, wrapOp("incrby", err)
}

func (s *MemoryStore) TTL(_ context.Context, key string) (time.Duration, error) {
	var out time.Duration
	err := s.with("ttl", func() error {
		e, v := s.load(key)
		if v == nil {
			return ErrNil
		}
		if e.expiresAt.IsZero() {
			out = NoExpiry
			return nil
		}
		out = e.expiresAt.Sub(s.now())
		return nil
	})
	return out, wrapOp("ttl", err)
}

func (s *MemoryStore) HSet(_ context.Context, key string, fields map[string]string) error {
	return wrapOp("hset", s.with("hset", func() error {
		prev, v := s.load(key)
		nv, err := hsetValue(v, fields)
		if err != nil {
			return err
		}
		s.store(key, prev, nv)
		return nil
	}))
}

func (s *MemoryStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	var out map[string]string
	err := s.with("hgetall", func() error {
		_, v := s.load(key)
		if err := expect(v, kindHash); err != nil {
			return err
		}
		out = copyHash(v)
		return nil
	})
	return out, wrapOp("hgetall", err)
}

func (s *MemoryStore) SAdd(_ context.Context, key string, members ...string) (int64, error) {
	var added int64
	err := s.with("sadd", func() error {
		prev, v := s.load(key)
		nv, n, err := saddValue(v, members)
		if err != nil {
			return err
		}
		s.store(key, prev, nv)
		added = n
		return nil
	})
	return added, wrapOp("sadd", err)
}

func (s *MemoryStore) SRem(_ context.Context, key string, members ...string) (int64, error) {
	var removed int64
	err := s.with("srem", func() error {
		prev, v := s.load(key)
		nv, n, err := sremValue(v, members)
		if err != nil {
			return err
		}
		s.store(key, prev, nv)
		removed = n
		return nil
	})
	return removed, wrapOp("srem", err)
}

func (s *MemoryStore) SMembers(_ context.Context, key string) ([]string, error) {
	var out []string
	err := s.with("smembers", func() error {
		_, v := s.load(key)
		if err := expect(v, kindSet); err != nil {
			return err
		}
		out = setMembers(v)
		return nil
	})
	return out, wrapOp("smembers", err)
}

func (s *MemoryStore) SIsMember(_ context.Context, key, member string) (bool, error) {
	var ok bool
	err := s.with("sismember", func() error {
		_, v := s.load(key)
		if err := expect(v, kindSet); err != nil {
			return err
		}
		ok = v != nil && v.Set[member]
		return nil
	})
	return ok, wrapOp("sismember", err)
}

func (s *MemoryStore) SCard(_ context.Context, key string) (int64, error) {
	var n int64
	err := s.with("scard", func() error {
		_, v := s.load(key)
		if err := expect(v, kindSet); err != nil {
			return err
		}
		if v != nil {
			n = int64(len(v.Set))
		}
		return nil
	})
	return n, wrapOp("scard", err)
}

func (s *MemoryStore) RPush(_ context.Context, key string, values ...string) (int64, error) {
	var n int64
	err := s.with("rpush", func() error {
		prev, v := s.load(key)
		nv, l, err := rpushValue(v, values)
		if err != nil {
			return err
		}
		s.store(key, prev, nv)
		n = l
		return nil
	})
	return n, wrapOp("rpush", err)
}

func (s *MemoryStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	var out []string
	err := s.with("lrange", func() error {
		_, v := s.load(key)
		if err := expect(v, kindList); err != nil {
			return err
		}
		if v == nil {
			out = []string{}
			return nil
		}
		out = lrange(v.List, start, stop)
		return nil
	})
	return out, wrapOp("lrange", err)
}

func (s *MemoryStore) LLen(_ context.Context, key string) (int64, error) {
	var n int64
	err := s.with("llen", func() error {
		_, v := s.load(key)
		if err := expect(v, kindList); err != nil {
			return err
		}
		if v != nil {
			n = int64(len(v.List))
		}
		return nil
	})
	return n, wrapOp("llen", err)
}

func (s *MemoryStore) ToggleMember(_ context.Context, key, member string) (bool, int64, error) {
	var (
		added bool
		size  int64
	)
	err := s.with("toggle", func() error {
		prev, v := s.load(key)
		nv, a, n, err := toggleValue(v, member)
		if err != nil {
			return err
		}
		s.store(key, prev, nv)
		added, size = a, n
		return nil
	})
	return added, size, wrapOp("toggle", err)
}
