// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

// Package kvstore is the key-value adapter every Ning service persists through.
//
// Store exposes the subset of Redis data types the services need: strings
// with TTL, hashes, sets, lists and atomic counters. Three backends implement
// it with identical observable semantics:
//
//   - RedisStore: go-redis v9 behind a circuit breaker (production)
//   - BadgerStore: embedded Badger v4 (single node, or in-memory for tests)
//   - MemoryStore: mutex-guarded maps (USE_FAKE_REDIS / memory://)
//
// A key holds exactly one type. Calling a string operation on a hash key
// returns ErrWrongType, as Redis does. Collections that become empty are
// removed, so a missing key and an empty collection are indistinguishable.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNil is returned when a string key does not exist.
	ErrNil = errors.New("kvstore: key does not exist")

	// ErrWrongType is returned when an operation targets a key of another type.
	ErrWrongType = errors.New("kvstore: WRONGTYPE operation against a key holding the wrong kind of value")

	// ErrNotInteger is returned by Incr/IncrBy on a non-numeric value.
	ErrNotInteger = errors.New("kvstore: value is not an integer")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("kvstore: store is closed")

	// ErrUnavailable is returned while the Redis circuit breaker is open.
	ErrUnavailable = errors.New("kvstore: store unavailable")
)

// NoExpiry is returned by TTL for keys without a time-to-live.
const NoExpiry time.Duration = -1

// Store is the key-value contract shared by all backends. All methods are
// safe for concurrent use.
type Store interface {
	// Backend names the implementation: "redis", "badger" or "memory".
	Backend() string
	Ping(ctx context.Context) error
	Close() error

	// Get returns ErrNil if the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Set overwrites key. ttl <= 0 stores without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX sets key only if absent and reports whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	IncrBy(ctx context.Context, key string, n int64) (int64, error)
	// TTL returns the remaining lifetime, NoExpiry, or ErrNil for a missing key.
	TTL(ctx context.Context, key string) (time.Duration, error)

	HSet(ctx context.Context, key string, fields map[string]string) error
	// HGetAll returns an empty map for a missing key.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	SAdd(ctx context.Context, key string, members ...string) (int64, error)
	SRem(ctx context.Context, key string, members ...string) (int64, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SCard(ctx context.Context, key string) (int64, error)

	RPush(ctx context.Context, key string, values ...string) (int64, error)
	// LRange follows Redis index rules, including negative indexes.
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LLen(ctx context.Context, key string) (int64, error)

	// ToggleMember atomically removes member from the set if present and adds
	// it otherwise. It returns whether member is now in the set and the set's
	// new cardinality.
	ToggleMember(ctx context.Context, key, member string) (added bool, size int64, err error)
}
