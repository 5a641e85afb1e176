// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// maxTxnRetries bounds retries of a read-modify-write transaction that lost
// an optimistic-concurrency race.
const maxTxnRetries = 100

// BadgerStore is a Store on an embedded Badger database. Every mutation is a
// single read-modify-write transaction, so counters and set toggles are atomic.
// Badger TTLs have one-second resolution.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a Badger database at dir. An empty dir
// opens an in-memory database.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Backend() string { return "badger" }

func (s *BadgerStore) Ping(_ context.Context) error {
	start := time.Now()
	var err error
	if s.db.IsClosed() {
		err = ErrClosed
	}
	observe("badger", "ping", start, err)
	return err
}

// gcDiscardRatio is the fraction of a value log file that must be stale
// before RunGC rewrites it.
const gcDiscardRatio = 0.5

// RunGC rewrites value log files until Badger reports nothing left to
// reclaim. In-memory databases have no value log and return nil.
func (s *BadgerStore) RunGC() error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	start := time.Now()
	var err error
	for {
		err = s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			err = nil
			break
		}
		if err != nil {
			err = fmt.Errorf("run value log gc: %w", err)
			break
		}
	}
	observe("badger", "gc", start, err)
	return err
}

func (s *BadgerStore) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

// read loads key in txn. It returns nil for a missing or expired key.
func read(txn *badger.Txn, key string) (*value, uint64, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, 0, err
	}
	var v value
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, 0, fmt.Errorf("decode %q: %w", key, err)
	}
	return &v, item.ExpiresAt(), nil
}

// write stores v with an absolute expiry (0 = none); nil v deletes the key.
func write(txn *badger.Txn, key string, v *value, expiresAt uint64) error {
	if v == nil {
		return txn.Delete([]byte(key))
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e := badger.NewEntry([]byte(key), raw)
	e.ExpiresAt = expiresAt
	return txn.SetEntry(e)
}

func ttlToExpiresAt(ttl time.Duration) uint64 {
	if ttl <= 0 {
		return 0
	}
	return uint64(time.Now().Add(ttl).Unix())
}

func (s *BadgerStore) view(op string, fn func(txn *badger.Txn) error) error {
	start := time.Now()
	err := s.db.View(fn)
	if errors.Is(err, badger.ErrDBClosed) {
		err = ErrClosed
	}
	observe("badger", op, start, err)
	return wrapOp(op, err)
}

// update runs fn in a read-write transaction, retrying on conflicts.
func (s *BadgerStore) update(op string, fn func(txn *badger.Txn) error) error {
	start := time.Now()
	var err error
	for i := 0; i < maxTxnRetries; i++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if errors.Is(err, badger.ErrDBClosed) {
		err = ErrClosed
	}
	observe("badger", op, start, err)
	return wrapOp(op, err)
}

// modify replaces key's value with fn(current), keeping its expiry.
func (s *BadgerStore) modify(op, key string, fn func(v *value) (*value, error)) error {
	return s.update(op, func(txn *badger.Txn) error {
		cur, exp, err := read(txn, key)
		if err != nil {
			return err
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}
		if next == nil && cur == nil {
			return nil
		}
		return write(txn, key, next, exp)
	})
}

func (s *BadgerStore) Get(_ context.Context, key string) (string, error) {
	var out string
	err := s.view("get", func(txn *badger.Txn) error {
		v, _, err := read(txn, key)
		if err != nil {
			return err
		}
		if v == nil {
			return ErrNil
		}
		if err := expect(v, kindString); err != nil {
			return err
		}
		out = v.Str
		return nil
	})
	return out, err
}

func (s *BadgerStore) Set(_ context.Context, key, val string, ttl time.Duration) error {
	return s.update("set", func(txn *badger.Txn) error {
		return write(txn, key, stringValue(val), ttlToExpiresAt(ttl))
	})
}

func (s *BadgerStore) SetNX(_ context.Context, key, val string, ttl time.Duration) (bool, error) {
	var ok bool
	err := s.update("setnx", func(txn *badger.Txn) error {
		ok = false
		cur, _, err := read(txn, key)
		if err != nil || cur != nil {
			return err
		}
		ok = true
		return write(txn, key, stringValue(val), ttlToExpiresAt(ttl))
	})
	return ok, err
}

func (s *BadgerStore) Del(_ context.Context, keys ...string) (int64, error) {
	var n int64
	err := s.update("del", func(txn *badger.Txn) error {
		n = 0
		for _, k := range keys {
			cur, _, err := read(txn, k)
			if err != nil {
				return err
			}
			if cur == nil {
				continue
			}
			if err := txn.Delete([]byte(k)); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

func (s *BadgerStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.IncrBy(ctx, key, 1)
}

func (s *BadgerStore) IncrBy(_ context.Context, key string, n int64) (int64, error) {
	var out int64
	err := s.modify("incrby", key, func(v *value) (*value, error) {
		nv, cur, err := incrValue(v, n)
		out = cur
		return nv, err
	})
	return out, err
}

func (s *BadgerStore) TTL(_ context.Context, key string) (time.Duration, error) {
	var out time.Duration
	err := s.view("ttl", func(txn *badger.Txn) error {
		v, exp, err := read(txn, key)
		if err != nil {
			return err
		}
		if v == nil {
			return ErrNil
		}
		if exp == 0 {
			out = NoExpiry
			return nil
		}
		out = time.Until(time.Unix(int64(exp), 0))
		return nil
	})
	return out, err
}

func (s *BadgerStore) HSet(_ context.Context, key string, fields map[string]string) error {
	return s.modify("hset", key, func(v *value) (*value, error) {
		return hsetValue(v, fields)
	})
}

func (s *BadgerStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	var out map[string]string
	err := s.view("hgetall", func(txn *badger.Txn) error {
		v, _, err := read(txn, key)
		if err != nil {
			return err
		}
		if err := expect(v, kindHash); err != nil {
			return err
		}
		out = copyHash(v)
		return nil
	})
	return out, err
}

func (s *BadgerStore) SAdd(_ context.Context, key string, members ...string) (int64, error) {
	var added int64
	err := s.modify("sadd", key, func(v *value) (*value, error) {
		nv, n, err := saddValue(v, members)
		added = n
		return nv, err
	})
	return added, err
}

func (s *BadgerStore) SRem(_ context.Context, key string, members ...string) (int64, error) {
	var removed int64
	err := s.modify("srem", key, func(v *value) (*value, error) {
		nv, n, err := sremValue(v, members)
		removed = n
		return nv, err
	})
	return removed, err
}

// readSet loads a set value for read-only operations.
func (s *BadgerStore) readSet(op, key string) (*value, error) {
	var out *value
	err := s.view(op, func(txn *badger.Txn) error {
		v, _, err := read(txn, key)
		if err != nil {
			return err
		}
		if err := expect(v, kindSet); err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func (s *BadgerStore) SMembers(_ context.Context, key string) ([]string, error) {
	v, err := s.readSet("smembers", key)
	if err != nil {
		return nil, err
	}
	return setMembers(v), nil
}

func (s *BadgerStore) SIsMember(_ context.Context, key, member string) (bool, error) {
	v, err := s.readSet("sismember", key)
	if err != nil {
		return false, err
	}
	return v != nil && v.Set[member], nil
}

func (s *BadgerStore) SCard(_ context.Context, key string) (int64, error) {
	v, err := s.readSet("scard", key)
	if err != nil || v == nil {
		return 0, err
	}
	return int64(len(v.Set)), nil
}

func (s *BadgerStore) RPush(_ context.Context, key string, values ...string) (int64, error) {
	var n int64
	err := s.modify("rpush", key, func(v *value) (*value, error) {
		nv, l, err := rpushValue(v, values)
		n = l
		return nv, err
	})
	return n, err
}

func (s *BadgerStore) readList(op, key string) ([]string, error) {
	var out []string
	err := s.view(op, func(txn *badger.Txn) error {
		v, _, err := read(txn, key)
		if err != nil {
			return err
		}
		if err := expect(v, kindList); err != nil {
			return err
		}
		if v != nil {
			out = v.List
		}
		return nil
	})
	return out, err
}

func (s *BadgerStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	list, err := s.readList("lrange", key)
	if err != nil {
		return nil, err
	}
	return lrange(list, start, stop), nil
}

func (s *BadgerStore) LLen(_ context.Context, key string) (int64, error) {
	list, err := s.readList("llen", key)
	return int64(len(list)), err
}

func (s *BadgerStore) ToggleMember(_ context.Context, key, member string) (bool, int64, error) {
	var (
		added bool
		size  int64
	)
	err := s.modify("toggle", key, func(v *value) (*value, error) {
		nv, a, n, err := toggleValue(v, member)
		added, size = a, n
		return nv, err
	})
	return added, size, err
}
