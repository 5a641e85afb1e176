// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ning/internal/logging"
	"github.com/tomtom215/ning/internal/metrics"
)

// toggleScript flips set membership and returns {added, scard} in one round trip.
var toggleScript = redis.NewScript(`
if redis.call('SISMEMBER', KEYS[1], ARGV[1]) == 1 then
  redis.call('SREM', KEYS[1], ARGV[1])
  return {0, redis.call('SCARD', KEYS[1])}
end
redis.call('SADD', KEYS[1], ARGV[1])
return {1, redis.call('SCARD', KEYS[1])}
`)

// BreakerOptions configures the circuit breaker in front of Redis.
type BreakerOptions struct {
	Name string
	// MaxFailures consecutive connectivity failures open the circuit.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before probing again.
	Timeout time.Duration
}

// RedisStore is a Store backed by a Redis server.
type RedisStore struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewRedisStore connects to the server at rawURL. The connection is lazy; use
// Ping to verify reachability.
func NewRedisStore(rawURL string, dialTimeout time.Duration, bo BreakerOptions) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if dialTimeout > 0 {
		opts.DialTimeout = dialTimeout
	}
	return NewRedisStoreFromClient(redis.NewClient(opts), bo), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, bo BreakerOptions) *RedisStore {
	if bo.Name == "" {
		bo.Name = "redis"
	}
	if bo.MaxFailures == 0 {
		bo.MaxFailures = 5
	}
	if bo.Timeout <= 0 {
		bo.Timeout = 30 * time.Second
	}
	metrics.CircuitBreakerState.WithLabelValues(bo.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        bo.Name,
		MaxRequests: 1,
		Timeout:     bo.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bo.MaxFailures
		},
		IsSuccessful: isReachable,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Redis circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return &RedisStore{client: client, cb: cb, name: bo.Name}
}

// isReachable reports whether err still proves the server answered. Missing
// keys, server-side reply errors and caller cancellation do not count
// against the breaker.
func isReachable(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var replyErr redis.Error
	return errors.As(err, &replyErr) && !errors.Is(err, redis.ErrClosed)
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Client exposes the underlying client for health reporting and tests.
func (s *RedisStore) Client() *redis.Client { return s.client }

func (s *RedisStore) Backend() string { return "redis" }

func (s *RedisStore) Close() error { return s.client.Close() }

// call runs fn through the breaker, records metrics and normalizes errors.
func call[T any](s *RedisStore, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	res, err := s.cb.Execute(func() (any, error) {
		return fn()
	})
	err = translate(err)

	switch {
	case errors.Is(err, ErrUnavailable):
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
	case err != nil && err != ErrNil:
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	}
	observe("redis", op, start, err)

	out, _ := res.(T)
	return out, wrapOp(op, err)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return ErrNil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, redis.ErrClosed):
		return ErrClosed
	case strings.HasPrefix(err.Error(), "WRONGTYPE"):
		return ErrWrongType
	case strings.Contains(err.Error(), "not an integer"):
		return ErrNotInteger
	default:
		return err
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	_, err := call(s, "ping", func() (string, error) {
		return s.client.Ping(ctx).Result()
	})
	return err
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	return call(s, "get", func() (string, error) {
		return s.client.Get(ctx, key).Result()
	})
}

func (s *RedisStore) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	_, err := call(s, "set", func() (string, error) {
		return s.client.Set(ctx, key, val, ttl).Result()
	})
	return err
}

func (s *RedisStore) SetNX(ctx context.Context, key, val string, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	return call(s, "setnx", func() (bool, error) {
		return s.client.SetNX(ctx, key, val, ttl).Result()
	})
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return call(s, "del", func() (int64, error) {
		return s.client.Del(ctx, keys...).Result()
	})
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return call(s, "incr", func() (int64, error) {
		return s.client.Incr(ctx, key).Result()
	})
}

func (s *RedisStore) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	return call(s, "incrby", func() (int64, error) {
		return s.client.IncrBy(ctx, key, n).Result()
	})
}

func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := call(s, "ttl", func() (time.Duration, error) {
		return s.client.TTL(ctx, key).Result()
	})
	if err != nil {
		return 0, err
	}
	switch d {
	case -2:
		return 0, ErrNil
	case -1:
		return NoExpiry, nil
	}
	return d, nil
}

func (s *RedisStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(fields)*2)
	for f, v := range fields {
		args = append(args, f, v)
	}
	_, err := call(s, "hset", func() (int64, error) {
		return s.client.HSet(ctx, key, args...).Result()
	})
	return err
}

func (s *RedisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return call(s, "hgetall", func() (map[string]string, error) {
		return s.client.HGetAll(ctx, key).Result()
	})
}

func (s *RedisStore) SAdd(ctx context.Context, key string, members ...string) (int64, error) {
	return call(s, "sadd", func() (int64, error) {
		return s.client.SAdd(ctx, key, toArgs(members)...).Result()
	})
}

func (s *RedisStore) SRem(ctx context.Context, key string, members ...string) (int64, error) {
	return call(s, "srem", func() (int64, error) {
		return s.client.SRem(ctx, key, toArgs(members)...).Result()
	})
}

func (s *RedisStore) SMembers(ctx context.Context, key string) ([]string, error) {
	return call(s, "smembers", func() ([]string, error) {
		return s.client.SMembers(ctx, key).Result()
	})
}

func (s *RedisStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	return call(s, "sismember", func() (bool, error) {
		return s.client.SIsMember(ctx, key, member).Result()
	})
}

func (s *RedisStore) SCard(ctx context.Context, key string) (int64, error) {
	return call(s, "scard", func() (int64, error) {
		return s.client.SCard(ctx, key).Result()
	})
}

func (s *RedisStore) RPush(ctx context.Context, key string, values ...string) (int64, error) {
	return call(s, "rpush", func() (int64, error) {
		return s.client.RPush(ctx, key, toArgs(values)...).Result()
	})
}

func (s *RedisStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return call(s, "lrange", func() ([]string, error) {
		return s.client.LRange(ctx, key, start, stop).Result()
	})
}

func (s *RedisStore) LLen(ctx context.Context, key string) (int64, error) {
	return call(s, "llen", func() (int64, error) {
		return s.client.LLen(ctx, key).Result()
	})
}

func (s *RedisStore) ToggleMember(ctx context.Context, key, member string) (bool, int64, error) {
	reply, err := call(s, "toggle", func() ([]int64, error) {
		return toggleScript.Run(ctx, s.client, []string{key}, member).Int64Slice()
	})
	if err != nil {
		return false, 0, err
	}
	if len(reply) != 2 {
		return false, 0, fmt.Errorf("kvstore toggle: unexpected script reply %v", reply)
	}
	return reply[0] == 1, reply[1], nil
}

func toArgs(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
