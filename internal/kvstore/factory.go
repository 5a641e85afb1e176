// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package kvstore

import (
	"context"
	"fmt"

	"github.com/tomtom215/ning/internal/config"
	"github.com/tomtom215/ning/internal/logging"
)

// Open builds the Store selected by cfg. A Redis store that cannot be reached
// at startup is still returned; the failed ping is logged and /healthz
// reports it.
func Open(ctx context.Context, cfg *config.StoreConfig) (Store, error) {
	backend, target, err := cfg.StoreBackend()
	if err != nil {
		return nil, err
	}

	switch backend {
	case config.BackendMemory:
		logging.Info().Str("backend", "memory").Msg("Using in-memory key-value store")
		return NewMemoryStore(), nil

	case config.BackendBadger:
		s, err := OpenBadgerStore(target)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("backend", "badger").Str("path", target).Msg("Opened embedded key-value store")
		return s, nil

	case config.BackendRedis:
		s, err := NewRedisStore(target, cfg.DialTimeout, BreakerOptions{
			Name:        "redis",
			MaxFailures: cfg.BreakerMaxFailures,
			Timeout:     cfg.BreakerTimeout,
		})
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			logging.Warn().Err(err).Msg("Redis not reachable at startup; continuing")
		} else {
			logging.Info().Str("backend", "redis").Msg("Connected to Redis")
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", backend)
	}
}
