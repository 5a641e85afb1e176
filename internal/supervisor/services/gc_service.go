// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package services

import (
	"context"
	"time"

	"github.com/tomtom215/ning/internal/logging"
)

// DefaultGCInterval is how often StoreGCService runs a collection.
const DefaultGCInterval = 10 * time.Minute

// GarbageCollector is satisfied by *kvstore.BadgerStore.
type GarbageCollector interface {
	RunGC() error
}

// StoreGCService runs RunGC on a fixed interval until its context ends.
// A failed collection is logged and retried on the next tick; it never
// restarts the service.
type StoreGCService struct {
	gc       GarbageCollector
	interval time.Duration
	name     string
}

// NewStoreGCService returns a service collecting gc every interval. A
// non-positive interval uses DefaultGCInterval.
func NewStoreGCService(gc GarbageCollector, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = DefaultGCInterval
	}
	return &StoreGCService{gc: gc, interval: interval, name: "store-gc"}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.gc.RunGC(); err != nil {
				logging.Error().Err(err).Msg("Store garbage collection failed")
				continue
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("Store garbage collection finished")
		}
	}
}

func (s *StoreGCService) String() string {
	return s.name
}
