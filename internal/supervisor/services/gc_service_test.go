// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingGC struct {
	runs atomic.Int32
	err  error
}

func (c *countingGC) RunGC() error {
	c.runs.Add(1)
	return c.err
}

func TestNewStoreGCService_Defaults(t *testing.T) {
	svc := NewStoreGCService(&countingGC{}, 0)
	if svc.interval != DefaultGCInterval {
		t.Errorf("interval = %v, want %v", svc.interval, DefaultGCInterval)
	}
	if svc.String() != "store-gc" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestStoreGCService_Serve(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"collects on each tick", nil},
		{"keeps running after a failed collection", errors.New("value log rewrite failed")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gc := &countingGC{err: tt.err}
			svc := NewStoreGCService(gc, 5*time.Millisecond)

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			deadline := time.Now().Add(2 * time.Second)
			for gc.runs.Load() < 2 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			cancel()

			if err := <-errCh; !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() error = %v, want context.Canceled", err)
			}
			if gc.runs.Load() < 2 {
				t.Errorf("RunGC calls = %d, want at least 2", gc.runs.Load())
			}
		})
	}
}
