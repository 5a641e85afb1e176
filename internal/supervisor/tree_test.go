// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/ning/internal/logging"
)

type blockingService struct {
	name    string
	started chan struct{}
	stopped atomic.Bool
}

func newBlockingService(name string) *blockingService {
	return &blockingService{name: name, started: make(chan struct{}, 1)}
}

func (s *blockingService) Serve(ctx context.Context) error {
	select {
	case s.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	s.stopped.Store(true)
	return ctx.Err()
}

func (s *blockingService) String() string { return s.name }

// flakyService fails until it has been started failUntil times.
type flakyService struct {
	starts    atomic.Int32
	failUntil int32
	healthy   chan struct{}
}

func (s *flakyService) Serve(ctx context.Context) error {
	if s.starts.Add(1) <= s.failUntil {
		return errors.New("transient failure")
	}
	select {
	case s.healthy <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return ctx.Err()
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestTreeConfig_Defaults(t *testing.T) {
	tree, err := NewTree(nil, TreeConfig{FailureBackoff: time.Second})
	if err != nil {
		t.Fatalf("NewTree() error = %v", err)
	}
	want := DefaultTreeConfig()
	want.FailureBackoff = time.Second
	if tree.config != want {
		t.Errorf("config = %+v, want %+v", tree.config, want)
	}
	if tree.Root() == nil {
		t.Error("Root() is nil")
	}
}

func TestTree_ServesAndStopsBothLayers(t *testing.T) {
	tree, err := NewTree(logging.NewSlogLogger(), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewTree() error = %v", err)
	}
	data := newBlockingService("gc")
	api := newBlockingService("http")
	tree.AddDataService(data)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitFor(t, data.started, "data service")
	waitFor(t, api.started, "api service")

	cancel()
	select {
	case <-errCh:
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}
	if !data.stopped.Load() || !api.stopped.Load() {
		t.Errorf("stopped data=%v api=%v, want both", data.stopped.Load(), api.stopped.Load())
	}
	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() error = %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services = %v", report)
	}
}

func TestTree_RestartsFailedService(t *testing.T) {
	tree, err := NewTree(logging.NewSlogLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewTree() error = %v", err)
	}
	svc := &flakyService{failUntil: 2, healthy: make(chan struct{}, 1)}
	tree.AddDataService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitFor(t, svc.healthy, "restarted service")
	if n := svc.starts.Load(); n != 3 {
		t.Errorf("starts = %d, want 3", n)
	}
	cancel()
	<-errCh
}
