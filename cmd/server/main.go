// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

// Package main is the entry point for the Ning API server.
//
// Startup order:
//
//  1. Configuration: .env (godotenv), config.yaml and environment (koanf)
//  2. Logging: zerolog, with supervisor events bridged through slog
//  3. Store: Redis, Badger or in-memory, chosen by STORE_URL / USE_FAKE_REDIS
//  4. Services: identity, forum, study and interview agent
//  5. Supervisor tree: HTTP server plus Badger garbage collection
//
// SIGINT and SIGTERM cancel the tree; the HTTP server drains in-flight
// requests for up to SERVER_SHUTDOWN_TIMEOUT before the store is closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/tomtom215/ning/internal/config"
	"github.com/tomtom215/ning/internal/kvstore"
	"github.com/tomtom215/ning/internal/logging"
	"github.com/tomtom215/ning/internal/supervisor"
	"github.com/tomtom215/ning/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Ning")

	store, err := kvstore.Open(ctx, &cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newRouter(cfg, store),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if gc, ok := store.(services.GarbageCollector); ok {
		tree.AddDataService(services.NewStoreGCService(gc, services.DefaultGCInterval))
		logging.Info().Msg("Store garbage collection added to supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	err = <-tree.ServeBackground(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	// A canceled ctx is a requested shutdown whatever the tree returned.
	if err != nil && ctx.Err() == nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}
