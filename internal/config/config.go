// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

// Package config loads and validates Ning's runtime configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, then an optional
// YAML file, then environment variables. See LoadWithKoanf.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Security SecurityConfig `koanf:"security"`
	API      APIConfig      `koanf:"api"`
	Agent    AgentConfig    `koanf:"agent"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// StoreConfig selects and tunes the key-value backend.
type StoreConfig struct {
	// URL is redis://, rediss://, memory://, redis+fake:// or badger://<dir>.
	URL string `koanf:"url"`

	// UseFake forces the in-memory backend regardless of URL.
	UseFake bool `koanf:"use_fake"`

	DialTimeout time.Duration `koanf:"dial_timeout"`

	// Circuit breaker around the Redis client.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// SecurityConfig holds authentication and HTTP hardening settings.
type SecurityConfig struct {
	SessionTTLSeconds int      `koanf:"session_ttl_seconds"`
	BcryptCost        int      `koanf:"bcrypt_cost"`
	CORSOrigins       []string `koanf:"cors_origins"`

	// Per-IP limit applied to /auth/login and /auth/register.
	AuthRateLimitReqs   int           `koanf:"auth_rate_limit_reqs"`
	AuthRateLimitWindow time.Duration `koanf:"auth_rate_limit_window"`
	RateLimitDisabled   bool          `koanf:"rate_limit_disabled"`
}

// APIConfig holds pagination bounds.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// AgentConfig holds interview agent settings. LLMAPIKey is reserved for a
// model-backed reply generator and is not read by the rule engine.
type AgentConfig struct {
	LLMAPIKey string `koanf:"llm_api_key"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Backend identifies a key-value store implementation.
type Backend string

const (
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
	BackendBadger Backend = "badger"
)

// SessionTTL returns the session lifetime as a duration.
func (c *SecurityConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// StoreBackend resolves which backend the store URL selects. For badger the
// second return value is the data directory ("" means in-memory Badger).
func (c *StoreConfig) StoreBackend() (Backend, string, error) {
	if c.UseFake {
		return BackendMemory, "", nil
	}
	raw := strings.TrimSpace(c.URL)
	switch {
	case strings.HasPrefix(raw, "memory://"), strings.HasPrefix(raw, "redis+fake://"):
		return BackendMemory, "", nil
	case strings.HasPrefix(raw, "badger://"):
		return BackendBadger, strings.TrimPrefix(raw, "badger://"), nil
	case strings.HasPrefix(raw, "redis://"), strings.HasPrefix(raw, "rediss://"), strings.HasPrefix(raw, "unix://"):
		if _, err := url.Parse(raw); err != nil {
			return "", "", fmt.Errorf("invalid store url: %w", err)
		}
		return BackendRedis, raw, nil
	case raw == "":
		return "", "", errors.New("store url is required")
	default:
		return "", "", fmt.Errorf("unsupported store url scheme in %q", raw)
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if _, _, err := c.Store.StoreBackend(); err != nil {
		errs = append(errs, err)
	}
	if c.Security.SessionTTLSeconds <= 0 {
		errs = append(errs, fmt.Errorf("security.session_ttl_seconds must be positive, got %d", c.Security.SessionTTLSeconds))
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("security.bcrypt_cost must be %d-%d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Security.BcryptCost))
	}
	if len(c.Security.CORSOrigins) == 0 {
		errs = append(errs, errors.New("security.cors_origins must list at least one origin"))
	}
	if !c.Security.RateLimitDisabled && (c.Security.AuthRateLimitReqs <= 0 || c.Security.AuthRateLimitWindow <= 0) {
		errs = append(errs, errors.New("security auth rate limit must have positive requests and window"))
	}
	if c.API.DefaultPageSize < 1 || c.API.MaxPageSize < c.API.DefaultPageSize {
		errs = append(errs, fmt.Errorf("api page sizes invalid: default=%d max=%d", c.API.DefaultPageSize, c.API.MaxPageSize))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Addr returns host:port for the HTTP listener.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
