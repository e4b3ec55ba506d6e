// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"time"
)

// Config selects and tunes the cache backend.
type Config struct {
	// Type is "memory" or "redis".
	Type string

	// RedisURL is required when Type is "redis".
	RedisURL string

	// Prefix namespaces keys in Redis.
	Prefix string

	// DefaultTTL applies to entries stored with a zero ttl.
	DefaultTTL time.Duration

	// CleanupInterval is the expired-entry sweep period for the memory
	// backend.
	CleanupInterval time.Duration
}

// DefaultConfig returns the memory backend with an hour TTL.
func DefaultConfig() Config {
	return Config{
		Type:            "memory",
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Minute,
	}
}

// New creates the backend named by cfg.Type.
func New(cfg Config) (Cacher, error) {
	switch cfg.Type {
	case "redis":
		return NewRedisCache(RedisOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
	case "", "memory":
		return NewMemoryCache(cfg.DefaultTTL, cfg.CleanupInterval), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
