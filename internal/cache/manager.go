// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"agrocms/internal/store"
)

// Manager owns the cache backend and the per-concern caches built on it.
// Its InvalidateCropViews method satisfies the crop service's invalidation
// hook.
type Manager struct {
	backend Cacher

	Crops *CropCache
}

// NewManager creates the backend from cfg and wires the crop cache over it.
func NewManager(cfg Config, db *sql.DB) (*Manager, error) {
	backend, err := New(cfg)
	if err != nil {
		return nil, err
	}

	ttl := cfg.DefaultTTL
	if ttl == 0 {
		ttl = time.Hour
	}

	return &Manager{
		backend: backend,
		Crops:   NewCropCache(backend, store.New(db), ttl),
	}, nil
}

// InvalidateCropViews drops the cached views of one crop. Invalidation
// failures are swallowed; the worst case is an entry expiring on TTL.
func (m *Manager) InvalidateCropViews(ctx context.Context, id int64, slug string) {
	m.Crops.Invalidate(ctx, id, slug)
	slog.Debug("crop views invalidated", "crop_id", id, "slug", slug)
}

// ClearAll empties the backend and resets its counters.
func (m *Manager) ClearAll(ctx context.Context) {
	if err := m.backend.Clear(ctx); err != nil {
		slog.Warn("cache clear failed", "error", err)
		return
	}
	if sp, ok := m.backend.(StatsProvider); ok {
		sp.ResetStats()
	}
	slog.Info("cache cleared")
}

// Stats returns backend counters, or zeroes when the backend tracks none.
func (m *Manager) Stats() Stats {
	if sp, ok := m.backend.(StatsProvider); ok {
		return sp.Stats()
	}
	return Stats{}
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
