// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"time"

	"agrocms/internal/model"
	"agrocms/internal/store"
)

const (
	cropSlugKeyPrefix = "crop:slug:"
	cropIDKeyPrefix   = "crop:id:"
	cropListKey       = "crops:all"
)

// CropCache serves the public catalog views: single crops with their stages
// by slug or id, and the full crop list. Entries carry a TTL but the crop
// service invalidates on every write, so readers never see a stale crop for
// longer than one in-flight request.
type CropCache struct {
	queries *store.Queries
	byKey   *TypedCache[model.Crop]
	list    *TypedCache[[]model.Crop]
	backend Cacher
}

// NewCropCache creates a crop cache over the given backend.
func NewCropCache(backend Cacher, queries *store.Queries, ttl time.Duration) *CropCache {
	return &CropCache{
		queries: queries,
		byKey:   NewTypedCache[model.Crop](backend, ttl),
		list:    NewTypedCache[[]model.Crop](backend, ttl),
		backend: backend,
	}
}

// GetBySlug returns a crop with its stages, from cache or the database.
func (c *CropCache) GetBySlug(ctx context.Context, slug string) (*model.Crop, error) {
	return c.byKey.GetOrSet(ctx, cropSlugKeyPrefix+slug, func() (*model.Crop, error) {
		crop, err := c.queries.GetCropBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return c.withStages(ctx, crop)
	})
}

// GetByID returns a crop with its stages, from cache or the database.
func (c *CropCache) GetByID(ctx context.Context, id int64) (*model.Crop, error) {
	return c.byKey.GetOrSet(ctx, fmt.Sprintf("%s%d", cropIDKeyPrefix, id), func() (*model.Crop, error) {
		crop, err := c.queries.GetCropByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return c.withStages(ctx, crop)
	})
}

// List returns all crops without stages, from cache or the database.
func (c *CropCache) List(ctx context.Context) ([]model.Crop, error) {
	crops, err := c.list.GetOrSet(ctx, cropListKey, func() (*[]model.Crop, error) {
		out, err := c.queries.ListCrops(ctx)
		if err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}
	return *crops, nil
}

// Invalidate drops every cached view of one crop plus the list view.
func (c *CropCache) Invalidate(ctx context.Context, id int64, slug string) {
	_ = c.byKey.Delete(ctx, cropSlugKeyPrefix+slug)
	_ = c.byKey.Delete(ctx, fmt.Sprintf("%s%d", cropIDKeyPrefix, id))
	_ = c.list.Delete(ctx, cropListKey)
}

func (c *CropCache) withStages(ctx context.Context, crop model.Crop) (*model.Crop, error) {
	stages, err := c.queries.ListStagesByCrop(ctx, crop.ID)
	if err != nil {
		return nil, err
	}
	crop.Stages = stages
	return &crop, nil
}
