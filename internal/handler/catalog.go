// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agrocms/internal/cache"
	"agrocms/internal/markdown"
	"agrocms/internal/model"
	"agrocms/internal/store"
)

// CatalogHandler serves the public catalog API: crops through the view
// cache, blog posts with bodies rendered from Markdown.
type CatalogHandler struct {
	crops    *cache.CropCache
	queries  *store.Queries
	renderer *markdown.Renderer
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(crops *cache.CropCache, db *sql.DB) *CatalogHandler {
	return &CatalogHandler{
		crops:    crops,
		queries:  store.New(db),
		renderer: markdown.New(),
	}
}

// ListCrops handles GET /api/crops.
func (h *CatalogHandler) ListCrops(w http.ResponseWriter, r *http.Request) {
	crops, err := h.crops.List(r.Context())
	if err != nil {
		slog.Error("catalog crop list failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load crops")
		return
	}
	writeJSONSuccess(w, map[string]any{"crops": crops})
}

// GetCrop handles GET /api/crops/{slug}.
func (h *CatalogHandler) GetCrop(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	crop, err := h.crops.GetBySlug(r.Context(), slug)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, "crop not found")
		return
	}
	if err != nil {
		slog.Error("catalog crop lookup failed", "slug", slug, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load crop")
		return
	}
	writeJSONSuccess(w, map[string]any{"crop": crop})
}

// postView is a published post with its bodies rendered to HTML.
type postView struct {
	model.Post
	BodyHTML   string `json:"body_html,omitempty"`
	BodyArHTML string `json:"body_ar_html,omitempty"`
}

// ListPosts handles GET /api/posts.
func (h *CatalogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPublishedPosts(r.Context())
	if err != nil {
		slog.Error("post list failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	writeJSONSuccess(w, map[string]any{"posts": posts})
}

// GetPost handles GET /api/posts/{slug}.
func (h *CatalogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.queries.GetPublishedPostBySlug(r.Context(), slug)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		slog.Error("post lookup failed", "slug", slug, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load post")
		return
	}

	view := postView{Post: post}
	if post.Body.Valid {
		if html, err := h.renderer.Render(post.Body.String); err == nil {
			view.BodyHTML = html
		}
	}
	if post.BodyAr.Valid {
		if html, err := h.renderer.Render(post.BodyAr.String); err == nil {
			view.BodyArHTML = html
		}
	}
	writeJSONSuccess(w, map[string]any{"post": view})
}
