// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"agrocms/internal/service"
)

// PostsHandler handles the admin blog post routes.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler creates a PostsHandler.
func NewPostsHandler(posts *service.PostService) *PostsHandler {
	return &PostsHandler{posts: posts}
}

// Create handles POST /admin/posts.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed form data")
		return
	}

	post, err := h.posts.CreatePost(r.Context(), postInput(r))
	if err != nil {
		slog.Error("creating post failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to save post")
		return
	}
	writeJSONSuccess(w, map[string]any{"post": post})
}

// Update handles POST /admin/posts/{id}.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed form data")
		return
	}

	post, err := h.posts.UpdatePost(r.Context(), id, postInput(r))
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		slog.Error("updating post failed", "post_id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to save post")
		return
	}
	writeJSONSuccess(w, map[string]any{"post": post})
}

// Delete handles POST /admin/posts/{id}/delete.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.posts.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "post not found")
			return
		}
		slog.Error("deleting post failed", "post_id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	writeJSONSuccess(w, nil)
}

func postInput(r *http.Request) service.PostInput {
	return service.PostInput{
		Title:   r.PostFormValue("title"),
		TitleAr: r.PostFormValue("title_ar"),
		Slug:    r.PostFormValue("slug"),
		Body:    r.PostFormValue("body"),
		BodyAr:  r.PostFormValue("body_ar"),
		Status:  r.PostFormValue("status"),
	}
}
