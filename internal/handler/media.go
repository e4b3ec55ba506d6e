// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"agrocms/internal/imaging"
)

// MaxUploadSize bounds a single image upload.
const MaxUploadSize = 10 << 20 // 10 MiB

// MediaHandler handles crop image uploads.
type MediaHandler struct {
	processor *imaging.Processor
}

// NewMediaHandler creates a MediaHandler storing files under uploadDir.
func NewMediaHandler(uploadDir string) *MediaHandler {
	return &MediaHandler{processor: imaging.NewProcessor(uploadDir)}
}

// Upload handles POST /admin/media. The file lands under a fresh UUID with
// thumbnail and card variants; the response carries the public URLs the
// admin form stores in the crop's image_url field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	id := uuid.New().String()

	result, err := h.processor.ProcessImage(file, id, filename)
	if err != nil {
		slog.Warn("image upload rejected", "filename", filename, "error", err)
		writeJSONError(w, http.StatusUnprocessableEntity, "unsupported or corrupt image")
		return
	}

	variants, err := h.processor.CreateAllVariants(result.FilePath, id, filename)
	if err != nil {
		slog.Error("variant generation failed", "uuid", id, "error", err)
		// The original is stored; respond with what exists
	}

	urls := map[string]string{
		"original": uploadURL("originals", id, filename),
	}
	for _, v := range variants {
		urls[v.Type] = uploadURL(v.Type, id, filename)
	}

	writeJSONSuccess(w, map[string]any{
		"uuid":   id,
		"width":  result.Width,
		"height": result.Height,
		"mime":   result.MimeType,
		"urls":   urls,
	})
}

// Delete handles POST /admin/media/{uuid}/delete.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")
	if _, err := uuid.Parse(id); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	if err := h.processor.DeleteMediaFiles(id); err != nil {
		slog.Error("media delete failed", "uuid", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to delete media")
		return
	}
	writeJSONSuccess(w, nil)
}

func uploadURL(kind, id, filename string) string {
	return fmt.Sprintf("/uploads/%s/%s/%s", kind, id, filename)
}

// sanitizeFilename strips path components and normalizes the name.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "-")
	if name == "." || name == ".." || name == "" {
		return "upload.jpg"
	}
	return name
}
