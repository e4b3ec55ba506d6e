// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Deps carries everything the router needs.
type Deps struct {
	Crops   *CropsHandler
	Posts   *PostsHandler
	Catalog *CatalogHandler
	Media   *MediaHandler

	// UploadsDir is served under /uploads/. Empty disables static serving.
	UploadsDir string

	// AdminMiddleware wraps the /admin subtree (CSRF, sessions).
	AdminMiddleware []func(http.Handler) http.Handler
}

// Routes assembles the application router.
func Routes(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Public catalog API
	r.Route("/api", func(r chi.Router) {
		r.Get("/crops", d.Catalog.ListCrops)
		r.Get("/crops/{slug}", d.Catalog.GetCrop)
		r.Get("/posts", d.Catalog.ListPosts)
		r.Get("/posts/{slug}", d.Catalog.GetPost)
	})

	// Admin CRUD
	r.Route("/admin", func(r chi.Router) {
		for _, mw := range d.AdminMiddleware {
			r.Use(mw)
		}

		r.Get("/crops", d.Crops.List)
		r.Post("/crops", d.Crops.Create)
		r.Get("/crops/{id}", d.Crops.Get)
		r.Post("/crops/{id}", d.Crops.Update)
		r.Post("/crops/{id}/delete", d.Crops.Delete)

		r.Post("/posts", d.Posts.Create)
		r.Post("/posts/{id}", d.Posts.Update)
		r.Post("/posts/{id}/delete", d.Posts.Delete)

		r.Post("/media", d.Media.Upload)
		r.Post("/media/{uuid}/delete", d.Media.Delete)
	})

	if d.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
