// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"agrocms/internal/bilingual"
	"agrocms/internal/model"
	"agrocms/internal/store"
	"agrocms/internal/util"
)

// PostInput is a parsed blog post submission. Bodies are Markdown.
type PostInput struct {
	Title   string
	TitleAr string
	Slug    string // optional explicit slug
	Body    string
	BodyAr  string
	Status  string
}

// PostService handles blog posts: title pairs resolve bilingually like crop
// fields, slugs follow the same uniqueness scheme. Markdown bodies are not
// machine-translated; the translation provider mangles Markdown syntax, so
// a one-sided body simply stays one-sided.
type PostService struct {
	queries  *store.Queries
	resolver *bilingual.Resolver
	events   *EventService
}

// NewPostService creates a PostService.
func NewPostService(db *sql.DB, resolver *bilingual.Resolver, events *EventService) *PostService {
	return &PostService{
		queries:  store.New(db),
		resolver: resolver,
		events:   events,
	}
}

// CreatePost creates a blog post with a unique slug.
func (s *PostService) CreatePost(ctx context.Context, in PostInput) (model.Post, error) {
	title, titleAr, status := s.normalize(ctx, in)

	base := strings.TrimSpace(in.Slug)
	if base == "" {
		base = title
	}
	slug, err := util.UniqueSlug(ctx, base, s.slugExists(0))
	if err != nil {
		return model.Post{}, err
	}

	now := time.Now()
	post, err := s.insertWithSlugRetry(ctx, slug, func(ctx context.Context, slug string) (model.Post, error) {
		return s.queries.CreatePost(ctx, store.CreatePostParams{
			Slug:      slug,
			Title:     title,
			TitleAr:   util.NullStringFromValue(titleAr),
			Body:      util.NullStringFromValue(strings.TrimSpace(in.Body)),
			BodyAr:    util.NullStringFromValue(strings.TrimSpace(in.BodyAr)),
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return model.Post{}, err
	}

	if s.events != nil {
		_ = s.events.LogInfo(ctx, model.EventCategoryPost, "post created",
			map[string]any{"post_id": post.ID, "slug": post.Slug})
	}
	return post, nil
}

// UpdatePost rewrites a post; the slug check excludes the post's own id.
func (s *PostService) UpdatePost(ctx context.Context, id int64, in PostInput) (model.Post, error) {
	title, titleAr, status := s.normalize(ctx, in)

	base := strings.TrimSpace(in.Slug)
	if base == "" {
		base = title
	}
	slug, err := util.UniqueSlug(ctx, base, s.slugExists(id))
	if err != nil {
		return model.Post{}, err
	}

	err = s.queries.UpdatePost(ctx, store.UpdatePostParams{
		ID:        id,
		Slug:      slug,
		Title:     title,
		TitleAr:   util.NullStringFromValue(titleAr),
		Body:      util.NullStringFromValue(strings.TrimSpace(in.Body)),
		BodyAr:    util.NullStringFromValue(strings.TrimSpace(in.BodyAr)),
		Status:    status,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return model.Post{}, err
	}

	return s.queries.GetPostByID(ctx, id)
}

// DeletePost removes a post.
func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	return s.queries.DeletePost(ctx, id)
}

// insertWithSlugRetry mirrors the crop path: after a unique-constraint
// violation it walks -1, -2, ... suffixes with a fresh existence check each
// and retries until a candidate sticks.
func (s *PostService) insertWithSlugRetry(ctx context.Context, slug string,
	attempt func(ctx context.Context, slug string) (model.Post, error)) (model.Post, error) {

	post, err := attempt(ctx, slug)
	if err == nil {
		return post, nil
	}
	if !store.IsUniqueViolation(err) {
		return model.Post{}, err
	}

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", slug, n)
		taken, checkErr := s.queries.PostSlugExists(ctx, candidate, 0)
		if checkErr != nil {
			return model.Post{}, checkErr
		}
		if taken {
			continue
		}

		post, err = attempt(ctx, candidate)
		if err == nil {
			return post, nil
		}
		if !store.IsUniqueViolation(err) {
			return model.Post{}, err
		}
	}
}

func (s *PostService) normalize(ctx context.Context, in PostInput) (title, titleAr, status string) {
	title = strings.TrimSpace(in.Title)
	titleAr = strings.TrimSpace(in.TitleAr)
	if title == "" && titleAr == "" {
		title = "Untitled post"
	}
	title, titleAr = s.resolver.ResolveText(ctx, title, titleAr)

	status = in.Status
	if status != model.PostStatusPublished {
		status = model.PostStatusDraft
	}
	return title, titleAr, status
}

func (s *PostService) slugExists(excludeID int64) util.SlugExistsFunc {
	return func(ctx context.Context, slug string) (bool, error) {
		return s.queries.PostSlugExists(ctx, slug, excludeID)
	}
}
