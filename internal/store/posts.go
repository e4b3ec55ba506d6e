// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrocms/internal/model"
)

const postColumns = `id, slug, title, title_ar, body, body_ar, status, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.TitleAr, &p.Body, &p.BodyAr,
		&p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePostParams holds the column values for a new post row.
type CreatePostParams struct {
	Slug      string
	Title     string
	TitleAr   sql.NullString
	Body      sql.NullString
	BodyAr    sql.NullString
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreatePost inserts a post row and returns it with its assigned id.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO posts (slug, title, title_ar, body, body_ar, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Slug, arg.Title, arg.TitleAr, arg.Body, arg.BodyAr,
		arg.Status, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return model.Post{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, fmt.Errorf("reading post id: %w", err)
	}

	row := q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// UpdatePostParams holds the column values for an existing post row.
type UpdatePostParams struct {
	ID        int64
	Slug      string
	Title     string
	TitleAr   sql.NullString
	Body      sql.NullString
	BodyAr    sql.NullString
	Status    string
	UpdatedAt time.Time
}

// UpdatePost rewrites all content columns of a post row.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE posts SET slug = ?, title = ?, title_ar = ?, body = ?, body_ar = ?,
			status = ?, updated_at = ?
		WHERE id = ?`,
		arg.Slug, arg.Title, arg.TitleAr, arg.Body, arg.BodyAr,
		arg.Status, arg.UpdatedAt, arg.ID,
	)
	return err
}

// DeletePost removes a post row.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

// GetPostByID fetches a post row by primary key.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// GetPublishedPostBySlug fetches a published post by slug.
func (q *Queries) GetPublishedPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = ? AND status = ?`,
		slug, model.PostStatusPublished)
	return scanPost(row)
}

// ListPublishedPosts returns published posts, newest first.
func (q *Queries) ListPublishedPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE status = ? ORDER BY created_at DESC`,
		model.PostStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// PostSlugExists reports whether a slug is taken by a post other than excludeID.
func (q *Queries) PostSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM posts WHERE slug = ? AND id != ?`, slug, excludeID,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
