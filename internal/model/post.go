// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post is a blog entry. Title and body form bilingual pairs like crop
// fields; the body is authored in Markdown and rendered to HTML on the
// public routes.
type Post struct {
	ID        int64          `json:"id"`
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	TitleAr   sql.NullString `json:"title_ar"`
	Body      sql.NullString `json:"body"`    // Markdown
	BodyAr    sql.NullString `json:"body_ar"` // Markdown
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IsPublished returns true if the post is published.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
