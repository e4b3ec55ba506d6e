// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown renders blog post bodies to sanitized HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Renderer converts Markdown to HTML and strips anything unsafe from the
// result. Post bodies come from the admin form, but they flow into public
// pages, so the output is sanitized regardless of author.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// New creates a Renderer with the default goldmark configuration.
func New() *Renderer {
	return &Renderer{
		md:        goldmark.New(),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Render converts source Markdown to sanitized HTML.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return r.sanitizer.Sanitize(buf.String()), nil
}
