// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package bilingual keeps English/Arabic field pairs consistent. Every
// translatable attribute is stored as two parallel values; when an editor
// fills only one side, the resolver fills the other through machine
// translation. Exactly one direction runs per pair, never both.
package bilingual

import (
	"context"
	"strings"

	"agrocms/internal/htmltext"
	"agrocms/internal/translate"
)

// Resolver applies the one-direction rule to bilingual field pairs.
type Resolver struct {
	translator *translate.Translator
}

// NewResolver creates a Resolver over the given translator.
func NewResolver(tr *translate.Translator) *Resolver {
	return &Resolver{translator: tr}
}

// ResolveText resolves a plain-text pair (names, titles):
//   - English only: Arabic becomes its en→ar translation.
//   - Arabic only: English becomes its ar→en translation.
//   - Both filled or both empty: returned unchanged.
//
// When the provider is unavailable the empty side stays empty; the
// originally-filled side is never touched.
func (r *Resolver) ResolveText(ctx context.Context, en, ar string) (string, string) {
	switch {
	case filled(en) && !filled(ar):
		return en, r.translator.Translate(ctx, en, translate.LangEnglish, translate.LangArabic)
	case filled(ar) && !filled(en):
		return r.translator.Translate(ctx, ar, translate.LangArabic, translate.LangEnglish), ar
	default:
		return en, ar
	}
}

// ResolveHTML resolves a rich-text pair (descriptions). The filled side is
// stripped to plain text before translation and the result is rebuilt as
// minimal HTML, since the provider only accepts plain text.
func (r *Resolver) ResolveHTML(ctx context.Context, en, ar string) (string, string) {
	switch {
	case filled(en) && !filled(ar):
		return en, r.translateHTML(ctx, en, translate.LangEnglish, translate.LangArabic)
	case filled(ar) && !filled(en):
		return r.translateHTML(ctx, ar, translate.LangArabic, translate.LangEnglish), ar
	default:
		return en, ar
	}
}

func (r *Resolver) translateHTML(ctx context.Context, html, src, dst string) string {
	plain := htmltext.StripToPlainText(html)
	if plain == "" {
		return ""
	}
	return htmltext.WrapAsHTML(r.translator.Translate(ctx, plain, src, dst))
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}
