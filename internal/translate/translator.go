// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"
)

// Translator wraps a Provider with length-bounded chunking and best-effort
// semantics. Translate never fails: any provider error degrades to an
// empty string for the affected chunk and the save proceeds without it.
type Translator struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewTranslator creates a Translator over the given provider with a
// provider-friendly request rate of 2 calls per second.
func NewTranslator(provider Provider) *Translator {
	return &Translator{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(2), 1),
	}
}

// TranslateOne translates a single text of at most MaxQueryChars runes.
// Unlike Translate it reports provider failures, so callers that need to
// tell "translated to empty" from "unavailable" can.
func (t *Translator) TranslateOne(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.provider.Translate(ctx, text, sourceLang, targetLang)
}

// Translate translates text of arbitrary length. Inputs over MaxQueryChars
// runes are split into consecutive fixed-size chunks translated strictly in
// order and concatenated without a separator. A failed chunk contributes an
// empty string at its position; the rest of the document still translates.
//
// Chunk boundaries are purely length-based. The provider is plain-text and
// loss-tolerant, so splitting mid-sentence is an accepted approximation.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) string {
	// Blank documents skip the provider entirely. The check sits here and
	// not in TranslateOne so a whitespace-only chunk inside a long text is
	// still sent: chunked output must cover every input position.
	if strings.TrimSpace(text) == "" {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= MaxQueryChars {
		out, err := t.TranslateOne(ctx, text, sourceLang, targetLang)
		if err != nil {
			slog.Debug("translation unavailable", "langpair", sourceLang+"|"+targetLang, "error", err)
			return ""
		}
		return out
	}

	var b strings.Builder
	for i := 0; i < len(runes); i += MaxQueryChars {
		end := i + MaxQueryChars
		if end > len(runes) {
			end = len(runes)
		}

		out, err := t.TranslateOne(ctx, string(runes[i:end]), sourceLang, targetLang)
		if err != nil {
			slog.Debug("chunk translation unavailable",
				"langpair", sourceLang+"|"+targetLang, "offset", i, "error", err)
			continue
		}
		b.WriteString(out)
	}
	return b.String()
}
