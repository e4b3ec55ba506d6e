// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package translate provides best-effort machine translation for bilingual
// catalog content. A Provider performs a single bounded request; the
// Translator layered on top handles chunking of long inputs and converts
// every provider failure into an empty result so a save is never blocked
// by the translation service.
package translate

import (
	"context"
	"errors"
)

// Supported content language codes.
const (
	LangEnglish = "en"
	LangArabic  = "ar"
)

// MaxQueryChars is the longest text (in runes) a single provider request
// may carry. Longer inputs are split by the Translator.
const MaxQueryChars = 450

// ErrUnavailable marks any provider failure: network error, timeout,
// non-2xx status or a malformed response body. Callers treat it as
// "no translation available", never as an error to surface to the user.
var ErrUnavailable = errors.New("translation unavailable")

// Provider translates a single text of at most MaxQueryChars runes.
// Implementations must honor the context deadline and wrap every failure
// mode in ErrUnavailable.
type Provider interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}
