// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation and validation with Unicode normalization support.
package util

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a string to a URL-friendly slug.
// Accented characters are decomposed and stripped; anything still outside
// ASCII (Arabic names in particular) is transliterated with unidecode so
// bilingual titles produce usable slugs rather than empty strings.
func Slugify(s string) string {
	// Normalize unicode characters (decompose accents)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	// Transliterate remaining non-ASCII (Arabic, CJK, symbols)
	result = unidecode.Unidecode(result)

	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, " ", "-")

	// Remove all non-alphanumeric characters except hyphens
	result = slugRegex.ReplaceAllString(result, "")

	// Replace multiple hyphens with single hyphen
	result = multipleHyphens.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}

// SlugExistsFunc reports whether a slug is already taken. Implementations
// must exclude the record being updated so that saving a record under its
// own slug is not treated as a collision.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// UniqueSlug normalizes base into a slug and appends -2, -3, ... until
// exists reports the candidate as free. The first free candidate wins, so
// repeated calls with the same base and a growing record set yield
// "base", "base-2", "base-3" in order.
//
// The check-then-insert sequence is not atomic against concurrent writers;
// callers must still handle a unique-constraint violation at insert time.
func UniqueSlug(ctx context.Context, base string, exists SlugExistsFunc) (string, error) {
	candidate := base
	if !IsValidSlug(candidate) {
		candidate = Slugify(base)
	}
	if candidate == "" {
		candidate = "item"
	}

	taken, err := exists(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("checking slug %q: %w", candidate, err)
	}
	if !taken {
		return candidate, nil
	}

	for n := 2; ; n++ {
		next := fmt.Sprintf("%s-%d", candidate, n)
		taken, err := exists(ctx, next)
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", next, err)
		}
		if !taken {
			return next, nil
		}
	}
}
