// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package htmltext converts rich-text HTML to plain text suitable for a
// plain-text translation provider and rebuilds minimal, safe HTML from the
// translated text. The round trip is lossy on purpose: structure beyond
// paragraphs, line breaks and list markers is discarded, because the
// provider only accepts plain text.
package htmltext

import (
	"regexp"
	"strings"
)

var (
	blockCloseRe = regexp.MustCompile(`(?i)</(p|div|h[1-6])>`)
	brRe         = regexp.MustCompile(`(?i)<br\s*/?>`)
	liOpenRe     = regexp.MustCompile(`(?i)<li[^>]*>`)
	liCloseRe    = regexp.MustCompile(`(?i)</li>`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	manyNewlines = regexp.MustCompile(`\n{3,}`)
)

// entityReplacer decodes the small entity set the admin editor emits.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// escapeReplacer encodes text for embedding as HTML text content.
// Ampersand must come first so already-escaped output is not double-encoded.
var escapeReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// StripToPlainText converts HTML into readable plain text: closing block
// tags become paragraph breaks, <br> becomes a newline, list items become
// "- " lines, all other
// tags are removed and common entities are decoded. Runs of three or more
// newlines collapse to a paragraph break.
func StripToPlainText(html string) string {
	if html == "" {
		return ""
	}

	text := blockCloseRe.ReplaceAllString(html, "\n\n")
	text = brRe.ReplaceAllString(text, "\n")
	text = liOpenRe.ReplaceAllString(text, "- ")
	text = liCloseRe.ReplaceAllString(text, "\n")
	text = tagRe.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	text = manyNewlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// EscapeText encodes & < > " ' so text is safe as HTML content.
func EscapeText(text string) string {
	return escapeReplacer.Replace(text)
}

// WrapAsHTML rebuilds minimal HTML from translated plain text: the text is
// escaped, newlines become <br/>, and the whole value is wrapped in a
// single paragraph. Empty input stays empty so callers can persist NULL.
func WrapAsHTML(text string) string {
	if text == "" {
		return ""
	}
	escaped := EscapeText(text)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br/>") + "</p>"
}
