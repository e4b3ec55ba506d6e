// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	myMemoryBaseURL = "https://api.mymemory.translated.net/get"

	// requestTimeout bounds one provider call; past it the request is
	// aborted and reported as unavailable.
	requestTimeout = 15 * time.Second
)

// MyMemoryProvider calls the MyMemory free translation API.
// Docs: https://mymemory.translated.net/doc/spec.php
type MyMemoryProvider struct {
	baseURL string
	client  *http.Client
}

// NewMyMemoryProvider creates a provider against the public MyMemory endpoint.
func NewMyMemoryProvider() *MyMemoryProvider {
	return NewMyMemoryProviderWithURL(myMemoryBaseURL)
}

// NewMyMemoryProviderWithURL creates a provider against a custom endpoint.
// Used by tests to point at a local stub server.
func NewMyMemoryProviderWithURL(baseURL string) *MyMemoryProvider {
	return &MyMemoryProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Translate issues one GET request with q and langpair query parameters and
// reads responseData.translatedText from the JSON body. Every failure mode
// is wrapped in ErrUnavailable.
func (p *MyMemoryProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", sourceLang+"|"+targetLang)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}

	var parsed struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decoding body: %v", ErrUnavailable, err)
	}

	return parsed.ResponseData.TranslatedText, nil
}

var _ Provider = (*MyMemoryProvider)(nil)
