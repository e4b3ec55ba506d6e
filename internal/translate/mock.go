// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"context"
	"fmt"
)

// MockProvider is an in-memory provider for tests. It records every call
// so tests can distinguish "provider returned an empty string" from
// "provider was never asked".
type MockProvider struct {
	// Translations maps source text to its translation. Unknown inputs
	// are echoed back in brackets unless Identity is set.
	Translations map[string]string

	// Identity makes the provider return its input unchanged.
	Identity bool

	// Fail makes every call return ErrUnavailable.
	Fail bool

	// Calls holds the texts received, in order.
	Calls []string
}

// NewMockProvider creates a mock with an empty translation table.
func NewMockProvider() *MockProvider {
	return &MockProvider{Translations: map[string]string{}}
}

// Translate implements Provider.
func (m *MockProvider) Translate(_ context.Context, text, _, _ string) (string, error) {
	m.Calls = append(m.Calls, text)

	if m.Fail {
		return "", fmt.Errorf("%w: mock failure", ErrUnavailable)
	}
	if m.Identity {
		return text, nil
	}
	if tr, ok := m.Translations[text]; ok {
		return tr, nil
	}
	return "[" + text + "]", nil
}

// Reset clears the recorded calls.
func (m *MockProvider) Reset() {
	m.Calls = nil
}

var _ Provider = (*MockProvider)(nil)
