// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// languageNames spells out the codes for the model prompt.
var languageNames = map[string]string{
	LangEnglish: "English",
	LangArabic:  "Arabic",
}

// OpenAIProvider translates through a chat-completion model. It is an
// optional alternative to MyMemory for sites that already hold an API key;
// selected with AGRO_TRANSLATE_PROVIDER=openai.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a provider using the given API key and model.
// An empty model defaults to gpt-4o-mini.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Translate sends the text with a translation instruction and returns the
// model's reply. Failures are wrapped in ErrUnavailable like any other
// provider so the orchestration never sees them as errors.
func (p *OpenAIProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	src, dst := languageNames[sourceLang], languageNames[targetLang]
	if src == "" || dst == "" {
		return "", fmt.Errorf("%w: unsupported langpair %s|%s", ErrUnavailable, sourceLang, targetLang)
	}

	system := fmt.Sprintf(
		"You are a translation engine for an agricultural catalog. "+
			"Translate the user's text from %s to %s. "+
			"Reply with the translation only, no explanations.", src, dst)

	resp, err := p.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var _ Provider = (*OpenAIProvider)(nil)
