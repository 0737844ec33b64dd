// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package llm provides clients for the chat-completion HTTP providers the
// assistant can be configured against (a Gemini-style API, an
// OpenRouter-style API, and the OpenAI API). Every client normalizes the
// provider's response shape into the same Result value; callers never see
// a provider-specific payload except through Result.Raw.
package llm

import "context"

// Message is one role-tagged entry of a conversation sent to a provider.
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// GenerationParams are optional per-request overrides of the configured
// generation defaults. Nil fields fall back to the provider config.
type GenerationParams struct {
	Temperature *float32
	MaxTokens   *int
	TopP        *float32
	TopK        *int

	// Model overrides the configured model for this request, e.g. to use
	// the instruct model for one-shot queries on OpenRouter.
	Model string
}

// Client is the interface every provider adapter implements.
//
// Adapters return an error for transport failures, non-2xx statuses and
// unrecognized response shapes; they never panic and never fabricate a
// demo answer themselves. Degrading to the deterministic responder is the
// assistant service's job, so the error taxonomy stays in one place.
type Client interface {
	// Generate answers a single prompt without conversation history.
	Generate(ctx context.Context, prompt string, params GenerationParams) (Result, error)

	// Chat answers the latest user turn given the full message list.
	Chat(ctx context.Context, messages []Message, params GenerationParams) (Result, error)

	// Provider returns the provider id ("gemini", "openrouter", "openai").
	Provider() string

	// Model returns the chat model the client is configured with.
	Model() string

	// Configured reports whether the client has the key and URL it needs.
	Configured() bool
}
