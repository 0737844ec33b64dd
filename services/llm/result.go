// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Result is the normalized outcome of one provider call.
type Result struct {
	// Text is the model's answer text.
	Text string `json:"text"`

	// Success is true for a live answer, false for demo/fallback answers.
	Success bool `json:"success"`

	// Source is the provider id the answer came from.
	Source string `json:"source"`

	// IsDemo marks answers produced by the deterministic responder.
	IsDemo bool `json:"isDemo,omitempty"`

	// Raw is the untouched provider payload, kept for developer
	// visibility. Nil for demo answers.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// ErrUnrecognizedShape is returned when a provider payload matches none
// of the known response variants. Treated like a transport failure by
// the caller.
var ErrUnrecognizedShape = errors.New("response shape not recognized")

// geminiShape is the "candidates[0].content.parts[0].text" variant
// returned by Gemini-style generateContent endpoints.
type geminiShape struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// chatCompletionShape is the "choices[0].message.content" variant
// returned by OpenAI-compatible chat-completion endpoints.
type chatCompletionShape struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Normalize decodes a raw provider payload into a Result by trying each
// known response variant in order. Unknown shapes yield
// ErrUnrecognizedShape so the caller can take the fallback path.
func Normalize(raw []byte, source string) (Result, error) {
	var gemini geminiShape
	if err := json.Unmarshal(raw, &gemini); err == nil {
		if len(gemini.Candidates) > 0 && len(gemini.Candidates[0].Content.Parts) > 0 {
			return Result{
				Text:    gemini.Candidates[0].Content.Parts[0].Text,
				Success: true,
				Source:  source,
				Raw:     json.RawMessage(raw),
			}, nil
		}
	}

	var chat chatCompletionShape
	if err := json.Unmarshal(raw, &chat); err == nil {
		if len(chat.Choices) > 0 && chat.Choices[0].Message.Content != "" {
			return Result{
				Text:    chat.Choices[0].Message.Content,
				Success: true,
				Source:  source,
				Raw:     json.RawMessage(raw),
			}, nil
		}
	}

	return Result{}, fmt.Errorf("%w (source %s)", ErrUnrecognizedShape, source)
}
