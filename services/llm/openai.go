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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var openAITracer = otel.Tracer("metassist.llm.openai")

// OpenAIClient talks to the OpenAI API through the go-openai SDK. The
// SDK decodes the choices/message shape itself, so no Normalize pass is
// needed; the result is still reduced to the shared Result value.
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
}

// NewOpenAIClient builds the client; unconfigured clients report
// Configured() == false and stay off the live path.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	var client *openai.Client
	if cfg.APIKey != "" {
		client = openai.NewClient(cfg.APIKey)
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "gpt-4o-mini"
		slog.Warn("OPENAI_MODEL not set, defaulting to gpt-4o-mini")
	}
	return &OpenAIClient{client: client, cfg: cfg}
}

func (o *OpenAIClient) Provider() string { return ProviderOpenAI }
func (o *OpenAIClient) Model() string    { return o.cfg.ModelName }

func (o *OpenAIClient) Configured() bool { return o.client != nil }

// Generate implements Client.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string, params GenerationParams) (Result, error) {
	return o.Chat(ctx, []Message{{Role: "user", Content: prompt}}, params)
}

// Chat implements Client.
func (o *OpenAIClient) Chat(ctx context.Context, messages []Message, params GenerationParams) (Result, error) {
	ctx, span := openAITracer.Start(ctx, "OpenAIClient.Chat")
	defer span.End()

	if !o.Configured() {
		return Result{}, fmt.Errorf("openai client is not configured")
	}

	model := params.Model
	if model == "" {
		model = o.cfg.ModelName
	}
	span.SetAttributes(
		attribute.String("llm.model", model),
		attribute.Int("llm.num_messages", len(messages)),
	)

	req := openai.ChatCompletionRequest{Model: model}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.MaxTokens != nil {
		req.MaxCompletionTokens = *params.MaxTokens
	}
	if params.TopP != nil {
		req.TopP = *params.TopP
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("OpenAI API call failed", "error", err)
		return Result{}, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("%w (source %s)", ErrUnrecognizedShape, ProviderOpenAI)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Warn("OpenAI returned no choices")
		return Result{}, err
	}

	raw, _ := json.Marshal(resp)
	slog.Debug("Received response from OpenAI", "finish_reason", resp.Choices[0].FinishReason)
	return Result{
		Text:    resp.Choices[0].Message.Content,
		Success: true,
		Source:  ProviderOpenAI,
		Raw:     raw,
	}, nil
}
