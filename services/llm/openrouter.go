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
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var openRouterTracer = otel.Tracer("metassist.llm.openrouter")

type openRouterRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	TopP        float32   `json:"top_p"`
}

// OpenRouterClient calls an OpenAI-compatible chat/completions endpoint
// over raw HTTP and normalizes the choices/message response shape.
// OpenRouter multiplexes many upstream models behind one API, so the
// client carries both a chat model and an instruct model; Generate uses
// the instruct model, Chat the chat model.
type OpenRouterClient struct {
	httpClient *http.Client
	cfg        OpenRouterConfig
	defaults   GenerationDefaults
}

// NewOpenRouterClient builds the client; unconfigured clients report
// Configured() == false and stay off the live path.
func NewOpenRouterClient(cfg OpenRouterConfig, defaults GenerationDefaults, timeout time.Duration) *OpenRouterClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenRouterClient{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		defaults:   defaults,
	}
}

func (o *OpenRouterClient) Provider() string { return ProviderOpenRouter }
func (o *OpenRouterClient) Model() string    { return o.cfg.ChatModel }

// InstructModel returns the model used for one-shot queries.
func (o *OpenRouterClient) InstructModel() string { return o.cfg.InstructModel }

func (o *OpenRouterClient) Configured() bool {
	return o.cfg.APIKey != "" && o.cfg.BaseURL != ""
}

// Generate implements Client. One-shot queries go to the instruct model
// with a terse system message.
func (o *OpenRouterClient) Generate(ctx context.Context, prompt string, params GenerationParams) (Result, error) {
	if params.Model == "" {
		params.Model = o.cfg.InstructModel
	}
	messages := []Message{
		{Role: "system", Content: "Kısa ve öz cevaplar ver."},
		{Role: "user", Content: prompt},
	}
	return o.Chat(ctx, messages, params)
}

// Chat implements Client.
func (o *OpenRouterClient) Chat(ctx context.Context, messages []Message, params GenerationParams) (Result, error) {
	ctx, span := openRouterTracer.Start(ctx, "OpenRouterClient.Chat")
	defer span.End()

	if !o.Configured() {
		return Result{}, fmt.Errorf("openrouter client is not configured")
	}

	model := params.Model
	if model == "" {
		model = o.cfg.ChatModel
	}
	span.SetAttributes(
		attribute.String("llm.model", model),
		attribute.Int("llm.num_messages", len(messages)),
	)

	payload := openRouterRequest{
		Model:       model,
		Messages:    messages,
		Temperature: pickFloat32(params.Temperature, o.defaults.Temperature),
		MaxTokens:   pickInt(params.MaxTokens, o.defaults.MaxTokens),
		TopP:        pickFloat32(params.TopP, o.defaults.TopP),
	}

	headers := map[string]string{
		"Authorization": "Bearer " + o.cfg.APIKey,
	}
	if o.cfg.SiteURL != "" {
		headers["HTTP-Referer"] = o.cfg.SiteURL
	}
	if o.cfg.AppName != "" {
		headers["X-Title"] = o.cfg.AppName
	}

	endpoint := strings.TrimSuffix(o.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := postJSON(ctx, o.httpClient, endpoint, payload, headers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("OpenRouter API call failed", "error", err)
		return Result{}, err
	}

	result, err := Normalize(raw, ProviderOpenRouter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("OpenRouter response not recognized", "error", err)
		return Result{}, err
	}
	slog.Debug("Received response from OpenRouter", "model", model)
	return result, nil
}
