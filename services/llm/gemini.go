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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var geminiTracer = otel.Tracer("metassist.llm.gemini")

// geminiRoleMap translates generic conversation roles into the roles the
// Gemini API accepts. Gemini has no system role; system messages ride as
// user turns, and assistant turns become "model".
var geminiRoleMap = map[string]string{
	"user":      "user",
	"assistant": "model",
	"system":    "user",
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float32 `json:"topP"`
	TopK            int     `json:"topK"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
	SafetySettings   []SafetySetting        `json:"safetySettings,omitempty"`
}

// GeminiClient calls a Gemini-style generateContent endpoint over raw
// HTTP and normalizes the candidates/parts response shape.
type GeminiClient struct {
	httpClient *http.Client
	cfg        GeminiConfig
	defaults   GenerationDefaults
}

// NewGeminiClient builds the client. It never fails: an unconfigured
// client simply reports Configured() == false and the router keeps it
// off the live path.
func NewGeminiClient(cfg GeminiConfig, defaults GenerationDefaults, timeout time.Duration) *GeminiClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if !strings.HasPrefix(cfg.ModelName, "gemini") {
		slog.Warn("Unusual Gemini model name", "model", cfg.ModelName)
	}
	return &GeminiClient{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		defaults:   defaults,
	}
}

func (g *GeminiClient) Provider() string { return ProviderGemini }
func (g *GeminiClient) Model() string    { return g.cfg.ModelName }

func (g *GeminiClient) Configured() bool {
	return g.cfg.APIKey != "" && g.cfg.BaseURL != ""
}

// Generate implements Client.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, params GenerationParams) (Result, error) {
	return g.Chat(ctx, []Message{{Role: "user", Content: prompt}}, params)
}

// Chat implements Client.
func (g *GeminiClient) Chat(ctx context.Context, messages []Message, params GenerationParams) (Result, error) {
	ctx, span := geminiTracer.Start(ctx, "GeminiClient.Chat")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", g.cfg.ModelName),
		attribute.Int("llm.num_messages", len(messages)),
	)

	if !g.Configured() {
		return Result{}, fmt.Errorf("gemini client is not configured")
	}

	contents := make([]geminiContent, 0, len(messages))
	for _, msg := range messages {
		role, ok := geminiRoleMap[strings.ToLower(msg.Role)]
		if !ok {
			role = "user"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	payload := geminiRequest{
		Contents: contents,
		GenerationConfig: geminiGenerationConfig{
			Temperature:     pickFloat32(params.Temperature, g.defaults.Temperature),
			MaxOutputTokens: pickInt(params.MaxTokens, g.defaults.MaxTokens),
			TopP:            pickFloat32(params.TopP, g.defaults.TopP),
			TopK:            pickInt(params.TopK, g.defaults.TopK),
		},
		SafetySettings: g.cfg.SafetySettings,
	}

	model := g.cfg.ModelName
	if params.Model != "" {
		model = params.Model
	}
	endpoint := fmt.Sprintf("%s/%s:generateContent", strings.TrimSuffix(g.cfg.BaseURL, "/"), model)

	raw, err := postJSON(ctx, g.httpClient, endpoint, payload, map[string]string{
		"Authorization": "Bearer " + g.cfg.APIKey,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Gemini API call failed", "error", err)
		return Result{}, err
	}

	result, err := Normalize(raw, ProviderGemini)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Gemini response not recognized", "error", err)
		return Result{}, err
	}
	slog.Debug("Received response from Gemini", "model", model)
	return result, nil
}

// postJSON sends a JSON POST and returns the response body. Non-2xx
// statuses are errors carrying the status code and body for logging.
func postJSON(ctx context.Context, client *http.Client, url string, payload any, headers map[string]string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func pickFloat32(override *float32, def float32) float32 {
	if override != nil {
		return *override
	}
	return def
}

func pickInt(override *int, def int) int {
	if override != nil {
		return *override
	}
	return def
}
