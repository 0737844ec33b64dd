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
	"os"
	"strconv"
	"time"
)

// Provider ids. The active provider is selected by configuration; an
// empty or unknown id routes every query to the deterministic responder.
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
)

// GenerationDefaults hold the generation parameters applied when a
// request does not override them.
type GenerationDefaults struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
	TopK        int
}

// SafetySetting is one Gemini-style content-safety threshold entry.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// GeminiConfig configures the Gemini-style adapter.
type GeminiConfig struct {
	APIKey         string
	BaseURL        string
	ModelName      string
	SafetySettings []SafetySetting
}

// OpenRouterConfig configures the OpenRouter-style adapter.
type OpenRouterConfig struct {
	APIKey        string
	BaseURL       string
	ChatModel     string
	InstructModel string

	// SiteURL and AppName are forwarded as the HTTP-Referer and X-Title
	// headers OpenRouter uses for ranking attribution.
	SiteURL string
	AppName string
}

// OpenAIConfig configures the OpenAI adapter.
type OpenAIConfig struct {
	APIKey    string
	ModelName string
}

// Config is the full provider configuration surface, environment-driven
// with defaults.
type Config struct {
	ActiveProvider string
	DemoMode       bool
	SystemPrompt   string
	RequestTimeout time.Duration

	Generation GenerationDefaults
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	OpenAI     OpenAIConfig

	// HistoryCap bounds the conversation log at 2×HistoryCap entries.
	HistoryCap int

	// ContextWindow is how many trailing history messages are sent to the
	// live API. Independent of HistoryCap; do not conflate the two.
	ContextWindow int
}

// LoadConfig reads the provider configuration from the environment.
//
// Variables (all optional):
//
//	ASSISTANT_ACTIVE_PROVIDER   gemini | openrouter | openai (default gemini)
//	ASSISTANT_DEMO_MODE         force the deterministic responder
//	ASSISTANT_SYSTEM_PROMPT     system prompt override
//	ASSISTANT_REQUEST_TIMEOUT_S live-call timeout seconds (default 60)
//	ASSISTANT_HISTORY_CAP       history cap (default 10)
//	ASSISTANT_CONTEXT_WINDOW    messages sent as live context (default 6)
//	GEMINI_API_KEY / GEMINI_API_URL / GEMINI_MODEL
//	GEMINI_SAFETY_THRESHOLD     threshold applied to all safety categories
//	OPENROUTER_API_KEY / OPENROUTER_API_URL
//	OPENROUTER_CHAT_MODEL / OPENROUTER_INSTRUCT_MODEL
//	OPENROUTER_SITE_URL / OPENROUTER_APP_NAME
//	OPENAI_API_KEY / OPENAI_MODEL
//	GEN_TEMPERATURE / GEN_MAX_TOKENS / GEN_TOP_P / GEN_TOP_K
func LoadConfig() Config {
	return Config{
		ActiveProvider: getEnvString("ASSISTANT_ACTIVE_PROVIDER", ProviderGemini),
		DemoMode:       getEnvBool("ASSISTANT_DEMO_MODE", false),
		SystemPrompt:   os.Getenv("ASSISTANT_SYSTEM_PROMPT"),
		RequestTimeout: time.Duration(getEnvInt("ASSISTANT_REQUEST_TIMEOUT_S", 60)) * time.Second,
		HistoryCap:     getEnvInt("ASSISTANT_HISTORY_CAP", 10),
		ContextWindow:  getEnvInt("ASSISTANT_CONTEXT_WINDOW", 6),
		Generation: GenerationDefaults{
			Temperature: getEnvFloat32("GEN_TEMPERATURE", 0.7),
			MaxTokens:   getEnvInt("GEN_MAX_TOKENS", 2048),
			TopP:        getEnvFloat32("GEN_TOP_P", 0.8),
			TopK:        getEnvInt("GEN_TOP_K", 40),
		},
		Gemini: GeminiConfig{
			APIKey:         os.Getenv("GEMINI_API_KEY"),
			BaseURL:        getEnvString("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
			ModelName:      getEnvString("GEMINI_MODEL", "gemini-1.5-pro"),
			SafetySettings: defaultSafetySettings(os.Getenv("GEMINI_SAFETY_THRESHOLD")),
		},
		OpenRouter: OpenRouterConfig{
			APIKey:        os.Getenv("OPENROUTER_API_KEY"),
			BaseURL:       getEnvString("OPENROUTER_API_URL", "https://openrouter.ai/api/v1"),
			ChatModel:     getEnvString("OPENROUTER_CHAT_MODEL", "openai/gpt-3.5-turbo"),
			InstructModel: getEnvString("OPENROUTER_INSTRUCT_MODEL", "google/gemini-flash-1.5"),
			SiteURL:       os.Getenv("OPENROUTER_SITE_URL"),
			AppName:       os.Getenv("OPENROUTER_APP_NAME"),
		},
		OpenAI: OpenAIConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			ModelName: getEnvString("OPENAI_MODEL", "gpt-4o-mini"),
		},
	}
}

// defaultSafetySettings returns the Gemini safety list with every category
// at the given threshold, or BLOCK_MEDIUM_AND_ABOVE when unset.
func defaultSafetySettings(threshold string) []SafetySetting {
	if threshold == "" {
		threshold = "BLOCK_MEDIUM_AND_ABOVE"
	}
	categories := []string{
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_HARASSMENT",
	}
	settings := make([]SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, SafetySetting{Category: c, Threshold: threshold})
	}
	return settings
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat32(key string, defaultVal float32) float32 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 32); err == nil {
			return float32(f)
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
