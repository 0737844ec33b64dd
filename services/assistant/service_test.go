// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mettakip/metassist/services/erp"
	"github.com/mettakip/metassist/services/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient is a canned llm.Client for router tests.
type stubClient struct {
	provider   string
	configured bool
	text       string
	err        error

	lastMessages []llm.Message
}

func (s *stubClient) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (llm.Result, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, params)
}

func (s *stubClient) Chat(ctx context.Context, messages []llm.Message, params llm.GenerationParams) (llm.Result, error) {
	s.lastMessages = messages
	if s.err != nil {
		return llm.Result{}, s.err
	}
	return llm.Result{Text: s.text, Success: true, Source: s.provider}, nil
}

func (s *stubClient) Provider() string { return s.provider }
func (s *stubClient) Model() string    { return "stub-model" }
func (s *stubClient) Configured() bool { return s.configured }

func demoConfig() llm.Config {
	return llm.Config{
		ActiveProvider: llm.ProviderGemini,
		RequestTimeout: time.Second,
		HistoryCap:     10,
		ContextWindow:  6,
	}
}

func newTestService(cfg llm.Config) *Service {
	return New(cfg, erp.NewDemoStore())
}

func TestAsk_NoKeyRoutesToDemoResponder(t *testing.T) {
	svc := newTestService(demoConfig())

	ans := svc.Ask(context.Background(), "merhaba")

	assert.False(t, ans.Success)
	assert.True(t, ans.IsDemo)
	assert.Equal(t, SourceDemo, ans.Source)
	assert.Equal(t, "Merhaba! Size nasıl yardımcı olabilirim?", ans.Text)
}

func TestAsk_DemoModeOverridesConfiguredKey(t *testing.T) {
	cfg := demoConfig()
	cfg.DemoMode = true
	svc := newTestService(cfg)
	svc.RegisterClient(llm.ProviderGemini, &stubClient{provider: "gemini", configured: true, text: "canlı cevap"})

	ans := svc.Ask(context.Background(), "merhaba")

	assert.True(t, ans.IsDemo)
	assert.NotEqual(t, "canlı cevap", ans.Text)
}

func TestAsk_LiveSuccess(t *testing.T) {
	svc := newTestService(demoConfig())
	stub := &stubClient{provider: "gemini", configured: true, text: "Geciken 1 sipariş var: #0424-1251."}
	svc.RegisterClient(llm.ProviderGemini, stub)

	ans := svc.Ask(context.Background(), "Geciken siparişler?")

	assert.True(t, ans.Success)
	assert.False(t, ans.IsDemo)
	assert.Equal(t, "gemini", ans.Source)
	assert.Equal(t, "Geciken 1 sipariş var: #0424-1251.", ans.Text)

	// The live call carries the system prompt with the snapshot embedded
	// and ends with the question.
	require.NotEmpty(t, stub.lastMessages)
	assert.Equal(t, "system", stub.lastMessages[0].Role)
	assert.Contains(t, stub.lastMessages[0].Content, "endüstriyel üretim asistanısın")
	assert.Contains(t, stub.lastMessages[0].Content, "#0424-1251")
	last := stub.lastMessages[len(stub.lastMessages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "Geciken siparişler?", last.Content)
}

func TestAsk_LiveFailureDegradesToAnnotatedDemoAnswer(t *testing.T) {
	svc := newTestService(demoConfig())
	svc.RegisterClient(llm.ProviderGemini, &stubClient{
		provider: "gemini", configured: true,
		err: fmt.Errorf("API returned status 500: upstream"),
	})

	ans := svc.Ask(context.Background(), "Geciken siparişler hangileri?")

	assert.False(t, ans.Success)
	assert.True(t, ans.IsDemo)
	assert.Equal(t, "gemini", ans.Source)
	assert.Contains(t, ans.Text, "API bağlantı sorunu: (gemini) API returned status 500")
	// The demo branch still answers the question underneath the annotation.
	assert.Contains(t, ans.Text, "geciken 1 sipariş")
}

func TestAsk_AppendsToConversationLog(t *testing.T) {
	svc := newTestService(demoConfig())

	svc.Ask(context.Background(), "merhaba")
	svc.Ask(context.Background(), "kritik malzeme var mı")

	status := svc.ServiceStatus()
	assert.Equal(t, 4, status.HistoryLength)

	svc.ClearHistory()
	assert.Equal(t, 0, svc.ServiceStatus().HistoryLength)
}

func TestAsk_FallbackUsesTopicContinuity(t *testing.T) {
	svc := newTestService(demoConfig())

	// Build up enough history that the continuity hint activates, then
	// ask something no rule matches.
	svc.Ask(context.Background(), "kritik malzeme var mı")
	ans := svc.Ask(context.Background(), "peki ya dünkü durum")

	assert.Contains(t, ans.Text, "malzeme ve stok hakkında konuşmaya devam ediyoruz.")
}

func TestSendMessage_UsesCallerHistory(t *testing.T) {
	svc := newTestService(demoConfig())
	stub := &stubClient{provider: "gemini", configured: true, text: "tamam"}
	svc.RegisterClient(llm.ProviderGemini, stub)

	history := []llm.Message{
		{Role: "system", Content: "Sen bir asistansın."},
		{Role: "user", Content: "Selam"},
		{Role: "assistant", Content: "Merhaba!"},
	}
	ans := svc.SendMessage(context.Background(), "Sipariş durumu?", history, llm.GenerationParams{})

	assert.True(t, ans.Success)
	require.Len(t, stub.lastMessages, 4)
	assert.Equal(t, "Sen bir asistansın.", stub.lastMessages[0].Content)
	assert.Equal(t, "Sipariş durumu?", stub.lastMessages[3].Content)
}

func TestGenerateInsights_DemoPathUsesRuleBasedReport(t *testing.T) {
	svc := newTestService(demoConfig())

	insights := svc.GenerateInsights(context.Background())

	// Demo store: 5 orders with 1 delayed, 5 materials with 2 critical.
	assert.Equal(t, 1, insights.DelayedOrders.Count)
	assert.InDelta(t, 20.0, insights.DelayedOrders.Percentage, 0.001)
	assert.Equal(t, 2, insights.MaterialShortages.CriticalCount)
	assert.InDelta(t, 40.0, insights.MaterialShortages.CriticalPercentage, 0.001)
	assert.Equal(t, 78, insights.EfficiencyTrends.CurrentEfficiency)
}

func TestGenerateInsights_LiveJSONParseFailureRecoveredAsText(t *testing.T) {
	svc := newTestService(demoConfig())
	svc.RegisterClient(llm.ProviderGemini, &stubClient{
		provider: "gemini", configured: true,
		text: "Verimlilik iyi görünüyor ama tedarik riskli.",
	})

	insights := svc.GenerateInsights(context.Background())

	assert.Equal(t, "Verimlilik iyi görünüyor ama tedarik riskli.", insights.AnalysisText)
	assert.Zero(t, insights.DelayedOrders.Count)
}

func TestGenerateInsights_LiveValidJSONParsed(t *testing.T) {
	svc := newTestService(demoConfig())
	svc.RegisterClient(llm.ProviderGemini, &stubClient{
		provider: "gemini", configured: true,
		text: `{"delayedOrders":{"count":7,"percentage":35.0}}`,
	})

	insights := svc.GenerateInsights(context.Background())

	assert.Equal(t, 7, insights.DelayedOrders.Count)
	assert.Empty(t, insights.AnalysisText)
}

func TestGenerateInsights_LiveFailureFallsBackToRuleBased(t *testing.T) {
	svc := newTestService(demoConfig())
	svc.RegisterClient(llm.ProviderGemini, &stubClient{
		provider: "gemini", configured: true,
		err: fmt.Errorf("timeout"),
	})

	insights := svc.GenerateInsights(context.Background())
	assert.Equal(t, 1, insights.DelayedOrders.Count)
	assert.Empty(t, insights.AnalysisText)
}

func TestAnalyzeOrder_UnknownIDPropagates(t *testing.T) {
	svc := newTestService(demoConfig())

	_, err := svc.AnalyzeOrder(context.Background(), "#9999-9999")
	require.Error(t, err)
	assert.ErrorIs(t, err, erp.ErrOrderNotFound)
	assert.Contains(t, err.Error(), "#9999-9999")
}

func TestAnalyzeOrder_DemoPath(t *testing.T) {
	svc := newTestService(demoConfig())

	analysis, err := svc.AnalyzeOrder(context.Background(), "#0424-1251")
	require.NoError(t, err)

	assert.Equal(t, RiskHigh, analysis.RiskAssessment.RiskLevel)
	assert.Equal(t, "24-04-1251", analysis.OrderInfo.OrderNo)
	assert.Equal(t, "AYEDAŞ", analysis.OrderInfo.Customer)
}

func TestPredictEquipmentMaintenance_UnknownIDPropagates(t *testing.T) {
	svc := newTestService(demoConfig())

	_, err := svc.PredictEquipmentMaintenance(context.Background(), "EQP-999")
	require.Error(t, err)
	assert.ErrorIs(t, err, erp.ErrEquipmentNotFound)
}

func TestPredictEquipmentMaintenance_DemoPath(t *testing.T) {
	svc := newTestService(demoConfig())

	prediction, err := svc.PredictEquipmentMaintenance(context.Background(), "EQP-102")
	require.NoError(t, err)

	assert.Equal(t, "Toz Boya Fırını", prediction.EquipmentInfo.Name)
	assert.Greater(t, prediction.FailureProbability.Next30Days, 0)
	assert.LessOrEqual(t, prediction.FailureProbability.Next90Days, 95)
}

func TestServiceStatus(t *testing.T) {
	cfg := demoConfig()
	cfg.Gemini = llm.GeminiConfig{APIKey: "k", BaseURL: "https://example.test", ModelName: "gemini-1.5-pro"}
	cfg.OpenRouter = llm.OpenRouterConfig{ChatModel: "openai/gpt-3.5-turbo", InstructModel: "google/gemini-flash-1.5"}
	svc := newTestService(cfg)

	status := svc.ServiceStatus()

	assert.Equal(t, llm.ProviderGemini, status.ActiveProvider)
	assert.True(t, status.GeminiConfigured)
	assert.False(t, status.OpenRouterConfigured)
	assert.False(t, status.OpenAIConfigured)
	assert.Equal(t, "gemini-1.5-pro", status.GeminiModel)
	assert.Equal(t, "google/gemini-flash-1.5", status.OpenRouterInstructModel)
}

func TestServiceStatus_ReportsRegisteredClientInstructModel(t *testing.T) {
	cfg := demoConfig()
	cfg.OpenRouter = llm.OpenRouterConfig{ChatModel: "openai/gpt-3.5-turbo", InstructModel: "google/gemini-flash-1.5"}
	svc := newTestService(cfg)

	// A replacement OpenRouter client wins over the config value.
	replacement := llm.OpenRouterConfig{ChatModel: "openai/gpt-4o", InstructModel: "mistralai/mistral-large"}
	svc.RegisterClient(llm.ProviderOpenRouter,
		llm.NewOpenRouterClient(replacement, cfg.Generation, cfg.RequestTimeout))
	assert.Equal(t, "mistralai/mistral-large", svc.ServiceStatus().OpenRouterInstructModel)

	// A custom client without an instruct model falls back to the config.
	svc.RegisterClient(llm.ProviderOpenRouter, &stubClient{provider: "openrouter", configured: true})
	assert.Equal(t, "google/gemini-flash-1.5", svc.ServiceStatus().OpenRouterInstructModel)
}

func TestAsk_UnknownActiveProviderRoutesToDemo(t *testing.T) {
	cfg := demoConfig()
	cfg.ActiveProvider = "yok-böyle-bir-servis"
	svc := newTestService(cfg)

	ans := svc.Ask(context.Background(), "merhaba")
	assert.True(t, ans.IsDemo)
}
