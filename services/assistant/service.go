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
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mettakip/metassist/services/llm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var serviceTracer = otel.Tracer("metassist.assistant.service")

const defaultSystemPrompt = `Sen orta gerilim hücresi üreten bir fabrika için endüstriyel üretim asistanısın.
Üretilen hücre tipleri: CB (Kesicili), LB (Yük Ayırıcılı), FL (Sigortalı), RMU (Ring Main Unit).
Aşağıdaki sistem verilerine dayanarak soruları cevaplayabilirsin:
%s
Cevapların kısa, net ve profesyonel olsun. Bilmediğin konularda tahmin yürütme.
Komut istekleri için (sipariş oluşturma, düzenleme vb.) "Bu işlemi yapmak için ilgili menüyü kullanmanız gerekiyor." cevabını ver.`

// Status reports the router configuration, mirroring what the UI shows on
// the assistant settings page.
type Status struct {
	ActiveProvider          string `json:"activeProvider"`
	DemoMode                bool   `json:"demoMode"`
	GeminiConfigured        bool   `json:"geminiConfigured"`
	OpenRouterConfigured    bool   `json:"openRouterConfigured"`
	OpenAIConfigured        bool   `json:"openAIConfigured"`
	GeminiModel             string `json:"geminiModel"`
	OpenRouterChatModel     string `json:"openRouterChatModel"`
	OpenRouterInstructModel string `json:"openRouterInstructModel"`
	OpenAIModel             string `json:"openAIModel"`
	HistoryLength           int    `json:"historyLength"`
}

// Service is the question-answering facade. It owns the conversation log
// and the provider clients and decides, per query, between the live path
// and the deterministic responder.
//
// Construct one Service at startup and pass it to consumers; it is safe
// for concurrent use.
type Service struct {
	cfg       llm.Config
	source    DataSource
	clients   map[string]llm.Client
	history   *ConversationLog
	responder *Responder
	now       func() time.Time
}

// New builds the service with the standard provider clients.
func New(cfg llm.Config, source DataSource) *Service {
	s := &Service{
		cfg:       cfg,
		source:    source,
		clients:   make(map[string]llm.Client),
		history:   NewConversationLog(cfg.HistoryCap),
		responder: NewResponder(),
		now:       time.Now,
	}
	s.clients[llm.ProviderGemini] = llm.NewGeminiClient(cfg.Gemini, cfg.Generation, cfg.RequestTimeout)
	s.clients[llm.ProviderOpenRouter] = llm.NewOpenRouterClient(cfg.OpenRouter, cfg.Generation, cfg.RequestTimeout)
	s.clients[llm.ProviderOpenAI] = llm.NewOpenAIClient(cfg.OpenAI)
	return s
}

// RegisterClient replaces the client for a provider id. Used by tests and
// by deployments adding a custom provider.
func (s *Service) RegisterClient(provider string, client llm.Client) {
	s.clients[provider] = client
}

// liveClient returns the active provider's client when the live path is
// usable: demo mode off, provider known, key configured.
func (s *Service) liveClient() (llm.Client, bool) {
	if s.cfg.DemoMode {
		return nil, false
	}
	client, ok := s.clients[s.cfg.ActiveProvider]
	if !ok || !client.Configured() {
		return nil, false
	}
	return client, true
}

// Ask answers a one-shot question. The caller always gets an Answer: live
// failures degrade to an annotated demo answer and are never propagated.
func (s *Service) Ask(ctx context.Context, question string) Answer {
	ctx, span := serviceTracer.Start(ctx, "Service.Ask")
	defer span.End()

	snap := BuildSnapshot(ctx, s.source)
	s.history.Append("user", question)

	answer := s.answer(ctx, question, snap, s.contextMessages(snap, question))
	s.history.Append("assistant", answer.Text)

	span.SetAttributes(
		attribute.String("assistant.source", answer.Source),
		attribute.Bool("assistant.is_demo", answer.IsDemo),
	)
	return answer
}

// SendMessage answers within a caller-managed conversation. When history
// is empty the system prompt is injected, as on the Ask path.
func (s *Service) SendMessage(ctx context.Context, content string, history []llm.Message, params llm.GenerationParams) Answer {
	ctx, span := serviceTracer.Start(ctx, "Service.SendMessage")
	defer span.End()

	snap := BuildSnapshot(ctx, s.source)
	s.history.Append("user", content)

	var messages []llm.Message
	if len(history) > 0 {
		messages = append(messages, history...)
		messages = append(messages, llm.Message{Role: "user", Content: content})
	} else {
		messages = s.contextMessages(snap, content)
	}

	answer := s.answerWith(ctx, content, snap, messages, params)
	s.history.Append("assistant", answer.Text)

	span.SetAttributes(
		attribute.String("assistant.source", answer.Source),
		attribute.Bool("assistant.is_demo", answer.IsDemo),
	)
	return answer
}

func (s *Service) answer(ctx context.Context, question string, snap Snapshot, messages []llm.Message) Answer {
	return s.answerWith(ctx, question, snap, messages, llm.GenerationParams{})
}

// answerWith runs the router: live call when configured, deterministic
// responder otherwise or on any live failure.
func (s *Service) answerWith(ctx context.Context, question string, snap Snapshot, messages []llm.Message, params llm.GenerationParams) Answer {
	client, live := s.liveClient()
	if !live {
		return s.responder.Respond(question, snap, s.continuityContext(), nil)
	}

	result, err := client.Chat(ctx, messages, params)
	if err != nil {
		slog.Warn("Live provider failed, falling back to demo answer",
			"provider", client.Provider(), "error", err)
		answer := s.responder.Respond(question, snap, s.continuityContext(),
			fmt.Errorf("(%s) %w", client.Provider(), err))
		answer.Source = client.Provider()
		return answer
	}
	return Answer{Text: result.Text, Success: true, Source: result.Source, Raw: result.Raw}
}

// contextMessages assembles the live-call message list: system prompt with
// the snapshot embedded, the trailing context window of the conversation
// log, and the current question unless the window already ends with it.
func (s *Service) contextMessages(snap Snapshot, question string) []llm.Message {
	messages := []llm.Message{{Role: "system", Content: s.systemPrompt(snap)}}

	recent := s.history.RecentForContext(s.cfg.ContextWindow)
	questionInWindow := false
	for _, e := range recent {
		messages = append(messages, llm.Message{Role: e.Role, Content: e.Content})
		if e.Role == "user" && e.Content == question {
			questionInWindow = true
		}
	}
	if !questionInWindow {
		messages = append(messages, llm.Message{Role: "user", Content: question})
	}
	return messages
}

func (s *Service) systemPrompt(snap Snapshot) string {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		data = []byte("{}")
	}
	if s.cfg.SystemPrompt != "" {
		return fmt.Sprintf("%s\n\nSistem verileri:\n%s", s.cfg.SystemPrompt, data)
	}
	return fmt.Sprintf(defaultSystemPrompt, data)
}

// continuityContext supplies the last assistant message for the fallback
// topic hint, once the conversation is long enough to have a topic.
func (s *Service) continuityContext() string {
	if s.history.Len() <= 2 {
		return ""
	}
	return s.history.LastAssistantMessage()
}

// GenerateInsights produces the production insights report. Live failures
// fall back to the rule-based report; live output that is not valid JSON
// is recovered as AnalysisText.
func (s *Service) GenerateInsights(ctx context.Context) ProductionInsights {
	ctx, span := serviceTracer.Start(ctx, "Service.GenerateInsights")
	defer span.End()

	snap := BuildSnapshot(ctx, s.source)
	client, live := s.liveClient()
	if !live {
		return GenerateInsights(snap)
	}

	prompt := analysisPrompt("Analyze the following production data and provide insights about:\n"+
		"1. Production efficiency trends\n2. Potential bottlenecks\n3. Delayed order patterns\n"+
		"4. Critical material shortages\n5. Recommended actions to improve efficiency", snap)
	result, err := client.Generate(ctx, prompt, llm.GenerationParams{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Warn("Live insights failed, using rule-based report", "provider", client.Provider(), "error", err)
		return GenerateInsights(snap)
	}

	var insights ProductionInsights
	if err := json.Unmarshal([]byte(result.Text), &insights); err != nil {
		return ProductionInsights{AnalysisText: result.Text}
	}
	return insights
}

// AnalyzeOrder produces the risk report for one order. An unknown order id
// is the one error that propagates to the caller.
func (s *Service) AnalyzeOrder(ctx context.Context, orderID string) (OrderAnalysis, error) {
	ctx, span := serviceTracer.Start(ctx, "Service.AnalyzeOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	order, err := s.source.OrderByNo(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return OrderAnalysis{}, err
	}

	client, live := s.liveClient()
	if !live {
		return AnalyzeOrderRisk(order, s.now()), nil
	}

	orderJSON, _ := json.MarshalIndent(order, "", "  ")
	prompt := fmt.Sprintf("Analyze the following specific order and provide optimization recommendations:\n%s\n\n"+
		"Include:\n1. Risk assessment\n2. Critical path analysis\n3. Resource optimization suggestions\n"+
		"4. Schedule improvement options\n\n"+
		"Format the response as a JSON object with sections for each category.", orderJSON)
	result, err := client.Generate(ctx, prompt, llm.GenerationParams{})
	if err != nil {
		slog.Warn("Live order analysis failed, using rule-based report", "provider", client.Provider(), "error", err)
		return AnalyzeOrderRisk(order, s.now()), nil
	}

	var analysis OrderAnalysis
	if err := json.Unmarshal([]byte(result.Text), &analysis); err != nil {
		return OrderAnalysis{AnalysisText: result.Text}, nil
	}
	return analysis, nil
}

// PredictEquipmentMaintenance produces the maintenance report for one
// machine. An unknown equipment id is the one error that propagates.
func (s *Service) PredictEquipmentMaintenance(ctx context.Context, equipmentID string) (MaintenancePrediction, error) {
	ctx, span := serviceTracer.Start(ctx, "Service.PredictEquipmentMaintenance")
	defer span.End()
	span.SetAttributes(attribute.String("equipment.id", equipmentID))

	eq, err := s.source.EquipmentByID(ctx, equipmentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return MaintenancePrediction{}, err
	}

	client, live := s.liveClient()
	if !live {
		return PredictMaintenance(eq, s.now()), nil
	}

	eqJSON, _ := json.MarshalIndent(eq, "", "  ")
	prompt := fmt.Sprintf("Analyze the following equipment data and predict maintenance needs:\n%s\n\n"+
		"Include:\n1. Failure probability in the next 30, 60, and 90 days\n"+
		"2. Most likely failure components\n3. Recommended maintenance schedule\n"+
		"4. Cost-benefit analysis of preventive vs. reactive maintenance\n\n"+
		"Format the response as a JSON object with sections for each category.", eqJSON)
	result, err := client.Generate(ctx, prompt, llm.GenerationParams{})
	if err != nil {
		slog.Warn("Live maintenance prediction failed, using rule-based report", "provider", client.Provider(), "error", err)
		return PredictMaintenance(eq, s.now()), nil
	}

	var prediction MaintenancePrediction
	if err := json.Unmarshal([]byte(result.Text), &prediction); err != nil {
		return MaintenancePrediction{AnalysisText: result.Text}, nil
	}
	return prediction, nil
}

// ServiceStatus reports the current router configuration.
func (s *Service) ServiceStatus() Status {
	configured := func(provider string) bool {
		c, ok := s.clients[provider]
		return ok && c.Configured()
	}
	instructModel := s.cfg.OpenRouter.InstructModel
	if or, ok := s.clients[llm.ProviderOpenRouter].(*llm.OpenRouterClient); ok {
		instructModel = or.InstructModel()
	}
	return Status{
		ActiveProvider:          s.cfg.ActiveProvider,
		DemoMode:                s.cfg.DemoMode,
		GeminiConfigured:        configured(llm.ProviderGemini),
		OpenRouterConfigured:    configured(llm.ProviderOpenRouter),
		OpenAIConfigured:        configured(llm.ProviderOpenAI),
		GeminiModel:             s.cfg.Gemini.ModelName,
		OpenRouterChatModel:     s.cfg.OpenRouter.ChatModel,
		OpenRouterInstructModel: instructModel,
		OpenAIModel:             s.cfg.OpenAI.ModelName,
		HistoryLength:           s.history.Len(),
	}
}

// ClearHistory drops the conversation log.
func (s *Service) ClearHistory() {
	s.history.Clear()
}

func analysisPrompt(task string, snap Snapshot) string {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf("%s\n\nSystem data for analysis:\n%s\n\n"+
		"Format the response as a JSON object with sections for each category.", task, data)
}
