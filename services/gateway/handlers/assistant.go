// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the gin handlers of the assistant gateway.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mettakip/metassist/services/assistant"
	"github.com/mettakip/metassist/services/erp"
	"github.com/mettakip/metassist/services/gateway/datatypes"
	"github.com/mettakip/metassist/services/gateway/observability"
	"github.com/mettakip/metassist/services/llm"
)

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ask handles POST /v1/assistant/ask. The assistant never fails a valid
// ask: infrastructure problems surface as annotated demo answers, so the
// only error statuses here are validation failures.
func Ask(svc *assistant.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		var req datatypes.AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			observability.DefaultMetrics.RecordRequest("ask", "invalid")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			observability.DefaultMetrics.RecordRequest("ask", "invalid")
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed: " + err.Error()})
			return
		}

		ans := svc.Ask(c.Request.Context(), req.Question)

		observability.DefaultMetrics.RecordRequest("ask", "success")
		observability.DefaultMetrics.RecordAnswer(ans.Source, ans.IsDemo)
		observability.DefaultMetrics.ObserveDuration("ask", time.Since(start).Seconds())
		slog.Info("Answered ask request",
			"request_id", req.RequestID, "source", ans.Source, "is_demo", ans.IsDemo)

		resp := datatypes.NewAnswerResponse(req.RequestID, ans)
		resp.ProcessingTimeMs = time.Since(start).Milliseconds()
		c.JSON(http.StatusOK, resp)
	}
}

// Chat handles POST /v1/assistant/chat with a caller-managed history.
func Chat(svc *assistant.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		var req datatypes.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			observability.DefaultMetrics.RecordRequest("chat", "invalid")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			observability.DefaultMetrics.RecordRequest("chat", "invalid")
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed: " + err.Error()})
			return
		}

		history := make([]llm.Message, 0, len(req.History))
		for _, m := range req.History {
			history = append(history, llm.Message{Role: m.Role, Content: m.Content})
		}
		ans := svc.SendMessage(c.Request.Context(), req.Content, history, llm.GenerationParams{})

		observability.DefaultMetrics.RecordRequest("chat", "success")
		observability.DefaultMetrics.RecordAnswer(ans.Source, ans.IsDemo)
		observability.DefaultMetrics.ObserveDuration("chat", time.Since(start).Seconds())

		resp := datatypes.NewAnswerResponse(req.RequestID, ans)
		resp.ProcessingTimeMs = time.Since(start).Milliseconds()
		c.JSON(http.StatusOK, resp)
	}
}

// Insights handles GET /v1/assistant/insights.
func Insights(svc *assistant.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		insights := svc.GenerateInsights(c.Request.Context())
		observability.DefaultMetrics.RecordRequest("insights", "success")
		observability.DefaultMetrics.ObserveDuration("insights", time.Since(start).Seconds())
		c.JSON(http.StatusOK, insights)
	}
}

// OrderAnalysis handles GET /v1/assistant/orders/:orderNo/analysis. An
// unknown order number is a caller error and returns 404.
func OrderAnalysis(svc *assistant.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		orderNo := c.Param("orderNo")

		analysis, err := svc.AnalyzeOrder(c.Request.Context(), orderNo)
		if err != nil {
			if errors.Is(err, erp.ErrOrderNotFound) {
				observability.DefaultMetrics.RecordRequest("order_analysis", "not_found")
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			observability.DefaultMetrics.RecordRequest("order_analysis", "error")
			slog.Error("Order analysis failed", "order", orderNo, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order analysis failed"})
			return
		}

		observability.DefaultMetrics.RecordRequest("order_analysis", "success")
		observability.DefaultMetrics.ObserveDuration("order_analysis", time.Since(start).Seconds())
		c.JSON(http.StatusOK, analysis)
	}
}

// MaintenancePrediction handles
// GET /v1/assistant/equipment/:equipmentId/maintenance. An unknown
// equipment id returns 404.
func MaintenancePrediction(svc *assistant.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		equipmentID := c.Param("equipmentId")

		prediction, err := svc.PredictEquipmentMaintenance(c.Request.Context(), equipmentID)
		if err != nil {
			if errors.Is(err, erp.ErrEquipmentNotFound) {
				observability.DefaultMetrics.RecordRequest("maintenance", "not_found")
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			observability.DefaultMetrics.RecordRequest("maintenance", "error")
			slog.Error("Maintenance prediction failed", "equipment", equipmentID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "maintenance prediction failed"})
			return
		}

		observability.DefaultMetrics.RecordRequest("maintenance", "success")
		observability.DefaultMetrics.ObserveDuration("maintenance", time.Since(start).Seconds())
		c.JSON(http.StatusOK, prediction)
	}
}

// ServiceStatus handles GET /v1/assistant/status.
func ServiceStatus(svc *assistant.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		observability.DefaultMetrics.RecordRequest("status", "success")
		c.JSON(http.StatusOK, svc.ServiceStatus())
	}
}
