// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mettakip/metassist/services/assistant"
	"github.com/mettakip/metassist/services/gateway/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes wires the gateway endpoints to the assistant service.
func SetupRoutes(router *gin.Engine, svc *assistant.Service) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		assistantGroup := v1.Group("/assistant")
		{
			assistantGroup.POST("/ask", handlers.Ask(svc))
			assistantGroup.POST("/chat", handlers.Chat(svc))
			assistantGroup.GET("/insights", handlers.Insights(svc))
			assistantGroup.GET("/orders/:orderNo/analysis", handlers.OrderAnalysis(svc))
			assistantGroup.GET("/equipment/:equipmentId/maintenance", handlers.MaintenancePrediction(svc))
			assistantGroup.GET("/status", handlers.ServiceStatus(svc))
		}
	}
}
