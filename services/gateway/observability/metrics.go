// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the gateway.
//
// Metrics cover request counts by endpoint and status, answer routing
// (live provider vs demo responder) and request latency. They are exposed
// on /metrics; all operations are thread-safe via Prometheus's internal
// locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "metassist"
const gatewaySubsystem = "gateway"

// GatewayMetrics holds the Prometheus metrics for the assistant gateway.
type GatewayMetrics struct {
	// RequestsTotal counts requests by endpoint and status.
	// Labels: endpoint (ask, chat, insights, order_analysis, maintenance,
	// status), status (success, error, not_found, invalid).
	RequestsTotal *prometheus.CounterVec

	// AnswersTotal counts answers by source and routing outcome.
	// Labels: source (gemini, openrouter, openai, demo), is_demo.
	AnswersTotal *prometheus.CounterVec

	// RequestDurationSeconds measures request latency per endpoint.
	RequestDurationSeconds *prometheus.HistogramVec
}

// DefaultMetrics is the singleton instance, set by InitMetrics. Handlers
// tolerate it being nil so tests can run without a registry.
var DefaultMetrics *GatewayMetrics

// InitMetrics creates and registers the gateway metrics. Call once at
// startup; a second call panics on duplicate registration.
func InitMetrics() *GatewayMetrics {
	DefaultMetrics = &GatewayMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "requests_total",
				Help:      "Total assistant requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		AnswersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "answers_total",
				Help:      "Total answers by source and demo flag",
			},
			[]string{"source", "is_demo"},
		),
		RequestDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "request_duration_seconds",
				Help:      "Assistant request latency in seconds",
				Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"endpoint"},
		),
	}
	return DefaultMetrics
}

// RecordRequest records one completed request.
func (m *GatewayMetrics) RecordRequest(endpoint, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordAnswer records the routing outcome of one answer.
func (m *GatewayMetrics) RecordAnswer(source string, isDemo bool) {
	if m == nil {
		return
	}
	demo := "false"
	if isDemo {
		demo = "true"
	}
	m.AnswersTotal.WithLabelValues(source, demo).Inc()
}

// ObserveDuration records request latency for an endpoint.
func (m *GatewayMetrics) ObserveDuration(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDurationSeconds.WithLabelValues(endpoint).Observe(seconds)
}
