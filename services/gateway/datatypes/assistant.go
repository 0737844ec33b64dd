// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides request and response types for the gateway.
//
// Every request carries an ID and timestamp for audit trails; both are
// generated server-side when the client omits them.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mettakip/metassist/services/assistant"
)

const (
	// MaxContentBytes is the maximum size of a question or message body.
	// Byte length, not rune count, to bound memory on large payloads.
	MaxContentBytes = 32 * 1024 // 32KB

	// MaxMessagesPerRequest bounds the conversation history a chat request
	// may carry.
	MaxMessagesPerRequest = 100
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("maxbytes", validateMaxBytes)
}

func validateMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxContentBytes
}

// Message is one role-tagged message in a chat request.
type Message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required,maxbytes"`
}

// AskRequest is the body of POST /v1/assistant/ask: a one-shot question
// with no caller-managed history.
type AskRequest struct {
	RequestID string `json:"request_id" validate:"omitempty,uuid4"`
	Timestamp int64  `json:"timestamp" validate:"gte=0"`
	Question  string `json:"question" validate:"required,maxbytes"`
}

// Validate checks the request after JSON binding.
func (r *AskRequest) Validate() error {
	return validate.Struct(r)
}

// EnsureDefaults fills the request id and timestamp when the client did
// not provide them.
func (r *AskRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	if r.Timestamp == 0 {
		r.Timestamp = time.Now().UnixMilli()
	}
}

// ChatRequest is the body of POST /v1/assistant/chat: a message with the
// caller-managed conversation so far.
type ChatRequest struct {
	RequestID string    `json:"request_id" validate:"omitempty,uuid4"`
	Timestamp int64     `json:"timestamp" validate:"gte=0"`
	Content   string    `json:"content" validate:"required,maxbytes"`
	History   []Message `json:"history" validate:"max=100,dive"`
}

// Validate checks the request after JSON binding.
func (r *ChatRequest) Validate() error {
	return validate.Struct(r)
}

// EnsureDefaults fills the request id and timestamp when the client did
// not provide them.
func (r *ChatRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	if r.Timestamp == 0 {
		r.Timestamp = time.Now().UnixMilli()
	}
}

// AnswerResponse is the wire form of an assistant answer.
type AnswerResponse struct {
	ResponseID       string `json:"response_id"`
	RequestID        string `json:"request_id"`
	Timestamp        int64  `json:"timestamp"`
	Text             string `json:"text"`
	Success          bool   `json:"success"`
	Source           string `json:"source"`
	IsDemo           bool   `json:"isDemo,omitempty"`
	ProcessingTimeMs int64  `json:"processing_time_ms,omitempty"`
}

// NewAnswerResponse wraps an answer with server-generated response id and
// timestamp, echoing the request id for correlation.
func NewAnswerResponse(requestID string, ans assistant.Answer) *AnswerResponse {
	return &AnswerResponse{
		ResponseID: uuid.NewString(),
		RequestID:  requestID,
		Timestamp:  time.Now().UnixMilli(),
		Text:       ans.Text,
		Success:    ans.Success,
		Source:     ans.Source,
		IsDemo:     ans.IsDemo,
	}
}
