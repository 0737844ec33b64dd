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
	"sync"
	"time"
)

// Entry is one role-tagged message in the conversation log.
type Entry struct {
	Role      string    `json:"role"` // user | assistant | system
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationLog is a bounded, append-only message log. After any append
// it holds at most 2×cap entries; the oldest entries are dropped first and
// survivors keep their original order.
//
// The log cap and the live-API context window are independent limits. The
// cap bounds what is remembered at all; the window (see Config) bounds how
// much of it rides along on a live call.
type ConversationLog struct {
	mu      sync.Mutex
	cap     int
	entries []Entry
}

// NewConversationLog builds a log keeping roughly cap user/assistant pairs
// (2×cap entries). A non-positive cap falls back to 10.
func NewConversationLog(cap int) *ConversationLog {
	if cap <= 0 {
		cap = 10
	}
	return &ConversationLog{cap: cap}
}

// Append records a message, evicting from the oldest end when the log
// exceeds 2×cap entries.
func (l *ConversationLog) Append(role, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Role: role, Content: content, Timestamp: time.Now()})
	if limit := 2 * l.cap; len(l.entries) > limit {
		kept := make([]Entry, limit)
		copy(kept, l.entries[len(l.entries)-limit:])
		l.entries = kept
	}
}

// RecentForContext returns the most recent n entries, oldest first.
func (l *ConversationLog) RecentForContext(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || len(l.entries) == 0 {
		return nil
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// LastAssistantMessage returns the content of the most recent assistant
// entry, or "" when there is none.
func (l *ConversationLog) LastAssistantMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Role == "assistant" {
			return l.entries[i].Content
		}
	}
	return ""
}

// Len reports the current number of entries.
func (l *ConversationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear drops all entries.
func (l *ConversationLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
