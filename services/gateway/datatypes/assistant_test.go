// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// Tests for gateway request validation

package datatypes

import (
	"strings"
	"testing"

	"github.com/mettakip/metassist/services/assistant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskRequest_ValidatesQuestion(t *testing.T) {
	req := AskRequest{Question: "Geciken siparişler hangileri?"}
	req.EnsureDefaults()
	assert.NoError(t, req.Validate())
	assert.NotEmpty(t, req.RequestID)
	assert.Greater(t, req.Timestamp, int64(0))
}

func TestAskRequest_EmptyQuestionFails(t *testing.T) {
	req := AskRequest{}
	req.EnsureDefaults()
	assert.Error(t, req.Validate())
}

func TestAskRequest_OversizedQuestionFails(t *testing.T) {
	req := AskRequest{Question: strings.Repeat("a", MaxContentBytes+1)}
	req.EnsureDefaults()
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxbytes")
}

func TestAskRequest_KeepsProvidedID(t *testing.T) {
	const id = "3f1b4b72-4b2f-4f38-9a7e-222222222222"
	req := AskRequest{RequestID: id, Question: "Merhaba"}
	req.EnsureDefaults()
	assert.Equal(t, id, req.RequestID)
	assert.NoError(t, req.Validate())
}

func TestAskRequest_RejectsMalformedID(t *testing.T) {
	req := AskRequest{RequestID: "not-a-uuid", Question: "Merhaba"}
	assert.Error(t, req.Validate())
}

func TestChatRequest_ValidHistory(t *testing.T) {
	req := ChatRequest{
		Content: "Kritik malzemeler neler?",
		History: []Message{
			{Role: "user", Content: "Merhaba"},
			{Role: "assistant", Content: "Merhaba! Size nasıl yardımcı olabilirim?"},
			{Role: "system", Content: "Kısa cevap ver."},
		},
	}
	req.EnsureDefaults()
	assert.NoError(t, req.Validate())
}

func TestChatRequest_RejectsUnknownRole(t *testing.T) {
	req := ChatRequest{
		Content: "Merhaba",
		History: []Message{{Role: "tool", Content: "x"}},
	}
	req.EnsureDefaults()
	assert.Error(t, req.Validate())
}

func TestChatRequest_RejectsEmptyHistoryContent(t *testing.T) {
	req := ChatRequest{
		Content: "Merhaba",
		History: []Message{{Role: "user", Content: ""}},
	}
	req.EnsureDefaults()
	assert.Error(t, req.Validate())
}

func TestChatRequest_RejectsOversizedHistory(t *testing.T) {
	history := make([]Message, MaxMessagesPerRequest+1)
	for i := range history {
		history[i] = Message{Role: "user", Content: "m"}
	}
	req := ChatRequest{Content: "Merhaba", History: history}
	req.EnsureDefaults()
	assert.Error(t, req.Validate())
}

func TestNewAnswerResponse_CopiesAnswerFields(t *testing.T) {
	ans := assistant.Answer{
		Text:    "Merhaba! Size nasıl yardımcı olabilirim?",
		Success: false,
		Source:  assistant.SourceDemo,
		IsDemo:  true,
	}
	resp := NewAnswerResponse("req-1", ans)

	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, ans.Text, resp.Text)
	assert.Equal(t, assistant.SourceDemo, resp.Source)
	assert.True(t, resp.IsDemo)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.ResponseID)
	assert.Greater(t, resp.Timestamp, int64(0))
}
