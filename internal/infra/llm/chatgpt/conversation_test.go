package chatgpt

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunpeak/solar-advisor/internal/domain/chat"
)

func TestConversationConverse(t *testing.T) {
	var gotReq ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "sure thing"}}],
			"usage": {"prompt_tokens": 21, "completion_tokens": 4, "total_tokens": 25}
		}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL)
	require.NoError(t, err)

	conv := &Conversation{
		client: client,
		cfg: ConversationConfig{
			Model:       "gpt-test",
			Temperature: 1,
			MaxTokens:   256,
			TopP:        1,
		},
		logger: newTestLogger(),
	}

	history := []chat.Turn{
		{Role: chat.RoleUser, Content: "hello"},
		{Role: chat.RoleAssistant, Content: "hi"},
	}
	reply, err := conv.Converse(context.Background(), history, "how are you?")
	require.NoError(t, err)
	require.Equal(t, "sure thing", reply.Text)
	require.Equal(t, 25, reply.Usage.TotalTokens)

	require.Equal(t, "gpt-test", gotReq.Model)
	require.Equal(t, 256, gotReq.MaxTokens)
	require.Equal(t, []Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: "how are you?"},
	}, gotReq.Messages)
}

func TestConversationConverseUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL)
	require.NoError(t, err)
	conv := &Conversation{client: client, cfg: ConversationConfig{Model: "gpt-test"}, logger: newTestLogger()}

	_, err = conv.Converse(context.Background(), nil, "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=503")
}

func TestTrimToBudgetWithoutEncoder(t *testing.T) {
	conv := &Conversation{cfg: ConversationConfig{ContextBudget: 1}, logger: newTestLogger()}
	history := []chat.Turn{
		{Role: chat.RoleUser, Content: "a"},
		{Role: chat.RoleAssistant, Content: "b"},
	}

	// Without an encoder the budget cannot be measured, so nothing is dropped.
	require.Equal(t, history, conv.trimToBudget(history, "c"))
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
