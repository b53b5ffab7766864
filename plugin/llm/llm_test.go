package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMessagesRoleMapping(t *testing.T) {
	converted := convertMessages([]Message{
		{Role: "system", Content: "s"},
		{Role: "user", Content: "u"},
		{Role: "model", Content: "m"},
		{Role: "assistant", Content: "a"},
		{Role: "bogus", Content: "b"},
	})

	require.Len(t, converted, 5)
	assert.Equal(t, openai.ChatMessageRoleSystem, converted[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, converted[1].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, converted[2].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, converted[3].Role)
	// Unknown roles fall back to user rather than failing the turn.
	assert.Equal(t, openai.ChatMessageRoleUser, converted[4].Role)
}

func TestNewServiceRequiresModel(t *testing.T) {
	_, err := NewService(&Config{APIKey: "k"})
	require.Error(t, err)
}

func TestCompleteRoundTrip(t *testing.T) {
	var gotRequest openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "Engineering suits you."}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc, err := NewService(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	require.NoError(t, err)

	reply, err := svc.Complete(context.Background(), []Message{
		SystemPrompt("You are a career mentor."),
		UserMessage("What should I study?"),
		{Role: "model", Content: "Tell me your interests."},
		UserMessage("I like building things."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Engineering suits you.", reply)

	require.Len(t, gotRequest.Messages, 4)
	assert.Equal(t, "test-model", gotRequest.Model)
	assert.Equal(t, openai.ChatMessageRoleSystem, gotRequest.Messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, gotRequest.Messages[2].Role)
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	svc, err := NewService(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), []Message{UserMessage("hi")})
	require.Error(t, err)
}
