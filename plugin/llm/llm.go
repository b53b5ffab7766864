// Package llm wraps the external completion API behind a small service
// interface. Role vocabulary translation between the internal message model
// and the API happens here and nowhere else.
package llm

import (
	"context"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Message represents a chat message in the internal role vocabulary.
type Message struct {
	Role    string // system, user, model
	Content string
}

// Service is the completion service interface.
type Service interface {
	// Complete performs one synchronous completion over the full turn list.
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Config represents completion client configuration.
type Config struct {
	APIKey      string
	BaseURL     string // empty for the default OpenAI endpoint
	Model       string
	MaxTokens   int     // default: 2048
	Temperature float32 // default: 0.7
}

// roleMapping translates internal roles to the external API vocabulary.
// "assistant" is accepted as a legacy alias for "model".
var roleMapping = map[string]string{
	"system":    openai.ChatMessageRoleSystem,
	"user":      openai.ChatMessageRoleUser,
	"model":     openai.ChatMessageRoleAssistant,
	"assistant": openai.ChatMessageRoleAssistant,
}

type service struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewService creates a new completion Service.
func NewService(cfg *Config) (Service, error) {
	if cfg.Model == "" {
		return nil, errors.New("completion model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}

	return &service{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}, nil
}

func (s *service) Complete(ctx context.Context, messages []Message) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    convertMessages(messages),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func convertMessages(messages []Message) []openai.ChatCompletionMessage {
	converted := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		role, ok := roleMapping[m.Role]
		if !ok {
			role = openai.ChatMessageRoleUser
		}
		converted[i] = openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		}
	}
	return converted
}

// SystemPrompt creates a system message.
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}
