// Package quiz implements the branching career quiz. The flow keeps no
// server-side state: every call is reconstructed from the caller-supplied
// stream and answers mapping.
package quiz

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/edupath/mentor/plugin/llm"
	"github.com/edupath/mentor/server/internal/errors"
)

// Streams with a hardcoded opening question.
const (
	StreamScience  = "science"
	StreamCommerce = "commerce"
	StreamArts     = "arts"
)

// Response is the single JSON object the quiz emits: either the next
// question with its options, or the final recommendation.
type Response struct {
	Type     string   `json:"type"`
	Question string   `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`
	Result   string   `json:"result,omitempty"`
}

const (
	// TypeQuestion marks a follow-up question.
	TypeQuestion = "question"
	// TypeResult marks the final recommendation.
	TypeResult = "result"
)

// firstQuestions is the fixed opening question per stream. Served without a
// model call.
var firstQuestions = map[string]Response{
	StreamScience: {
		Type:     TypeQuestion,
		Question: "Which field are you most interested in within Science?",
		Options:  []string{"Engineering", "Medical", "Pure Science & Research"},
	},
	StreamCommerce: {
		Type:     TypeQuestion,
		Question: "Which area within Commerce excites you the most?",
		Options:  []string{"Finance & Analysis", "Marketing & Sales", "Business Management", "Policy & Economics"},
	},
	StreamArts: {
		Type:     TypeQuestion,
		Question: "Which area in Arts & Humanities inspires you the most?",
		Options:  []string{"Design & Visual Arts", "Performing Arts", "Social Sciences", "Literature & Languages"},
	},
}

// Service produces the next quiz question or the final recommendation.
type Service struct {
	llm llm.Service
}

// NewService creates a quiz orchestrator.
func NewService(llmService llm.Service) *Service {
	return &Service{llm: llmService}
}

// Next advances the quiz. With no answers yet it returns the stream's fixed
// first question; otherwise it delegates the branching decision to the
// completion model.
func (s *Service) Next(ctx context.Context, stream string, answers map[string]string) (*Response, error) {
	if len(answers) == 0 {
		first, ok := firstQuestions[stream]
		if !ok {
			return nil, errors.InvalidArgument("Invalid stream selected")
		}
		return &first, nil
	}

	prompt, err := buildPrompt(stream, answers)
	if err != nil {
		return nil, errors.GenerationFailed("Failed to generate quiz content", err)
	}

	raw, err := s.llm.Complete(ctx, []llm.Message{llm.UserMessage(prompt)})
	if err != nil {
		return nil, errors.GenerationFailed("Failed to generate quiz content", err)
	}

	response, err := parseResponse(raw)
	if err != nil {
		return nil, errors.GenerationFailed("Failed to generate quiz content", err)
	}
	return response, nil
}

// parseResponse parses the model output into a Response, stripping a
// markdown code fence when present. Any contract violation is a hard
// failure; there is no repair and no retry.
func parseResponse(raw string) (*Response, error) {
	jsonStr := strings.TrimSpace(raw)
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")
	jsonStr = strings.TrimSpace(jsonStr)

	var response Response
	if err := json.Unmarshal([]byte(jsonStr), &response); err != nil {
		return nil, err
	}

	switch response.Type {
	case TypeQuestion:
		if response.Question == "" || len(response.Options) == 0 {
			return nil, errors.GenerationFailed("question response missing question or options", nil)
		}
	case TypeResult:
		if response.Result == "" {
			return nil, errors.GenerationFailed("result response missing result", nil)
		}
	default:
		return nil, errors.GenerationFailed("unknown response type: "+response.Type, nil)
	}
	return &response, nil
}
