package framework

import (
	"context"
	"strings"
)

// LLMOptions configures language model calls. Keeping the options struct
// inside the framework avoids hard-coding provider specific fields in agent
// code.
type LLMOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Stop        []string
}

// LLMResponse is the result of a language model invocation.
type LLMResponse struct {
	Text         string         `json:"text,omitempty"`
	FinishReason string         `json:"finish_reason,omitempty"`
	Usage        map[string]int `json:"usage,omitempty"`
}

// Message is used for chat-like interactions.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LanguageModel provides the required LLM capabilities. Any implementation
// satisfying the contract is interchangeable, which is what allows the test
// suite to script deterministic malformed/valid documents.
type LanguageModel interface {
	Generate(ctx context.Context, prompt string, options *LLMOptions) (*LLMResponse, error)
	Chat(ctx context.Context, messages []Message, options *LLMOptions) (*LLMResponse, error)
}

// Invoke runs a system + user instruction pair against the model and returns
// the trimmed text. Every agent prompt in this repo goes through the same
// two-message shape, so the helper lives next to the interface.
func Invoke(ctx context.Context, model LanguageModel, system, user string, options *LLMOptions) (string, error) {
	resp, err := model.Chat(ctx, []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, options)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
