// Package llm provides language-model clients implementing
// framework.LanguageModel.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

const defaultGroqEndpoint = "https://api.groq.com/openai/v1"

// Client implements framework.LanguageModel for the Groq chat-completions
// API (OpenAI-compatible wire format).
type Client struct {
	Endpoint string
	APIKey   string
	Model    string
	client   *http.Client
}

// NewClient builds a new Groq client. The request timeout covers a single
// generation round-trip; callers set overall deadlines via context.
func NewClient(endpoint, apiKey, model string) *Client {
	if endpoint == "" {
		endpoint = defaultGroqEndpoint
	}
	return &Client{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Model:    model,
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

type chatRequest struct {
	Model       string              `json:"model"`
	Messages    []framework.Message `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Stop        []string            `json:"stop,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate implements single prompt completion by wrapping the prompt in a
// one-message chat.
func (c *Client) Generate(ctx context.Context, prompt string, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return c.Chat(ctx, []framework.Message{{Role: "user", Content: prompt}}, options)
}

// Chat implements chat style conversation.
func (c *Client) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	payload := chatRequest{
		Model:    c.model(options),
		Messages: messages,
	}
	if options != nil {
		payload.Temperature = options.Temperature
		payload.MaxTokens = options.MaxTokens
		payload.Stop = options.Stop
	}
	return c.doRequest(ctx, payload)
}

func (c *Client) model(options *framework.LLMOptions) string {
	if options != nil && options.Model != "" {
		return options.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return "llama3-8b-8192"
}

func (c *Client) getHTTPClient() *http.Client {
	if c.client != nil {
		return c.client
	}
	c.client = &http.Client{Timeout: 90 * time.Second}
	return c.client
}

func (c *Client) doRequest(ctx context.Context, payload chatRequest) (*framework.LLMResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := strings.TrimSpace(string(msg))
		if detail != "" {
			return nil, fmt.Errorf("groq error: %s: %s", resp.Status, detail)
		}
		return nil, fmt.Errorf("groq error: %s", resp.Status)
	}
	var raw chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if len(raw.Choices) == 0 {
		return nil, fmt.Errorf("groq response contained no choices")
	}
	out := &framework.LLMResponse{
		Text:         raw.Choices[0].Message.Content,
		FinishReason: raw.Choices[0].FinishReason,
	}
	usage := make(map[string]int)
	if raw.Usage.PromptTokens > 0 {
		usage["prompt_tokens"] = raw.Usage.PromptTokens
	}
	if raw.Usage.CompletionTokens > 0 {
		usage["completion_tokens"] = raw.Usage.CompletionTokens
	}
	if len(usage) > 0 {
		out.Usage = usage
	}
	return out, nil
}
