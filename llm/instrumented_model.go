package llm

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

// InstrumentedModel wraps a LanguageModel and emits telemetry plus structured
// logs for every prompt and response. Wrapping at this seam keeps the agents
// free of observability concerns while still giving operators a full trace of
// generative traffic.
type InstrumentedModel struct {
	Inner     framework.LanguageModel
	Telemetry framework.Telemetry
	Logger    *zap.Logger
}

// NewInstrumentedModel builds the wrapper. Telemetry and Logger may each be
// nil; whichever is present receives events.
func NewInstrumentedModel(inner framework.LanguageModel, telemetry framework.Telemetry, logger *zap.Logger) *InstrumentedModel {
	return &InstrumentedModel{Inner: inner, Telemetry: telemetry, Logger: logger}
}

// Generate forwards to the wrapped model, recording prompt and response.
func (m *InstrumentedModel) Generate(ctx context.Context, prompt string, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	m.emitPrompt("generate", options, map[string]any{
		"prompt_chars":   len(prompt),
		"prompt_preview": clip(prompt, 1024),
	})
	started := time.Now()
	resp, err := m.Inner.Generate(ctx, prompt, options)
	m.emitResponse("generate", resp, err, time.Since(started))
	return resp, err
}

// Chat forwards to the wrapped model, recording the message roles and sizes.
func (m *InstrumentedModel) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	roles := make([]string, 0, len(messages))
	total := 0
	for _, msg := range messages {
		roles = append(roles, msg.Role)
		total += len(msg.Content)
	}
	m.emitPrompt("chat", options, map[string]any{
		"message_count": len(messages),
		"roles":         roles,
		"content_chars": total,
	})
	started := time.Now()
	resp, err := m.Inner.Chat(ctx, messages, options)
	m.emitResponse("chat", resp, err, time.Since(started))
	return resp, err
}

func (m *InstrumentedModel) emitPrompt(kind string, options *framework.LLMOptions, meta map[string]any) {
	metadata := map[string]any{"kind": kind, "model": modelFromOptions(options)}
	for k, v := range meta {
		metadata[k] = v
	}
	if m.Telemetry != nil {
		m.Telemetry.Emit(framework.Event{
			Type:      framework.EventLLMPrompt,
			Timestamp: time.Now().UTC(),
			Message:   "llm " + kind + " prompt",
			Metadata:  metadata,
		})
	}
	if m.Logger != nil {
		m.Logger.Debug("llm prompt", zap.String("kind", kind), zap.Any("metadata", metadata))
	}
}

func (m *InstrumentedModel) emitResponse(kind string, resp *framework.LLMResponse, err error, elapsed time.Duration) {
	metadata := map[string]any{"kind": kind, "elapsed_ms": elapsed.Milliseconds()}
	if resp != nil {
		metadata["finish_reason"] = resp.FinishReason
		metadata["text_preview"] = clip(resp.Text, 1024)
		if resp.Usage != nil {
			metadata["usage"] = resp.Usage
		}
	}
	if err != nil {
		metadata["error"] = err.Error()
	}
	if m.Telemetry != nil {
		m.Telemetry.Emit(framework.Event{
			Type:      framework.EventLLMResponse,
			Timestamp: time.Now().UTC(),
			Message:   "llm " + kind + " response",
			Metadata:  metadata,
		})
	}
	if m.Logger != nil {
		if err != nil {
			m.Logger.Warn("llm response error", zap.String("kind", kind), zap.Error(err), zap.Duration("elapsed", elapsed))
		} else {
			m.Logger.Debug("llm response", zap.String("kind", kind), zap.Any("metadata", metadata))
		}
	}
}

func modelFromOptions(options *framework.LLMOptions) string {
	if options != nil && options.Model != "" {
		return options.Model
	}
	return ""
}

func clip(s string, max int) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
