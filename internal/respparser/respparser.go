// Package respparser implements the Response Parsers: stateful,
// per-request extractors of token usage (and, for Anthropic, cost) from an
// observed response body copy. Parser selection uses a small sum-type of
// provider families rather than polymorphic interface dispatch, per the
// gateway's "avoid dynamic dispatch on the hot path" design guidance.
package respparser

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	gateway "github.com/eugener/gandalf/internal"
	"github.com/eugener/gandalf/internal/pricing"
)

// Family selects which wire format a Response Parser should expect.
type Family int

const (
	FamilyNone Family = iota
	FamilyOpenAI
	FamilyAnthropic
)

// FamilyForProvider maps a registered provider name to its observed wire
// format, or FamilyNone if the gateway does not parse that provider's
// responses.
func FamilyForProvider(provider string) Family {
	switch provider {
	case "openai", "groq", "mistral", "deepseek", "together", "cerebras",
		"novita", "moonshot", "minimax", "openrouter", "fireworks", "qwen":
		return FamilyOpenAI
	case "anthropic":
		return FamilyAnthropic
	default:
		return FamilyNone
	}
}

type openAIUsage struct {
	PromptTokens            int `json:"prompt_tokens"`
	CompletionTokens        int `json:"completion_tokens"`
	TotalTokens             int `json:"total_tokens"`
	PromptTokensDetails     *struct {
		CachedTokens int `json:"cached_tokens"`
		AudioTokens  int `json:"audio_tokens"`
	} `json:"prompt_tokens_details"`
	CompletionTokensDetails *struct {
		ReasoningTokens int `json:"reasoning_tokens"`
		AudioTokens     int `json:"audio_tokens"`
	} `json:"completion_tokens_details"`
}

func openAITokens(u openAIUsage) gateway.TokenMetrics {
	cached := 0
	if u.PromptTokensDetails != nil {
		cached = u.PromptTokensDetails.CachedTokens
	}
	return gateway.TokenMetrics{
		Input:  int32(u.PromptTokens),
		Output: int32(u.CompletionTokens),
		Cached: int32(cached),
		Total:  int32(u.TotalTokens),
	}
}

type anthropicUsage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
}

func anthropicTokens(u anthropicUsage) gateway.TokenMetrics {
	return gateway.TokenMetrics{
		Input:  int32(u.InputTokens),
		Output: int32(u.OutputTokens),
		Cached: int32(u.CacheReadInputTokens),
		Total:  int32(u.InputTokens + u.OutputTokens),
	}
}

func modelOrUnknown(m string) string {
	if m == "" {
		return "unknown"
	}
	return m
}

// ParseNonStreaming parses a complete response body for the given family
// and returns a single UsageEvent, or ok=false if the family is FamilyNone
// or the body has no usage object.
func ParseNonStreaming(family Family, requestID string, body []byte) (gateway.UsageEvent, bool) {
	switch family {
	case FamilyOpenAI:
		u := gjson.GetBytes(body, "usage")
		if !u.IsObject() {
			return gateway.UsageEvent{}, false
		}
		var usage openAIUsage
		if json.Unmarshal([]byte(u.Raw), &usage) != nil {
			return gateway.UsageEvent{}, false
		}
		model := gjson.GetBytes(body, "model").String()
		return gateway.UsageEvent{
			RequestID: requestID,
			Provider:  "openai",
			Model:     modelOrUnknown(model),
			Streaming: false,
			Tokens:    openAITokens(usage),
		}, true

	case FamilyAnthropic:
		u := gjson.GetBytes(body, "usage")
		if !u.IsObject() {
			return gateway.UsageEvent{}, false
		}
		var usage anthropicUsage
		if json.Unmarshal([]byte(u.Raw), &usage) != nil {
			return gateway.UsageEvent{}, false
		}
		model := gjson.GetBytes(body, "model").String()
		tokens := anthropicTokens(usage)
		cost := pricing.CostFromComponents(model, int32(usage.InputTokens), int32(usage.OutputTokens),
			int32(usage.CacheCreationInputTokens), int32(usage.CacheReadInputTokens))
		return gateway.UsageEvent{
			RequestID: requestID,
			Provider:  "anthropic",
			Model:     modelOrUnknown(model),
			Streaming: false,
			Tokens:    tokens,
			Cost:      &cost,
		}, true

	default:
		return gateway.UsageEvent{}, false
	}
}

// StreamingParser holds per-request state for streaming response parsing.
// Anthropic's message_stop frame carries no model field, so the model seen
// on a prior message_start is retained.
type StreamingParser struct {
	family       Family
	requestID    string
	pendingModel string
}

// NewStreamingParser returns a parser for one streaming request.
func NewStreamingParser(family Family, requestID string) *StreamingParser {
	return &StreamingParser{family: family, requestID: requestID}
}

// Feed processes one SSE data payload (the text after "data: ", with the
// "[DONE]" sentinel already excluded by the caller) and returns an
// UsageEvent at most once per request: Anthropic's usage tally is only
// final on message_stop, so message_start only records the model for
// later use and never emits. Malformed JSON is treated as "no event"
// rather than an error -- the caller logs it at a low level and continues.
func (sp *StreamingParser) Feed(payload string) (gateway.UsageEvent, bool) {
	switch sp.family {
	case FamilyOpenAI:
		if !gjson.Valid(payload) {
			return gateway.UsageEvent{}, false
		}
		u := gjson.Get(payload, "usage")
		if !u.IsObject() {
			return gateway.UsageEvent{}, false
		}
		var usage openAIUsage
		if json.Unmarshal([]byte(u.Raw), &usage) != nil {
			return gateway.UsageEvent{}, false
		}
		model := gjson.Get(payload, "model").String()
		return gateway.UsageEvent{
			RequestID: sp.requestID,
			Provider:  "openai",
			Model:     modelOrUnknown(model),
			Streaming: true,
			Tokens:    openAITokens(usage),
		}, true

	case FamilyAnthropic:
		if !gjson.Valid(payload) {
			return gateway.UsageEvent{}, false
		}
		typ := gjson.Get(payload, "type").String()
		switch typ {
		case "message_start":
			sp.pendingModel = gjson.Get(payload, "message.model").String()
			return gateway.UsageEvent{}, false

		case "message_stop":
			u := gjson.Get(payload, "usage")
			if !u.Exists() {
				return gateway.UsageEvent{}, false
			}
			return sp.anthropicEvent(u.Raw, modelOrUnknown(sp.pendingModel))

		default:
			return gateway.UsageEvent{}, false
		}

	default:
		return gateway.UsageEvent{}, false
	}
}

func (sp *StreamingParser) anthropicEvent(usageJSON, model string) (gateway.UsageEvent, bool) {
	var usage anthropicUsage
	if json.Unmarshal([]byte(usageJSON), &usage) != nil {
		return gateway.UsageEvent{}, false
	}
	tokens := anthropicTokens(usage)
	cost := pricing.CostFromComponents(model, int32(usage.InputTokens), int32(usage.OutputTokens),
		int32(usage.CacheCreationInputTokens), int32(usage.CacheReadInputTokens))
	return gateway.UsageEvent{
		RequestID: sp.requestID,
		Provider:  "anthropic",
		Model:     modelOrUnknown(model),
		Streaming: true,
		Tokens:    tokens,
		Cost:      &cost,
	}, true
}
