package strategy

import gateway "github.com/eugener/gandalf/internal"

// anthropicHeaders are static headers Anthropic's API requires that are not
// part of client authentication material (the anthropic-version header is
// a protocol constant, not a credential).
var anthropicHeaders = map[string]string{"Anthropic-Version": "2023-06-01"}

// Defaults returns the full set of well-known provider strategies: the
// transparent majority, the two prefixed providers, and the three templated
// cloud-hosting strategies. Construction order does not matter; router.New
// rejects duplicate names regardless of order.
func Defaults() []gateway.ProviderStrategy {
	transparent := []struct{ name, host string }{
		{"openai", "api.openai.com"},
		{"anthropic", "api.anthropic.com"},
		{"groq", "api.groq.com"},
		{"mistral", "api.mistral.ai"},
		{"deepseek", "api.deepseek.com"},
		{"perplexity", "api.perplexity.ai"},
		{"cohere", "api.cohere.ai"},
		{"together", "api.together.xyz"},
		{"elevenlabs", "api.elevenlabs.io"},
		{"replicate", "api.replicate.com"},
		{"xai", "api.x.ai"},
		{"moonshot", "api.moonshot.cn"},
		{"minimax", "api.minimax.chat"},
		{"qwen", "dashscope.aliyuncs.com"},
		{"novita", "api.novita.ai"},
		{"cerebras", "api.cerebras.ai"},
		{"gemini", "generativelanguage.googleapis.com"},
		{"ollama", "localhost:11434"},
	}

	strategies := make([]gateway.ProviderStrategy, 0, len(transparent)+5)
	for _, t := range transparent {
		var headers map[string]string
		if t.name == "anthropic" {
			headers = anthropicHeaders
		}
		strategies = append(strategies, NewTransparent(t.name, t.host, headers))
	}

	// Duplicate-name source bug ("DeepseekStrategy" and "DeepSeekStrategy",
	// both claiming "deepseek"): collapsed to the single entry above.
	// Registration rejects any further duplicate regardless of source.

	strategies = append(strategies,
		NewPrefixed("openrouter", "openrouter.ai", "api", nil),
		NewPrefixed("fireworks", "api.fireworks.ai", "inference", nil),
		NewBedrock("aws-bedrock"),
		NewAzure("azure-openai"),
		NewVertexAI("google-vertex-ai"),
	)

	return strategies
}
