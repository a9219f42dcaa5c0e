package factory

import (
	"fmt"

	"ship-consultant-be/pkg/llm"
	"ship-consultant-be/pkg/llm/anthropic"
	"ship-consultant-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, anthropicKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "anthropic":
		if anthropicKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		return anthropic.NewAnthropicProvider(anthropicKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
