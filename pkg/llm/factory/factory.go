package factory

import (
	"fmt"

	"rmf-policy-be/pkg/llm"
	"rmf-policy-be/pkg/llm/anthropic"
	"rmf-policy-be/pkg/llm/ollama"
	"rmf-policy-be/pkg/llm/openai"
)

type Params struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(p Params) (llm.LLMProvider, error) {
	switch p.Provider {
	case "ollama":
		baseURL := p.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, p.Model), nil
	case "openai":
		return openai.NewProvider(p.APIKey, p.BaseURL, p.Model), nil
	case "anthropic":
		if p.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider requires ANTHROPIC_API_KEY")
		}
		return anthropic.NewProvider(p.APIKey, p.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", p.Provider)
	}
}
