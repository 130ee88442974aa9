package factory

import (
	"testing"

	"rmf-policy-be/pkg/llm/anthropic"
	"rmf-policy-be/pkg/llm/ollama"
	"rmf-policy-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(Params{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaProvider{}, p)

	p, err = NewLLMProvider(Params{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Provider{}, p)

	p, err = NewLLMProvider(Params{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &anthropic.Provider{}, p)

	_, err = NewLLMProvider(Params{Provider: "anthropic"})
	assert.Error(t, err)

	_, err = NewLLMProvider(Params{Provider: "bogus"})
	assert.Error(t, err)
}
