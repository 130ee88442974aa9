package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrompts_MissingFileUsesDefaults(t *testing.T) {
	p, err := LoadPrompts(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultGenericPrompt, p.SystemPrompts.Generic)
	assert.Equal(t, defaultValidatorPrompt, p.SystemPrompts.Validator)
}

func TestLoadPrompts_FileOverridesAndModels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
models:
  VALIDATOR_AGENT_MODEL: claude-haiku
  GENERIC_MODEL: llama3.1
system_prompts:
  VALIDATOR_SYSTEM_PROMPT: "judge strictly"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, "judge strictly", p.SystemPrompts.Validator)
	assert.Equal(t, defaultPolicyPrompt, p.SystemPrompts.Policy)

	cfg := &Config{Ai: AIConfig{GenericModel: "from-env"}}
	cfg.ApplyModels(p)
	assert.Equal(t, "from-env", cfg.Ai.GenericModel)
	assert.Equal(t, "claude-haiku", cfg.Ai.ValidatorModel)
}

func TestLoadPrompts_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models: [unclosed"), 0o644))

	_, err := LoadPrompts(path)
	assert.Error(t, err)
}
