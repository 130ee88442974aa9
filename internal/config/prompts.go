package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultGenericPrompt = "You are an assistant that answers questions about the NIST AI Risk Management Framework (AI RMF). " +
		"Answer only from the provided context. If the context does not contain the answer, say so plainly."
	defaultPolicyPrompt = "You are a policy-building assistant for the NIST AI RMF. " +
		"You judge whether a user's answer to a questionnaire item is meaningful and, if it is not meaningful, " +
		"reply with the words 'not meaningful' followed by a short suggestion for a better answer."
	defaultValidatorPrompt = "You are a compliance validator for the NIST AI RMF policy questionnaire. " +
		"Evaluate the user answer strictly against the validator criteria. " +
		"Respond ONLY with a JSON object of the form {\"compliance\": \"Compliant\" | \"Non-compliant\", \"message\": \"<short feedback>\"}."
)

// Prompts holds the per-role system prompts and model names read from the
// optional YAML file. Environment variables take precedence for models.
type Prompts struct {
	Models struct {
		Generic    string `yaml:"GENERIC_MODEL"`
		QueryAgent string `yaml:"QUERY_AGENT_MODEL"`
		Policy     string `yaml:"POLICY_GENERATOR_MODEL"`
		Validator  string `yaml:"VALIDATOR_AGENT_MODEL"`
	} `yaml:"models"`
	SystemPrompts struct {
		Generic   string `yaml:"GENERIC_SYSTEM_PROMPT"`
		Policy    string `yaml:"POLICY_SYSTEM_PROMPT"`
		Validator string `yaml:"VALIDATOR_SYSTEM_PROMPT"`
	} `yaml:"system_prompts"`
}

// LoadPrompts reads the YAML prompt file. A missing file is not an error,
// built-in defaults are used for every empty field.
func LoadPrompts(path string) (*Prompts, error) {
	p := &Prompts{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parse prompts file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read prompts file %s: %w", path, err)
	}

	if p.SystemPrompts.Generic == "" {
		p.SystemPrompts.Generic = defaultGenericPrompt
	}
	if p.SystemPrompts.Policy == "" {
		p.SystemPrompts.Policy = defaultPolicyPrompt
	}
	if p.SystemPrompts.Validator == "" {
		p.SystemPrompts.Validator = defaultValidatorPrompt
	}
	return p, nil
}

// ApplyModels fills the role models missing from the environment with the
// values from the prompt file.
func (c *Config) ApplyModels(p *Prompts) {
	if c.Ai.GenericModel == "" {
		c.Ai.GenericModel = p.Models.Generic
	}
	if c.Ai.QueryAgentModel == "" {
		c.Ai.QueryAgentModel = p.Models.QueryAgent
	}
	if c.Ai.PolicyModel == "" {
		c.Ai.PolicyModel = p.Models.Policy
	}
	if c.Ai.ValidatorModel == "" {
		c.Ai.ValidatorModel = p.Models.Validator
	}
}
