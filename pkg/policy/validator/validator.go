package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/pkg/llm"
	"rmf-policy-be/pkg/questionnaire"
	"rmf-policy-be/pkg/store"
)

const (
	MsgNoRubric        = "No validator provided; answer accepted as compliant."
	MsgInvalidResponse = "Validator response invalid. Provide detailed answer on AI accountability, roles, training, and reporting."
	MsgValidationError = "Validation error. Provide detailed answer on AI accountability, roles, training, and reporting."
	MsgMissingMessage  = "Invalid validator response format."
)

type Verdict struct {
	Compliance store.Compliance `json:"compliance"`
	Message    string           `json:"message"`
}

func (v Verdict) IsCompliant() bool {
	return v.Compliance == store.ComplianceCompliant
}

type Validator struct {
	provider     llm.LLMProvider
	systemPrompt string
	model        string
	logger       logger.ILogger
}

func New(provider llm.LLMProvider, systemPrompt, model string, log logger.ILogger) *Validator {
	return &Validator{
		provider:     provider,
		systemPrompt: systemPrompt,
		model:        model,
		logger:       log,
	}
}

// Validate judges answer against the question rubric. The only error it
// returns is a retryable service failure; every other problem becomes a
// Non-compliant verdict with a generic hint.
func (v *Validator) Validate(ctx context.Context, answer string, q questionnaire.Question) (Verdict, error) {
	if strings.TrimSpace(q.Validator) == "" {
		return Verdict{Compliance: store.ComplianceCompliant, Message: MsgNoRubric}, nil
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: v.systemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(
			"Validator criteria: %s\n\nUser answer: %s\n\nEvaluate and return a JSON object with 'compliance' and 'message' fields.",
			q.Validator, answer)},
	}

	content, err := v.provider.Chat(ctx, messages, llm.WithModel(v.model), llm.WithTemperature(0))
	if err != nil {
		if llm.IsRetryable(err) {
			return Verdict{}, fmt.Errorf("validate answer: %w", err)
		}
		v.logger.Error("Validator", "Validation call failed", map[string]interface{}{
			"question": q.Title,
			"error":    err.Error(),
		})
		return Verdict{Compliance: store.ComplianceNonCompliant, Message: MsgValidationError}, nil
	}

	verdict, ok := ParseVerdict(content)
	if !ok {
		v.logger.Warn("Validator", "Unparseable validator response", map[string]interface{}{
			"question": q.Title,
			"response": content,
		})
		return Verdict{Compliance: store.ComplianceNonCompliant, Message: MsgInvalidResponse}, nil
	}

	return verdict, nil
}

type rawVerdict struct {
	Compliance *string `json:"compliance"`
	Message    *string `json:"message"`
}

// ParseVerdict extracts {compliance, message} from a model reply. Code
// fences and text around the object are tolerated. Anything other than a
// case-insensitive "compliant" is Non-compliant.
func ParseVerdict(content string) (Verdict, bool) {
	body := strings.TrimSpace(content)
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end <= start {
		return Verdict{}, false
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(body[start:end+1]), &raw); err != nil {
		return Verdict{}, false
	}

	verdict := Verdict{Compliance: store.ComplianceNonCompliant, Message: MsgMissingMessage}
	if raw.Compliance != nil && strings.EqualFold(strings.TrimSpace(*raw.Compliance), string(store.ComplianceCompliant)) {
		verdict.Compliance = store.ComplianceCompliant
	}
	if raw.Message != nil {
		verdict.Message = *raw.Message
	}
	return verdict, true
}
