package validator

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/pkg/llm"
)

// MinAnswerLength is the minimum trimmed answer length in characters.
const MinAnswerLength = 10

var lowEffortPhrases = map[string]struct{}{
	"i don't know": {},
	"idk":          {},
	"not sure":     {},
}

// IsLowEffort reports whether an answer is rejected without calling any
// external service.
func IsLowEffort(answer string) bool {
	trimmed := strings.TrimSpace(answer)
	if utf8.RuneCountInString(trimmed) < MinAnswerLength {
		return true
	}
	_, found := lowEffortPhrases[strings.ToLower(trimmed)]
	return found
}

// Advisor asks the query-agent model whether a rejected answer is
// meaningful, to give the user a more specific nudge.
type Advisor struct {
	provider     llm.LLMProvider
	systemPrompt string
	model        string
	logger       logger.ILogger
}

func NewAdvisor(provider llm.LLMProvider, systemPrompt, model string, log logger.ILogger) *Advisor {
	return &Advisor{provider: provider, systemPrompt: systemPrompt, model: model, logger: log}
}

// Suggest returns the model's suggestion when it judged the answer not
// meaningful. Retryable failures are returned so the caller can answer
// busy; any other failure is logged and reported as no suggestion.
func (a *Advisor) Suggest(ctx context.Context, answer string) (string, bool, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: a.systemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(
			"Is this user answer meaningful: '%s'? If not, suggest a response to prompt for a better answer.", answer)},
	}

	reply, err := a.provider.Chat(ctx, messages, llm.WithModel(a.model))
	if err != nil {
		if llm.IsRetryable(err) {
			return "", false, err
		}
		a.logger.Warn("Advisor", "Meaningfulness check failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", false, nil
	}

	if strings.Contains(strings.ToLower(reply), "not meaningful") {
		return strings.TrimSpace(reply), true, nil
	}
	return "", false, nil
}
