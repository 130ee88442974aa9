package checklist

import (
	"context"
	"fmt"
	"strings"

	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/pkg/llm"
	"rmf-policy-be/pkg/questionnaire"
	"rmf-policy-be/pkg/store"
)

const TemplateNotFound = "Template not found."

// Assembler turns the checklist into a filled-in policy document.
type Assembler struct {
	provider llm.LLMProvider
	model    string
	template string
	logger   logger.ILogger
}

// NewAssembler takes the policy template text. An empty template is
// replaced by TemplateNotFound so generation still runs.
func NewAssembler(provider llm.LLMProvider, model, template string, log logger.ILogger) *Assembler {
	if strings.TrimSpace(template) == "" {
		template = TemplateNotFound
	}
	return &Assembler{provider: provider, model: model, template: template, logger: log}
}

// PolicyPrompt builds the single generation prompt.
func PolicyPrompt(template, checklist, orgName string) string {
	orgInstruction := "Leave the organization name as [Organization Name]."
	if orgName != "" {
		orgInstruction = fmt.Sprintf("Use the organization name '%s'.", orgName)
	}

	return fmt.Sprintf("Here is a policy template:\n\n%s\n\n"+
		"And here is the user's checklist with answers:\n\n%s\n\n"+
		"Please generate a filled-in policy by integrating the user's answers into the template under the corresponding "+
		"'NIST AI RMF Sub-Categories' sections based on the 'Citation' column. "+
		"Ensure that the 'Policy Details' is followed by 2 new lines, this section is always in markdown listed bullet points (within 3-5). "+
		"%s Do not hallucinate or add information not provided in the answers. Ensure the output is in Markdown format.",
		template, checklist, orgInstruction)
}

// BuildPolicy returns the model output verbatim. Non-retryable failures
// come back inline as an error paragraph; a retryable failure is returned
// as an error so the caller can answer with the busy message.
func (a *Assembler) BuildPolicy(ctx context.Context, questions []questionnaire.Question, history []store.Turn, orgName string) (string, error) {
	prompt := PolicyPrompt(a.template, BuildChecklist(questions, history), strings.TrimSpace(orgName))

	policy, err := a.provider.Generate(ctx, prompt, llm.WithModel(a.model))
	if err != nil {
		if llm.IsRetryable(err) {
			return "", fmt.Errorf("generate policy: %w", err)
		}
		a.logger.Error("PolicyAssembler", "Policy generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Sprintf("**Error generating policy**: %v", err), nil
	}

	if !strings.Contains(policy, "## ") {
		a.logger.Warn("PolicyAssembler", "Generated policy has no section headings", map[string]interface{}{
			"length": len(policy),
		})
	}

	return policy, nil
}
