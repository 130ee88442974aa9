package response

import (
	"context"
	"fmt"
	"strings"

	"rmf-policy-be/pkg/llm"
)

// Retriever is the subset of search.Retriever the generator needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}

// Generator answers free-form questions from the knowledge corpus.
type Generator struct {
	retriever    Retriever
	provider     llm.LLMProvider
	systemPrompt string
	model        string
	topK         int
}

func NewGenerator(retriever Retriever, provider llm.LLMProvider, systemPrompt, model string) *Generator {
	return &Generator{
		retriever:    retriever,
		provider:     provider,
		systemPrompt: systemPrompt,
		model:        model,
		topK:         4,
	}
}

// BuildPrompt renders the grounded question prompt.
func BuildPrompt(systemPrompt string, passages []string, question string) string {
	return fmt.Sprintf("%s\n\nContext:\n%s\n\nQuestion: %s\n\nPlease provide your response in plain text format.\n",
		systemPrompt, strings.Join(passages, "\n\n"), question)
}

// Answer retrieves context and asks the model. Errors keep their
// llm.ServiceError kind.
func (g *Generator) Answer(ctx context.Context, question string) (string, error) {
	passages, err := g.retriever.Retrieve(ctx, question, g.topK)
	if err != nil {
		return "", err
	}

	answer, err := g.provider.Generate(ctx, BuildPrompt(g.systemPrompt, passages, question),
		llm.WithModel(g.model),
		llm.WithTemperature(0),
		llm.WithMaxTokens(1024),
	)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
