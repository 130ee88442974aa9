package embedding

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"rmf-policy-be/pkg/llm"
)

const defaultGeminiModel = "gemini-embedding-001"

type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini embedding provider requires GOOGLE_GEMINI_API_KEY")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	if taskType == "" {
		taskType = TaskSemanticSimilarity
	}

	result, err := p.client.Models.EmbedContent(ctx, p.model, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, classifyGenAIError(err)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, llm.NewServiceError(llm.KindMalformed, "gemini.embed", 0, fmt.Errorf("no embeddings returned"))
	}

	return Normalize(result.Embeddings[0].Values), nil
}

func classifyGenAIError(err error) error {
	msg := err.Error()
	for _, marker := range []string{"RESOURCE_EXHAUSTED", "UNAVAILABLE", "DEADLINE_EXCEEDED", "Error 429", "Error 503", "Error 500"} {
		if strings.Contains(msg, marker) {
			return llm.NewServiceError(llm.KindRetryable, "gemini.embed", 0, err)
		}
	}
	return llm.FromTransport("gemini.embed", err)
}
