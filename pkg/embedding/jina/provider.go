package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rmf-policy-be/pkg/embedding"
	"rmf-policy-be/pkg/llm"
)

// JinaProvider calls the Jina (OpenAI-compatible) embeddings endpoint.
type JinaProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ embedding.EmbeddingProvider = &JinaProvider{}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
	Task  string   `json:"task,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewJinaProvider(apiKey, baseURL, model string) *JinaProvider {
	if baseURL == "" {
		baseURL = "https://api.jina.ai/v1/embeddings"
	}
	if model == "" {
		model = "jina-embeddings-v3"
	}
	return &JinaProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

var taskNames = map[string]string{
	embedding.TaskSemanticSimilarity: "text-matching",
	embedding.TaskRetrievalQuery:     "retrieval.query",
	embedding.TaskRetrievalDocument:  "retrieval.passage",
}

func (p *JinaProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	jsonData, err := json.Marshal(embeddingRequest{
		Model: p.model,
		Input: []string{text},
		Task:  taskNames[taskType],
	})
	if err != nil {
		return nil, llm.NewServiceError(llm.KindFatal, "jina.embed", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, llm.NewServiceError(llm.KindFatal, "jina.embed", 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, llm.FromTransport("jina.embed", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llm.FromTransport("jina.embed", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, llm.FromStatus("jina.embed", resp.StatusCode, string(bodyBytes))
	}

	var jinaResp embeddingResponse
	if err := json.Unmarshal(bodyBytes, &jinaResp); err != nil {
		return nil, llm.NewServiceError(llm.KindMalformed, "jina.embed", resp.StatusCode, err)
	}
	if jinaResp.Error != nil {
		return nil, llm.NewServiceError(llm.KindFatal, "jina.embed", resp.StatusCode, fmt.Errorf("%s", jinaResp.Error.Message))
	}
	if len(jinaResp.Data) == 0 {
		return nil, llm.NewServiceError(llm.KindMalformed, "jina.embed", resp.StatusCode, fmt.Errorf("empty embeddings"))
	}

	return embedding.Normalize(jinaResp.Data[0].Embedding), nil
}
