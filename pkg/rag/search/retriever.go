package search

import (
	"context"
	"fmt"

	"rmf-policy-be/internal/repository/contract"
	"rmf-policy-be/pkg/embedding"
)

const DefaultTopK = 4

// Retriever finds the corpus passages closest to a question.
type Retriever struct {
	repo     contract.CorpusRepository
	embedder embedding.EmbeddingProvider
}

func NewRetriever(repo contract.CorpusRepository, embedder embedding.EmbeddingProvider) *Retriever {
	return &Retriever{repo: repo, embedder: embedder}
}

// Retrieve returns the text of the top k passages, best first. Embedding
// errors are returned unwrapped in kind so callers can detect retryable
// failures.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	vec, err := r.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.repo.SearchSimilar(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search corpus: %w", err)
	}

	passages := make([]string, len(hits))
	for i, h := range hits {
		passages[i] = h.Chunk.Content
	}
	return passages, nil
}
