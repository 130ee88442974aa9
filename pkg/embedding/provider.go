package embedding

import "context"

// Task types understood by providers that distinguish them (Gemini).
// Others ignore the hint.
const (
	TaskSemanticSimilarity = "SEMANTIC_SIMILARITY"
	TaskRetrievalQuery     = "RETRIEVAL_QUERY"
	TaskRetrievalDocument  = "RETRIEVAL_DOCUMENT"
)

// EmbeddingProvider defines the interface for generating text embeddings.
// Output is deterministic for a given input and unit-normalized.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
