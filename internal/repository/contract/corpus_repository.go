package contract

import (
	"context"

	"rmf-policy-be/internal/entity"
)

type CorpusRepository interface {
	Count(ctx context.Context) (int64, error)
	InsertBulk(ctx context.Context, chunks []*entity.CorpusChunk) error
	// SearchSimilar returns at most limit chunks ordered by descending
	// cosine similarity.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredCorpusChunk, error)
}
