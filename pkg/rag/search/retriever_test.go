package search

import (
	"context"
	"testing"

	"rmf-policy-be/internal/entity"
	"rmf-policy-be/internal/repository/memory"
	"rmf-policy-be/pkg/embedding/embeddingtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetriever_ReturnsClosestPassages(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCorpusRepository()
	require.NoError(t, repo.InsertBulk(ctx, []*entity.CorpusChunk{
		{Content: "govern", Embedding: []float32{1, 0, 0}},
		{Content: "map", Embedding: []float32{0, 1, 0}},
		{Content: "measure", Embedding: []float32{0, 0, 1}},
	}))

	embedder := embeddingtest.NewProvider().Set("who governs?", 0.9, 0.1, 0)
	r := NewRetriever(repo, embedder)

	passages, err := r.Retrieve(ctx, "who governs?", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"govern", "map"}, passages)
}

func TestRetriever_DefaultsK(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCorpusRepository()
	for i := 0; i < 6; i++ {
		require.NoError(t, repo.InsertBulk(ctx, []*entity.CorpusChunk{{Content: "x", Embedding: []float32{0, 0, 1}}}))
	}

	passages, err := NewRetriever(repo, embeddingtest.NewProvider()).Retrieve(ctx, "q", 0)
	require.NoError(t, err)
	assert.Len(t, passages, DefaultTopK)
}
