package corpus

import (
	"context"
	"fmt"

	"rmf-policy-be/internal/entity"
	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/internal/repository/contract"
	"rmf-policy-be/pkg/embedding"
)

// Indexer embeds passages into the corpus repository.
type Indexer struct {
	repo     contract.CorpusRepository
	embedder embedding.EmbeddingProvider
	logger   logger.ILogger
}

func NewIndexer(repo contract.CorpusRepository, embedder embedding.EmbeddingProvider, log logger.ILogger) *Indexer {
	return &Indexer{repo: repo, embedder: embedder, logger: log}
}

// EnsureIndexed embeds and stores passages only when the repository is
// empty. It returns the number of passages written.
func (i *Indexer) EnsureIndexed(ctx context.Context, passages []Passage) (int, error) {
	count, err := i.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count corpus: %w", err)
	}
	if count > 0 {
		i.logger.Info("CorpusIndexer", "Corpus already indexed", map[string]interface{}{
			"chunks": count,
		})
		return 0, nil
	}

	chunks := make([]*entity.CorpusChunk, 0, len(passages))
	for _, p := range passages {
		vec, err := i.embedder.Generate(ctx, p.Content, embedding.TaskRetrievalDocument)
		if err != nil {
			return 0, fmt.Errorf("embed section %q chunk %d: %w", p.Section, p.ChunkIndex, err)
		}
		chunks = append(chunks, &entity.CorpusChunk{
			Section:    p.Section,
			Content:    p.Content,
			ChunkIndex: p.ChunkIndex,
			Embedding:  vec,
		})
	}

	if err := i.repo.InsertBulk(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store corpus: %w", err)
	}

	i.logger.Info("CorpusIndexer", "Corpus indexed", map[string]interface{}{
		"chunks": len(chunks),
	})
	return len(chunks), nil
}
