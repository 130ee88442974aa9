package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"rmf-policy-be/internal/entity"
	"rmf-policy-be/internal/repository/contract"
	"rmf-policy-be/pkg/embedding"

	"github.com/google/uuid"
)

// CorpusRepository is a brute-force cosine index used when no database is
// configured. The corpus is small enough for a linear scan.
type CorpusRepository struct {
	mu     sync.RWMutex
	chunks []*entity.CorpusChunk
}

func NewCorpusRepository() contract.CorpusRepository {
	return &CorpusRepository{}
}

func (r *CorpusRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.chunks)), nil
}

func (r *CorpusRepository) InsertBulk(_ context.Context, chunks []*entity.CorpusChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range chunks {
		if c.Id == uuid.Nil {
			c.Id = uuid.New()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}
		cp := *c
		cp.Embedding = append([]float32(nil), c.Embedding...)
		r.chunks = append(r.chunks, &cp)
	}
	return nil
}

func (r *CorpusRepository) SearchSimilar(_ context.Context, vec []float32, limit int) ([]*entity.ScoredCorpusChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	r.mu.RLock()
	scored := make([]*entity.ScoredCorpusChunk, 0, len(r.chunks))
	for _, c := range r.chunks {
		scored = append(scored, &entity.ScoredCorpusChunk{
			Chunk:      c,
			Similarity: embedding.CosineSimilarity(vec, c.Embedding),
		})
	}
	r.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
