package implementation

import (
	"context"

	"rmf-policy-be/internal/entity"
	"rmf-policy-be/internal/mapper"
	"rmf-policy-be/internal/model"
	"rmf-policy-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CorpusRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CorpusChunkMapper
}

func NewCorpusRepository(db *gorm.DB) contract.CorpusRepository {
	return &CorpusRepositoryImpl{
		db:     db,
		mapper: mapper.NewCorpusChunkMapper(),
	}
}

func (r *CorpusRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CorpusChunk{}).Count(&count).Error
	return count, err
}

func (r *CorpusRepositoryImpl) InsertBulk(ctx context.Context, chunks []*entity.CorpusChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := make([]*model.CorpusChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CorpusRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredCorpusChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// pgvector cosine distance is 1 - cosine_similarity
	type result struct {
		model.CorpusChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table(model.CorpusChunk{}.TableName()).
		Select("corpus_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order(gorm.Expr("embedding <=> ?", queryVector)).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredCorpusChunk, len(results))
	for i := range results {
		scored[i] = &entity.ScoredCorpusChunk{
			Chunk:      r.mapper.ToEntity(&results[i].CorpusChunk),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}
