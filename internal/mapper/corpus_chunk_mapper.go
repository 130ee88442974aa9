package mapper

import (
	"rmf-policy-be/internal/entity"
	"rmf-policy-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type CorpusChunkMapper struct{}

func NewCorpusChunkMapper() *CorpusChunkMapper {
	return &CorpusChunkMapper{}
}

func (m *CorpusChunkMapper) ToEntity(c *model.CorpusChunk) *entity.CorpusChunk {
	if c == nil {
		return nil
	}
	return &entity.CorpusChunk{
		Id:         c.Id,
		Section:    c.Section,
		Content:    c.Content,
		ChunkIndex: c.ChunkIndex,
		Embedding:  c.Embedding.Slice(),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *CorpusChunkMapper) ToModel(c *entity.CorpusChunk) *model.CorpusChunk {
	if c == nil {
		return nil
	}
	return &model.CorpusChunk{
		Id:         c.Id,
		Section:    c.Section,
		Content:    c.Content,
		ChunkIndex: c.ChunkIndex,
		Embedding:  pgvector.NewVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
	}
}
