package entity

import (
	"time"

	"github.com/google/uuid"
)

// CorpusChunk is one embedded passage of the knowledge corpus.
type CorpusChunk struct {
	Id         uuid.UUID
	Section    string
	Content    string
	ChunkIndex int
	Embedding  []float32
	CreatedAt  time.Time
}

// ScoredCorpusChunk is a search hit.
type ScoredCorpusChunk struct {
	Chunk      *CorpusChunk
	Similarity float64 // 1.0 = identical
}
