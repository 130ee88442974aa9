package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type CorpusChunk struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Section    string    `gorm:"type:varchar(255);index"`
	Content    string    `gorm:"type:text;not null"`
	ChunkIndex int       `gorm:"default:0"`
	// Unsized so the column accepts whatever dimension the configured
	// embedding model produces.
	Embedding pgvector.Vector `gorm:"type:vector"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (CorpusChunk) TableName() string {
	return "corpus_chunks"
}
